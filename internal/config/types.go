// Package config holds the showroom configuration: an embedded default
// merged with an optional user file.
package config

import (
	"image/color"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/formatter"
)

// Config is the merged configuration.
type Config struct {
	App        AppConfig        `yaml:"app" json:"app"`
	Data       DataConfig       `yaml:"data" json:"data"`
	Display    DisplayConfig    `yaml:"display" json:"display"`
	Schema     catalog.Schema   `yaml:"schema" json:"schema"`
	Theme      ThemeSelection   `yaml:"theme" json:"theme"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails" json:"thumbnails"`
}

// AppConfig names the application. Description is a text/template
// rendered with name, version and commit.
type AppConfig struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	Source  string        `yaml:"source,omitempty" json:"source,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// DisplayConfig controls how records are rendered.
type DisplayConfig struct {
	Currency     string        `yaml:"currency,omitempty" json:"currency,omitempty"`
	Placeholder  string        `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Noun         string        `yaml:"noun,omitempty" json:"noun,omitempty"`
	Locale       string        `yaml:"locale,omitempty" json:"locale,omitempty"`
	ProbeImages  *bool         `yaml:"probe_images,omitempty" json:"probe_images,omitempty"`
	ProbeLimit   int           `yaml:"probe_limit,omitempty" json:"probe_limit,omitempty"`
	ProbeTimeout time.Duration `yaml:"probe_timeout,omitempty" json:"probe_timeout,omitempty"`
}

// ThemeSelection picks one of the named themes.
type ThemeSelection struct {
	Default string                 `yaml:"default,omitempty" json:"default,omitempty"`
	Themes  map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
}

// ThumbnailsConfig drives the thumbnails command.
type ThumbnailsConfig struct {
	Endpoint   string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	BatchSize  int           `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
	Delay      time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	Size       string        `yaml:"size,omitempty" json:"size,omitempty"`
	Format     string        `yaml:"format,omitempty" json:"format,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (any, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	// Accept both ints and strings; store the literal value.
	*c = ColorValue(value.Value)
	return nil
}

// Color converts the token for lipgloss. Empty is nil.
func (c ColorValue) Color() color.Color {
	if c == "" {
		return nil
	}
	return lipgloss.Color(string(c))
}

// ThemeConfig is a YAML-friendly theme (colors accept ints or strings).
type ThemeConfig struct {
	Heading     ColorValue `yaml:"heading,omitempty" json:"heading,omitempty"`
	HeaderBG    ColorValue `yaml:"header_bg,omitempty" json:"header_bg,omitempty"`
	Key         ColorValue `yaml:"key,omitempty" json:"key,omitempty"`
	Value       ColorValue `yaml:"value,omitempty" json:"value,omitempty"`
	Separator   ColorValue `yaml:"separator,omitempty" json:"separator,omitempty"`
	Accent      ColorValue `yaml:"accent,omitempty" json:"accent,omitempty"`
	Disabled    ColorValue `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	InputFG     ColorValue `yaml:"input_fg,omitempty" json:"input_fg,omitempty"`
	StatusError ColorValue `yaml:"status_error,omitempty" json:"status_error,omitempty"`
	FooterFG    ColorValue `yaml:"footer_fg,omitempty" json:"footer_fg,omitempty"`
	HelpKey     ColorValue `yaml:"help_key,omitempty" json:"help_key,omitempty"`
	HelpValue   ColorValue `yaml:"help_value,omitempty" json:"help_value,omitempty"`
}

// Colors maps the theme onto the formatter palette.
func (t ThemeConfig) Colors() formatter.Colors {
	return formatter.Colors{
		Heading:   t.Heading.Color(),
		HeaderBG:  t.HeaderBG.Color(),
		Key:       t.Key.Color(),
		Value:     t.Value.Color(),
		Separator: t.Separator.Color(),
		Accent:    t.Accent.Color(),
		Disabled:  t.Disabled.Color(),
	}
}

// ActiveTheme returns the selected theme, or the zero theme when the
// selection names no known theme.
func (c Config) ActiveTheme() ThemeConfig {
	return c.Theme.Themes[c.Theme.Default]
}

// ProbeEnabled reports whether thumbnails are probed.
func (d DisplayConfig) ProbeEnabled() bool {
	return d.ProbeImages == nil || *d.ProbeImages
}
