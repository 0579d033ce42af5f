package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// AppName names the XDG config directory.
const AppName = "showroom"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses and returns the embedded default configuration.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = errors.New("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return clone(embeddedConfig), embeddedConfigErr
}

func clone(c Config) Config {
	themes := make(map[string]ThemeConfig, len(c.Theme.Themes))
	for k, v := range c.Theme.Themes {
		themes[k] = v
	}
	c.Theme.Themes = themes
	return c
}

// BuildInfo feeds the app description template.
type BuildInfo struct {
	Version string
	Commit  string
}

// Load merges the user file at path (if any) over the embedded default
// and renders templated values. An empty path loads the default only.
func Load(path string, build BuildInfo) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		var user Config
		if err := yaml.Unmarshal(data, &user); err != nil {
			return cfg, fmt.Errorf("decode config file %s: %w", path, err)
		}
		cfg = Merge(cfg, user)
	}
	cfg.Schema = cfg.Schema.WithDefaults()
	cfg.App.Description = processTemplate(cfg.App.Description, map[string]any{
		"name":    cfg.App.Name,
		"version": build.Version,
		"commit":  build.Commit,
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge returns base with every non-empty value of override applied.
// Themes merge per color so a user theme may set only a few fields.
func Merge(base, override Config) Config {
	out := clone(base)
	setString(&out.App.Name, override.App.Name)
	setString(&out.App.Description, override.App.Description)

	setString(&out.Data.Source, override.Data.Source)
	if override.Data.Timeout > 0 {
		out.Data.Timeout = override.Data.Timeout
	}

	d, o := &out.Display, override.Display
	setString(&d.Currency, o.Currency)
	setString(&d.Placeholder, o.Placeholder)
	setString(&d.Noun, o.Noun)
	setString(&d.Locale, o.Locale)
	if o.ProbeImages != nil {
		d.ProbeImages = o.ProbeImages
	}
	if o.ProbeLimit > 0 {
		d.ProbeLimit = o.ProbeLimit
	}
	if o.ProbeTimeout > 0 {
		d.ProbeTimeout = o.ProbeTimeout
	}

	s, so := &out.Schema, override.Schema
	setString(&s.Name, so.Name)
	setString(&s.Price, so.Price)
	setString(&s.Color, so.Color)
	setString(&s.CarImage, so.CarImage)
	setString(&s.RimsImage, so.RimsImage)
	setString(&s.Rims, so.Rims)
	setString(&s.Limited, so.Limited)
	setString(&s.CarAsset, so.CarAsset)

	setString(&out.Theme.Default, override.Theme.Default)
	for name, th := range override.Theme.Themes {
		out.Theme.Themes[name] = mergeThemeConfig(out.Theme.Themes[name], th)
	}

	t, to := &out.Thumbnails, override.Thumbnails
	setString(&t.Endpoint, to.Endpoint)
	setString(&t.Size, to.Size)
	setString(&t.Format, to.Format)
	if to.BatchSize > 0 {
		t.BatchSize = to.BatchSize
	}
	if to.Delay > 0 {
		t.Delay = to.Delay
	}
	if to.MaxRetries > 0 {
		t.MaxRetries = to.MaxRetries
	}
	if to.Timeout > 0 {
		t.Timeout = to.Timeout
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeThemeConfig(base, override ThemeConfig) ThemeConfig {
	out := base
	apply := func(src ColorValue, dst *ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	apply(override.Heading, &out.Heading)
	apply(override.HeaderBG, &out.HeaderBG)
	apply(override.Key, &out.Key)
	apply(override.Value, &out.Value)
	apply(override.Separator, &out.Separator)
	apply(override.Accent, &out.Accent)
	apply(override.Disabled, &out.Disabled)
	apply(override.InputFG, &out.InputFG)
	apply(override.StatusError, &out.StatusError)
	apply(override.FooterFG, &out.FooterFG)
	apply(override.HelpKey, &out.HelpKey)
	apply(override.HelpValue, &out.HelpValue)
	return out
}

// processTemplate renders text as a Go template. Text that fails to parse
// or execute is returned unchanged.
func processTemplate(text string, data map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("config").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// Validate rejects settings the browser cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, ok := c.Theme.Themes[c.Theme.Default]; !ok {
		errs = append(errs, fmt.Errorf("theme.default: unknown theme %q (available: %s)", c.Theme.Default, strings.Join(c.ThemeNames(), ", ")))
	}
	if c.Display.ProbeLimit < 0 {
		errs = append(errs, errors.New("display.probe_limit: must not be negative"))
	}
	if c.Thumbnails.BatchSize <= 0 {
		errs = append(errs, errors.New("thumbnails.batch_size: must be positive"))
	}
	if c.Thumbnails.MaxRetries < 0 {
		errs = append(errs, errors.New("thumbnails.max_retries: must not be negative"))
	}
	return errors.Join(errs...)
}

// ThemeNames returns the configured theme names, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Theme.Themes))
	for name := range c.Theme.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePath returns explicit when set, else the XDG config file when it
// exists ($XDG_CONFIG_HOME/showroom/config.yaml, falling back to
// ~/.config/showroom/config.yaml), else "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, AppName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Marshal encodes c as yaml or json for the config command.
func (c Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		return marshalJSON(c)
	default:
		return nil, fmt.Errorf("unsupported config format %q: valid values are yaml, json", format)
	}
}
