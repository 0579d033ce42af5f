package ui

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/showroom/internal/config"
	"github.com/oakwood-commons/showroom/internal/formatter"
)

// Theme defines the colors of the browser.
type Theme struct {
	Heading     color.Color // card headings and the app title
	HeaderBG    color.Color // table header background
	Key         color.Color // field labels
	Value       color.Color // field values
	Separator   color.Color // rules and status text
	Accent      color.Color // active page button, selected table row
	Disabled    color.Color // disabled buttons and ellipses
	InputFG     color.Color // search input text
	StatusError color.Color // error messages
	FooterFG    color.Color // key hints
	HelpKey     color.Color // help key labels
	HelpValue   color.Color // help value text
}

var (
	themeMu      sync.RWMutex
	currentTheme Theme
	themeOnce    sync.Once
)

// ThemeFromConfig converts a configured theme. Unset colors stay nil and
// fall back to the defaults when styles are built.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	return Theme{
		Heading:     tc.Heading.Color(),
		HeaderBG:    tc.HeaderBG.Color(),
		Key:         tc.Key.Color(),
		Value:       tc.Value.Color(),
		Separator:   tc.Separator.Color(),
		Accent:      tc.Accent.Color(),
		Disabled:    tc.Disabled.Color(),
		InputFG:     tc.InputFG.Color(),
		StatusError: tc.StatusError.Color(),
		FooterFG:    tc.FooterFG.Color(),
		HelpKey:     tc.HelpKey.Color(),
		HelpValue:   tc.HelpValue.Color(),
	}
}

// DefaultTheme returns the default theme of the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return fallbackTheme()
	}
	return ThemeFromConfig(cfg.ActiveTheme()).withFallbacks()
}

func fallbackTheme() Theme {
	return Theme{
		Heading:     lipgloss.Color("81"),
		HeaderBG:    lipgloss.Color("236"),
		Key:         lipgloss.Color("81"),
		Value:       lipgloss.Color("246"),
		Separator:   lipgloss.Color("238"),
		Accent:      lipgloss.Color("205"),
		Disabled:    lipgloss.Color("240"),
		InputFG:     lipgloss.Color("252"),
		StatusError: lipgloss.Color("203"),
		FooterFG:    lipgloss.Color("244"),
		HelpKey:     lipgloss.Color("81"),
		HelpValue:   lipgloss.Color("245"),
	}
}

func (t Theme) withFallbacks() Theme {
	d := fallbackTheme()
	fill := func(c *color.Color, def color.Color) {
		if *c == nil {
			*c = def
		}
	}
	fill(&t.Heading, d.Heading)
	fill(&t.HeaderBG, d.HeaderBG)
	fill(&t.Key, d.Key)
	fill(&t.Value, d.Value)
	fill(&t.Separator, d.Separator)
	fill(&t.Accent, d.Accent)
	fill(&t.Disabled, d.Disabled)
	fill(&t.InputFG, d.InputFG)
	fill(&t.StatusError, d.StatusError)
	fill(&t.FooterFG, d.FooterFG)
	fill(&t.HelpKey, d.HelpKey)
	fill(&t.HelpValue, d.HelpValue)
	return t
}

// Colors is the subset of the theme the card painter uses.
func (t Theme) Colors() formatter.Colors {
	return formatter.Colors{
		Heading:   t.Heading,
		HeaderBG:  t.HeaderBG,
		Key:       t.Key,
		Value:     t.Value,
		Separator: t.Separator,
		Accent:    t.Accent,
		Disabled:  t.Disabled,
	}
}

// SetTheme makes t the current theme for the browser and the card painter.
func SetTheme(t Theme) {
	t = t.withFallbacks()
	themeMu.Lock()
	currentTheme = t
	themeMu.Unlock()
	themeOnce.Do(func() {})
	formatter.SetTheme(t.Colors())
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeOnce.Do(func() {
		themeMu.Lock()
		currentTheme = DefaultTheme()
		themeMu.Unlock()
	})
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}
