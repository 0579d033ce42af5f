package cmd

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/showroom/internal/config"
	"github.com/oakwood-commons/showroom/internal/ui"
)

type themeSelectionError struct {
	Selected     string
	Available    []string
	DefaultTheme string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q\navailable themes: %v\ndefault theme: %s", e.Selected, e.Available, e.DefaultTheme)
}

func defaultThemeName(c config.Config) string {
	if name := strings.TrimSpace(c.Theme.Default); name != "" {
		return name
	}
	return "dark"
}

// applyTheme selects cliTheme when the flag was set, else the config
// default, and installs it for the formatter and the browser.
func applyTheme(c config.Config, cliTheme string, themeFlagSet bool) error {
	selected := strings.TrimSpace(cliTheme)
	if !themeFlagSet || selected == "" {
		selected = defaultThemeName(c)
	}
	th, ok := c.Theme.Themes[selected]
	if !ok {
		return themeSelectionError{Selected: selected, Available: c.ThemeNames(), DefaultTheme: defaultThemeName(c)}
	}
	ui.SetTheme(ui.ThemeFromConfig(th))
	return nil
}
