// Package formatter writes a rendered catalog page for the non-interactive
// mode: styled cards, a compact table, a tree, or a json/yaml/toml document.
package formatter

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var (
	defaultHeadingColor  = lipgloss.Color("12")
	defaultHeaderBG      = lipgloss.Color("236")
	defaultKeyColor      = lipgloss.Color("14")
	defaultValueColor    = lipgloss.Color("248")
	defaultSeparator     = lipgloss.Color("240")
	defaultAccentColor   = lipgloss.Color("205")
	defaultDisabledColor = lipgloss.Color("238")

	headingStyle   lipgloss.Style
	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	activeStyle    lipgloss.Style
	disabledStyle  lipgloss.Style
)

// Colors controls the rendered colors. Nil fields fall back to the
// defaults (ANSI 256 codes).
type Colors struct {
	Heading   color.Color
	HeaderBG  color.Color
	Key       color.Color
	Value     color.Color
	Separator color.Color
	Accent    color.Color
	Disabled  color.Color
}

func pick(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

func applyTheme(c Colors) {
	heading := pick(c.Heading, defaultHeadingColor)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(heading)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(heading).Background(pick(c.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(c.Key, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(pick(c.Value, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(c.Separator, defaultSeparator))
	activeStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(pick(c.Accent, defaultAccentColor))
	disabledStyle = lipgloss.NewStyle().Foreground(pick(c.Disabled, defaultDisabledColor))
}

// SetTheme overrides the package styles. Zero-valued fields fall back to
// the defaults.
func SetTheme(c Colors) {
	applyTheme(c)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyTheme(Colors{})
}

// Stringify returns a compact single-line form of a field value: strings
// as-is with control characters flattened, everything else as JSON.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	default:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}

// escapeScalarString flattens line breaks so a value stays on one line.
func escapeScalarString(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}

// truncate cuts s to maxLen cells, ending with "..." when there is room.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// getTerminalWidth returns the terminal width, or a default if detection fails
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120 // sensible default
	}
	return width
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// padLeft right-aligns s within width cells.
func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncate(s, width)
	}
	return strings.Repeat(" ", width-w) + s
}
