package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// HelpModel is the key help overlay.
type HelpModel struct {
	Visible bool
	NoColor bool
	Width   int
}

// NewHelpModel creates a hidden help overlay.
func NewHelpModel() HelpModel {
	return HelpModel{Width: 80}
}

// View renders the help box.
func (m HelpModel) View() string {
	th := CurrentTheme()
	keyStyle := lipgloss.NewStyle().Bold(true)
	valueStyle := lipgloss.NewStyle()
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if !m.NoColor {
		keyStyle = keyStyle.Foreground(th.HelpKey)
		valueStyle = valueStyle.Foreground(th.HelpValue)
		box = box.BorderForeground(th.Separator)
	}

	keyWidth := 0
	for _, r := range helpRows {
		keyWidth = max(keyWidth, lipgloss.Width(r[0]))
	}
	lines := []string{keyStyle.Render("Keys"), ""}
	for _, r := range helpRows {
		key := r[0] + strings.Repeat(" ", keyWidth-lipgloss.Width(r[0]))
		lines = append(lines, keyStyle.Render(key)+"  "+valueStyle.Render(r[1]))
	}
	lines = append(lines, "", valueStyle.Render("? or esc closes this help"))
	return box.Render(strings.Join(lines, "\n"))
}
