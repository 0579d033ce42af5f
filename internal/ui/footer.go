package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/showroom/internal/formatter"
	"github.com/oakwood-commons/showroom/internal/render"
)

// FooterModel shows the pagination controls, the status line and the
// key hints.
type FooterModel struct {
	Controls *render.Node
	Status   string
	NoColor  bool
	Width    int
}

// NewFooterModel creates an empty footer.
func NewFooterModel() FooterModel {
	return FooterModel{Width: 80}
}

var footerHints = [][2]string{
	{"/", "search"},
	{"f", "filter"},
	{"s", "sort"},
	{"t", "table"},
	{"?", "help"},
	{"q", "quit"},
}

// View renders three lines: controls, status, hints.
func (m FooterModel) View() string {
	th := CurrentTheme()
	keyStyle := lipgloss.NewStyle().Bold(true)
	hintStyle := lipgloss.NewStyle()
	statusStyle := lipgloss.NewStyle()
	if !m.NoColor {
		keyStyle = keyStyle.Foreground(th.HelpKey)
		hintStyle = hintStyle.Foreground(th.FooterFG)
		statusStyle = statusStyle.Foreground(th.Separator)
	}

	var lines []string
	if m.Controls != nil {
		lines = append(lines, formatter.ControlsLine(m.Controls, m.NoColor))
	}
	lines = append(lines, statusStyle.Render(m.Status))

	hints := make([]string, 0, len(footerHints))
	for _, h := range footerHints {
		hints = append(hints, keyStyle.Render(h[0])+" "+hintStyle.Render(h[1]))
	}
	lines = append(lines, strings.Join(hints, "  "))

	for i, l := range lines {
		if m.Width > 0 && lipgloss.Width(l) > m.Width {
			lines[i] = ansi.Truncate(l, m.Width, "...")
		}
	}
	return strings.Join(lines, "\n")
}
