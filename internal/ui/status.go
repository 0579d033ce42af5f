package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/showroom/internal/browse"
)

// StatusModel is the header bar: title, search, filter and sort.
type StatusModel struct {
	AppName    string
	Search     string
	SearchView string // the text input while it is being edited
	Editing    bool
	Filter     browse.FilterMode
	Sort       browse.SortMode
	ErrMsg     string
	NoColor    bool
	Width      int
}

// NewStatusModel creates a header for appName.
func NewStatusModel(appName string) StatusModel {
	return StatusModel{AppName: appName, Filter: browse.FilterAll, Sort: browse.SortNone, Width: 80}
}

// View renders the header, one line plus an error line when set.
func (m StatusModel) View() string {
	th := CurrentTheme()
	title := lipgloss.NewStyle().Bold(true)
	label := lipgloss.NewStyle()
	value := lipgloss.NewStyle()
	errStyle := lipgloss.NewStyle()
	if !m.NoColor {
		title = title.Foreground(th.Heading)
		label = label.Foreground(th.Key)
		value = value.Foreground(th.InputFG)
		errStyle = errStyle.Foreground(th.StatusError)
	}

	search := value.Render(m.Search)
	if m.Editing {
		search = m.SearchView
	} else if m.Search == "" {
		search = value.Faint(true).Render("(none)")
	}

	parts := []string{
		title.Render(m.AppName),
		label.Render("Search:") + " " + search,
		label.Render("Filter:") + " " + value.Render(m.Filter.Label()),
		label.Render("Sort:") + " " + value.Render(m.Sort.Label()),
	}
	line := strings.Join(parts, "  ")
	if m.Width > 0 && lipgloss.Width(line) > m.Width {
		line = ansi.Truncate(line, m.Width, "...")
	}
	if m.ErrMsg == "" {
		return line
	}
	return line + "\n" + errStyle.Render(m.ErrMsg)
}
