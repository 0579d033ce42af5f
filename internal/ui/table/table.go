// Package table wraps the bubbles table for typed rows.
package table

import (
	"image/color"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type (
	Column = bubtable.Column
	Row    = bubtable.Row
)

// Model is a table of typed rows. V is the row value (a catalog record in
// the browser) and toRow turns it into cells.
type Model[V any] struct {
	table   bubtable.Model
	styles  bubtable.Styles
	rows    []V
	columns []Column
	toRow   func(V) Row
	focused bool
	noColor bool

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
}

// NewModel creates a focused table with the given columns. Cells are
// left aligned with one column of right padding.
func NewModel[V any](columns []Column, toRow func(V) Row) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
	)
	s := bubtable.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		PaddingRight(1)
	s.Cell = lipgloss.NewStyle().PaddingRight(1)
	s.Selected = s.Selected.Padding(0)
	t.SetStyles(s)

	return &Model[V]{table: t, styles: s, columns: columns, toRow: toRow, focused: true}
}

// SetRows replaces the rows and moves the cursor to the first one.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	cells := make([]Row, len(rows))
	for i, row := range rows {
		cells[i] = m.toRow(row)
	}
	m.table.SetRows(cells)
	m.table.SetCursor(0)
}

// Rows returns the current rows.
func (m *Model[V]) Rows() []V {
	return m.rows
}

// Columns returns the current columns.
func (m *Model[V]) Columns() []Column {
	return m.columns
}

// FitColumns sizes every column to its widest cell and shrinks the widest
// columns until the table fits width. Each column keeps at least its
// title width.
func (m *Model[V]) FitColumns(width int) {
	cols := make([]Column, len(m.columns))
	copy(cols, m.columns)
	for i := range cols {
		cols[i].Width = lipgloss.Width(cols[i].Title)
	}
	for _, row := range m.rows {
		for i, cell := range m.toRow(row) {
			if i < len(cols) {
				cols[i].Width = max(cols[i].Width, lipgloss.Width(cell))
			}
		}
	}

	// one cell of padding per column
	total := func() int {
		n := 0
		for _, c := range cols {
			n += c.Width + 1
		}
		return n
	}
	for width > 0 && total() > width {
		widest := -1
		for i, c := range cols {
			if c.Width > lipgloss.Width(c.Title) && (widest < 0 || c.Width > cols[widest].Width) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		cols[widest].Width--
	}
	m.columns = cols
	m.table.SetColumns(cols)
}

// Cursor returns the current cursor position.
func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

// SetCursor sets the cursor position.
func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the row under the cursor, or nil without rows.
func (m *Model[V]) SelectedRow() *V {
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[cursor]
}

// SetSize sets the table dimensions. The width is applied by FitColumns.
func (m *Model[V]) SetSize(_, height int) {
	m.table.SetHeight(height)
}

// Focus lets the table take cursor keys.
func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur stops the table from taking keys.
func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused reports whether the table takes keys.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor drops the colors; the selected row is shown reversed.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets the header colors and the selected row foreground. Nil
// colors are left unset.
func (m *Model[V]) SetColors(headerFG, headerBG, selectedFG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	s.Header = s.Header.UnsetForeground().UnsetBackground()
	s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(m.noColor)
	if !m.noColor {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.headerBG != nil {
			s.Header = s.Header.Background(m.headerBG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
	}
	m.table.SetStyles(s)
}

// Update forwards msg to the bubbles table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m *Model[V]) View() string {
	return m.table.View()
}
