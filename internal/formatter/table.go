package formatter

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/render"
)

// Compact table column names.
const (
	ColumnName    = "Name"
	ColumnPrice   = "Price"
	ColumnColor   = "Color"
	ColumnRims    = "Rims"
	ColumnLimited = "Limited"
)

// Columns is the compact table layout.
var Columns = []string{ColumnName, ColumnPrice, ColumnColor, ColumnRims, ColumnLimited}

// ColumnHint provides display hints for one column.
type ColumnHint struct {
	// MaxWidth caps the column width (in cells). 0 = no cap.
	MaxWidth int
	// Priority controls column importance when shrinking.
	// Higher values resist shrinking; lower values shrink first.
	Priority int
	// Align is "right" or "left" (default).
	Align string
}

// DefaultHints keeps names readable and right-aligns prices.
func DefaultHints() map[string]ColumnHint {
	return map[string]ColumnHint{
		ColumnName:    {Priority: 10},
		ColumnPrice:   {Priority: 8, Align: "right"},
		ColumnColor:   {Priority: 2, MaxWidth: 7},
		ColumnRims:    {Priority: 1, MaxWidth: 24},
		ColumnLimited: {Priority: 5},
	}
}

// TableRows builds one compact row per record.
func TableRows(records []*catalog.Record, r *render.Renderer) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, TableRow(rec, r))
	}
	return rows
}

// TableRow formats the compact columns of rec the way cards format the
// same fields. Missing fields are empty cells.
func TableRow(rec *catalog.Record, r *render.Renderer) []string {
	s := r.Schema
	row := []string{rec.Name, "", "", "", render.LimitedLine(rec.Limited()).Text}
	if v, ok := rec.Get(s.Price); ok {
		row[1] = render.FormatPrice(r.Currency, catalog.Number(v))
	}
	if v, ok := rec.Get(s.Color); ok {
		if hex, ok := render.ColorHex(v); ok {
			row[2] = hex
		}
	}
	if v, ok := rec.Get(s.Rims); ok {
		if str, ok := v.(string); ok {
			row[3] = render.RimsCode(str)
		}
	}
	return row
}

// TableOptions configures compact table rendering.
type TableOptions struct {
	// NoColor disables color output
	NoColor bool
	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int
	// StartIndex is the 0-based position of the first row in the whole
	// sequence, so row numbers continue across pages.
	StartIndex int
	// Hints are keyed by column name. Nil uses DefaultHints.
	Hints map[string]ColumnHint
}

// FormatTable renders rows under columns with a numbered first column.
func FormatTable(columns []string, rows [][]string, opts TableOptions) string {
	if len(columns) == 0 || len(rows) == 0 {
		return ""
	}
	hints := opts.Hints
	if hints == nil {
		hints = DefaultHints()
	}
	colHints := make([]ColumnHint, len(columns))
	for i, col := range columns {
		colHints[i] = hints[col]
	}

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = getTerminalWidth()
	}

	const sepWidth = 2
	numWidth := len(fmt.Sprintf("%d", opts.StartIndex+len(rows))) + 1
	widths := columnWidths(columns, rows, totalWidth-numWidth-sepWidth, colHints)

	var b strings.Builder
	b.WriteString(tableHeader(columns, widths, numWidth, opts.NoColor))
	b.WriteByte('\n')

	total := numWidth
	for _, w := range widths {
		total += sepWidth + w
	}
	b.WriteString(style(separatorStyle, strings.Repeat("─", total), opts.NoColor))
	b.WriteByte('\n')

	for i, row := range rows {
		b.WriteString(tableRow(opts.StartIndex+i+1, row, widths, numWidth, colHints, opts.NoColor))
		b.WriteByte('\n')
	}
	return b.String()
}

func columnWidths(columns []string, rows [][]string, available int, hints []ColumnHint) []int {
	const sepWidth = 2
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(val))
			}
		}
	}
	for i := range widths {
		if hints[i].MaxWidth > 0 && widths[i] > hints[i].MaxWidth {
			widths[i] = hints[i].MaxWidth
		}
	}
	usable := available - (len(columns)-1)*sepWidth
	if usable > 0 {
		widths = shrinkByPriority(widths, usable, hints)
	}
	return widths
}

// shrinkByPriority reduces column widths to fit within usableWidth by shrinking
// lowest-priority columns first.
func shrinkByPriority(widths []int, usableWidth int, hints []ColumnHint) []int {
	const minColWidth = 3
	excess := -usableWidth
	for _, w := range widths {
		excess += w
	}
	if excess <= 0 {
		return widths
	}

	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return hints[order[a]].Priority < hints[order[b]].Priority
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrink := min(widths[idx]-minColWidth, excess)
		if shrink <= 0 {
			continue
		}
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func tableHeader(columns []string, widths []int, numWidth int, noColor bool) string {
	parts := make([]string, 0, len(columns)+1)
	parts = append(parts, style(headerStyle, padRight("#", numWidth), noColor))
	for i, col := range columns {
		parts = append(parts, style(headerStyle, padRight(truncate(col, widths[i]), widths[i]), noColor))
	}
	return strings.Join(parts, "  ")
}

func tableRow(num int, values []string, widths []int, numWidth int, hints []ColumnHint, noColor bool) string {
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, style(keyStyle, padRight(fmt.Sprintf("%d", num), numWidth), noColor))
	for i, val := range values {
		if i >= len(widths) {
			break
		}
		cell := truncate(val, widths[i])
		if hints[i].Align == "right" {
			cell = padLeft(cell, widths[i])
		} else {
			cell = padRight(cell, widths[i])
		}
		parts = append(parts, style(valueStyle, cell, noColor))
	}
	return strings.Join(parts, "  ")
}
