package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/showroom/internal/render"
)

// SwatchGlyph is painted in the swatch color next to a color code.
const SwatchGlyph = "██"

// TextOptions controls card painting.
type TextOptions struct {
	// NoColor disables styling. The swatch glyph is kept so the layout does
	// not depend on color support.
	NoColor bool
	// Width truncates each line to this many cells. 0 means no limit.
	Width int
	// Indent prefixes field lines inside a card.
	Indent string
}

// FormatText paints a rendered page: cards separated by blank lines, then
// the controls and the status line.
func FormatText(n *render.Node, opts TextOptions) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	var b strings.Builder
	paint(&b, n, opts)
	return b.String()
}

func paint(b *strings.Builder, n *render.Node, opts TextOptions) {
	if n == nil {
		return
	}
	switch n.Kind {
	case render.KindCard:
		for _, c := range n.Children {
			paint(b, c, opts)
		}
		b.WriteByte('\n')
	case render.KindHeading:
		writeLine(b, style(headingStyle, n.Text, opts.NoColor), opts.Width)
	case render.KindLine:
		writeLine(b, opts.Indent+FieldLine(n, opts.NoColor), opts.Width)
	case render.KindImage:
		writeLine(b, opts.Indent+ImageLine(n, opts.NoColor), opts.Width)
	case render.KindControls:
		writeLine(b, ControlsLine(n, opts.NoColor), opts.Width)
	case render.KindStatus:
		writeLine(b, style(separatorStyle, n.Text, opts.NoColor), opts.Width)
	default:
		for _, c := range n.Children {
			paint(b, c, opts)
		}
	}
}

func writeLine(b *strings.Builder, s string, width int) {
	if width > 0 && lipgloss.Width(s) > width {
		s = ansi.Truncate(s, width, "...")
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

func style(st lipgloss.Style, s string, noColor bool) string {
	if noColor {
		return s
	}
	return st.Render(s)
}

// FieldLine paints "label: value", followed by a swatch when the line has one.
func FieldLine(n *render.Node, noColor bool) string {
	line := style(keyStyle, n.Label+":", noColor) + " " + style(valueStyle, n.Text, noColor)
	for _, c := range n.Children {
		if c.Kind != render.KindSwatch {
			continue
		}
		glyph := SwatchGlyph
		if !noColor {
			glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(glyph)
		}
		line += " " + glyph
	}
	return line
}

// ImageLine paints a thumbnail reference. Terminals cannot show the image,
// so the source is printed, as a hyperlink when styling is on, and
// placeholders are flagged.
func ImageLine(n *render.Node, noColor bool) string {
	src := n.Src
	if !noColor && src != "" {
		src = ansi.SetHyperlink(n.Src) + valueStyle.Render(n.Src) + ansi.ResetHyperlink()
	}
	if n.Fallback {
		src += " " + style(disabledStyle, "(placeholder)", noColor)
	}
	return style(keyStyle, n.Label+":", noColor) + " " + src
}

// ControlsLine paints the pagination bar on one line.
func ControlsLine(n *render.Node, noColor bool) string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		label := c.ControlLabel()
		switch {
		case noColor:
		case c.Active:
			label = activeStyle.Render(label)
		case c.Disabled || c.Kind == render.KindEllipsis:
			label = disabledStyle.Render(label)
		default:
			label = valueStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}
