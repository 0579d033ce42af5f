// Package render turns a page of catalog records into a tree of display
// nodes. Front ends paint the tree; they never look at records directly.
package render

import (
	"strings"
)

// Kind identifies what a Node displays.
type Kind int

const (
	KindPage Kind = iota
	KindCard
	KindHeading
	KindLine
	KindSwatch
	KindImage
	KindControls
	KindButton
	KindEllipsis
	KindStatus
)

var kindNames = [...]string{
	KindPage:     "page",
	KindCard:     "card",
	KindHeading:  "heading",
	KindLine:     "line",
	KindSwatch:   "swatch",
	KindImage:    "image",
	KindControls: "controls",
	KindButton:   "button",
	KindEllipsis: "ellipsis",
	KindStatus:   "status",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is one element of the display tree. Which fields are meaningful
// depends on Kind:
//   - line: Label and Text, optionally a swatch child
//   - swatch: Color as #rrggbb
//   - image: Label, Src and Fallback when Src is the placeholder
//   - button: Label, Page, Disabled and Active
type Node struct {
	Kind     Kind
	Label    string
	Text     string
	Color    string
	Src      string
	Fallback bool
	Page     int
	Disabled bool
	Active   bool
	Children []*Node
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Find returns the first node of kind k in depth-first order, or nil.
func (n *Node) Find(k Kind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == k {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(k); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every node of kind k in depth-first order.
func (n *Node) FindAll(k Kind) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Kind == k {
			out = append(out, c)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// Plain renders the tree as unstyled text, one line per heading, line,
// image and status node, with the controls on a single line.
func (n *Node) Plain() string {
	var b strings.Builder
	n.plain(&b)
	return b.String()
}

func (n *Node) plain(b *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindHeading, KindStatus:
		b.WriteString(n.Text)
		b.WriteByte('\n')
	case KindLine:
		b.WriteString(n.Label)
		b.WriteString(": ")
		b.WriteString(n.Text)
		b.WriteByte('\n')
	case KindImage:
		b.WriteString(n.Label)
		b.WriteString(": ")
		b.WriteString(n.Src)
		b.WriteByte('\n')
	case KindControls:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, c.ControlLabel())
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	case KindCard:
		for _, c := range n.Children {
			c.plain(b)
		}
		b.WriteByte('\n')
	default:
		for _, c := range n.Children {
			c.plain(b)
		}
	}
}

// ControlLabel is the bracketed form of a controls child: [3] for the
// current page, (Prev) for a disabled button, ... for an ellipsis.
func (n *Node) ControlLabel() string {
	switch {
	case n.Kind == KindEllipsis:
		return "..."
	case n.Active:
		return "[" + n.Label + "]"
	case n.Disabled:
		return "(" + n.Label + ")"
	default:
		return n.Label
	}
}
