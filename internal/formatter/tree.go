package formatter

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/showroom/internal/render"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides field values (structure only).
	NoValues bool
	// MaxStringLen is max cells before truncating values.
	// 0 or negative = no truncation.
	MaxStringLen int
}

// FormatTree renders a page as an ASCII tree: one branch per card with
// its fields as leaves, then the controls and the status line.
func FormatTree(page *render.Node, opts TreeOptions) string {
	tree := treeprint.New()
	if page != nil && page.Page > 0 {
		tree.SetValue(fmt.Sprintf("page %d", page.Page))
	}
	buildTree(tree, page, opts)
	return tree.String()
}

func buildTree(branch treeprint.Tree, n *render.Node, opts TreeOptions) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		switch c.Kind {
		case render.KindCard:
			card := branch.AddBranch(c.Label)
			for _, f := range c.Children {
				if f.Kind == render.KindHeading {
					continue
				}
				addLeaf(card, f, opts)
			}
		case render.KindControls:
			branch.AddMetaNode("controls", ControlsLine(c, true))
		case render.KindStatus:
			branch.AddMetaNode("status", c.Text)
		default:
			buildTree(branch, c, opts)
		}
	}
}

func addLeaf(branch treeprint.Tree, n *render.Node, opts TreeOptions) {
	if opts.NoValues {
		branch.AddNode(n.Label)
		return
	}
	value := n.Text
	if n.Kind == render.KindImage {
		value = n.Src
		if n.Fallback {
			value += " (placeholder)"
		}
	}
	branch.AddNode(formatKeyValue(n.Label, truncate(value, opts.MaxStringLen)))
}

// formatKeyValue formats a key-value pair for display.
// If key is empty, returns just the value.
func formatKeyValue(key, value string) string {
	if key == "" {
		return value
	}
	return key + ": " + value
}
