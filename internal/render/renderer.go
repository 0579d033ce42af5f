package render

import (
	"strconv"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/pager"
)

const (
	// DefaultCurrency prefixes every price.
	DefaultCurrency = "Rp."
	// DefaultPlaceholder replaces thumbnails that failed to load.
	DefaultPlaceholder = "https://via.placeholder.com/150?text=No+Image"
	// DefaultNoun names the records in the status line.
	DefaultNoun = "cars"
	// LimitedLabel labels the computed limited-status line.
	LimitedLabel = "Limited"
)

// Renderer builds display nodes for records of one schema.
type Renderer struct {
	Schema      catalog.Schema
	Currency    string
	Placeholder string
	Noun        string
	Fallbacks   *Fallbacks

	table map[string]Formatter
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCurrency sets the price label.
func WithCurrency(c string) Option {
	return func(r *Renderer) { r.Currency = c }
}

// WithPlaceholder sets the fallback image source.
func WithPlaceholder(src string) Option {
	return func(r *Renderer) { r.Placeholder = src }
}

// WithNoun sets the noun of the status line.
func WithNoun(noun string) Option {
	return func(r *Renderer) { r.Noun = noun }
}

// WithFormatter overrides or adds the formatter of a field.
func WithFormatter(field string, f Formatter) Option {
	return func(r *Renderer) { r.table[field] = f }
}

// New returns a renderer for schema with the default currency, placeholder
// and noun.
func New(schema catalog.Schema, opts ...Option) *Renderer {
	schema = schema.WithDefaults()
	r := &Renderer{
		Schema:      schema,
		Currency:    DefaultCurrency,
		Placeholder: DefaultPlaceholder,
		Noun:        DefaultNoun,
		table:       formatters(schema),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Fallbacks = NewFallbacks(r.Placeholder)
	return r
}

func (r *Renderer) currency() string {
	return r.Currency
}

func (r *Renderer) formatter(key string) Formatter {
	if f, ok := r.table[key]; ok {
		return f
	}
	return GenericLine
}

// Card renders one record: the name heading, one node per field in source
// order (the name and marker fields excluded) and the limited line.
func (r *Renderer) Card(rec *catalog.Record) *Node {
	card := &Node{Kind: KindCard, Label: rec.Name}
	card.Add(&Node{Kind: KindHeading, Text: rec.Name})
	for f := range rec.Entries() {
		if f.Key == r.Schema.Name || f.Key == r.Schema.Limited {
			continue
		}
		if n := r.formatter(f.Key)(r, f); n != nil {
			card.Add(n)
		}
	}
	card.Add(LimitedLine(rec.Limited()))
	return card
}

// LimitedLine is the computed "Limited: Limited|No" line.
func LimitedLine(limited bool) *Node {
	text := "No"
	if limited {
		text = "Limited"
	}
	return &Node{Kind: KindLine, Label: LimitedLabel, Text: text}
}

// Page renders the visible records of p followed by the pagination
// controls and the status line. records is the whole derived sequence.
func (r *Renderer) Page(records []*catalog.Record, p pager.Page) *Node {
	page := &Node{Kind: KindPage, Page: p.Number}
	for _, rec := range pager.Slice(records, p) {
		page.Add(r.Card(rec))
	}
	page.Add(Controls(p), r.Status(p))
	return page
}

// Status renders the status line of p.
func (r *Renderer) Status(p pager.Page) *Node {
	return &Node{Kind: KindStatus, Text: p.Status(r.Noun)}
}

// Controls renders Prev, the optional first-page jump and leading
// ellipsis, the page-number window, the optional trailing ellipsis and
// last-page jump, then Next. Disabled buttons point at the current page.
func Controls(p pager.Page) *Node {
	c := pager.ForPage(p)
	n := &Node{Kind: KindControls, Page: c.Current}

	prev := &Node{Kind: KindButton, Label: "Prev", Page: c.Current - 1, Disabled: c.PrevDisabled}
	if prev.Disabled {
		prev.Page = c.Current
	}
	n.Add(prev)

	if c.First {
		n.Add(pageButton(1, c.Current))
		if c.LeadEllipsis {
			n.Add(&Node{Kind: KindEllipsis})
		}
	}
	for _, num := range c.Pages {
		n.Add(pageButton(num, c.Current))
	}
	if c.Last {
		if c.TrailEllipsis {
			n.Add(&Node{Kind: KindEllipsis})
		}
		n.Add(pageButton(c.TotalPages, c.Current))
	}

	next := &Node{Kind: KindButton, Label: "Next", Page: c.Current + 1, Disabled: c.NextDisabled}
	if next.Disabled {
		next.Page = c.Current
	}
	return n.Add(next)
}

func pageButton(num, current int) *Node {
	return &Node{Kind: KindButton, Label: strconv.Itoa(num), Page: num, Active: num == current}
}

// PageButtons returns the numbered buttons of a controls node, jumps
// included, in display order.
func PageButtons(controls *Node) []*Node {
	if controls == nil {
		return nil
	}
	var out []*Node
	for _, c := range controls.Children {
		if c.Kind == KindButton && c.Label != "Prev" && c.Label != "Next" {
			out = append(out, c)
		}
	}
	return out
}

// Sources returns the distinct image sources of records in display order.
func (r *Renderer) Sources(records []*catalog.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		for _, field := range []string{r.Schema.CarImage, r.Schema.RimsImage} {
			v, _ := rec.Get(field)
			src, ok := v.(string)
			if !ok || src == "" {
				continue
			}
			if _, dup := seen[src]; dup {
				continue
			}
			seen[src] = struct{}{}
			out = append(out, src)
		}
	}
	return out
}
