package browse

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/showroom/internal/catalog"
)

// Predicate is an extra record test combined with the built-in filters.
type Predicate func(*catalog.Record) bool

// Engine derives the visible sequence from the full dataset and a State.
// It is not safe for concurrent use: the collator keeps scratch buffers.
type Engine struct {
	collator *collate.Collator
	where    Predicate
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale sets the collation used for name sorting.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.collator = collate.New(tag)
	}
}

// WithWhere adds a predicate every record must also satisfy.
func WithWhere(p Predicate) Option {
	return func(e *Engine) {
		e.where = p
	}
}

// NewEngine creates an Engine using root collation.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{collator: collate.New(language.Und)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive filters records by s.Filter, s.Search and the engine predicate,
// then sorts by s.Sort. The input slice is never reordered. With SortNone
// the result keeps the input's relative order.
func (e *Engine) Derive(records []*catalog.Record, s State) []*catalog.Record {
	term := strings.ToLower(s.Search)
	out := make([]*catalog.Record, 0, len(records))
	for _, r := range records {
		if !matchFilter(r, s.Filter) {
			continue
		}
		if term != "" && !strings.Contains(r.SearchKey, term) {
			continue
		}
		if e.where != nil && !e.where(r) {
			continue
		}
		out = append(out, r)
	}

	switch s.Sort {
	case SortNameAsc:
		slices.SortStableFunc(out, e.compareName)
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b *catalog.Record) int { return e.compareName(b, a) })
	case SortPriceAsc:
		slices.SortStableFunc(out, comparePrice)
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b *catalog.Record) int { return comparePrice(b, a) })
	}
	return out
}

// CompareNames compares two names with the engine's collation.
func (e *Engine) CompareNames(a, b string) int {
	return e.collator.CompareString(a, b)
}

func (e *Engine) compareName(a, b *catalog.Record) int {
	return e.collator.CompareString(a.Name, b.Name)
}

func comparePrice(a, b *catalog.Record) int {
	return cmp.Compare(a.Price(), b.Price())
}

func matchFilter(r *catalog.Record, mode FilterMode) bool {
	switch mode {
	case FilterLimited:
		return r.Limited()
	case FilterNormal:
		return !r.Limited()
	default:
		return true
	}
}
