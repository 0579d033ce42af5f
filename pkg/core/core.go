// Package core exposes the showroom pipeline to Go programs: load a
// dataset, turn a Query into a view state, derive and paginate the
// records and write one page.
package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/cel"
	"github.com/oakwood-commons/showroom/internal/formatter"
	"github.com/oakwood-commons/showroom/internal/pager"
	"github.com/oakwood-commons/showroom/internal/render"
	"github.com/oakwood-commons/showroom/pkg/loader"
)

// Compiler turns a --where expression into a record predicate.
type Compiler interface {
	Compile(expr string) (browse.Predicate, error)
}

// Query is one request against a catalog. Empty strings select the
// defaults: no search, all records, source order, text output.
type Query struct {
	Search string
	Filter string
	Sort   string
	// Page is 1-based. Zero means the first page; pages past the end are
	// clamped to the last one.
	Page  int
	Where string
}

// Plan is a validated Query ready to run, in the interactive browser or
// once.
type Plan struct {
	State  browse.State
	Engine *browse.Engine
}

// Result is one derived and paginated view.
type Result struct {
	// Records is the whole derived sequence.
	Records []*catalog.Record
	Page    pager.Page
}

// Visible returns the records of the current page.
func (r Result) Visible() []*catalog.Record {
	return pager.Slice(r.Records, r.Page)
}

// Engine runs queries for one schema and locale.
type Engine struct {
	Compiler Compiler
	Renderer *render.Renderer
	Locale   language.Tag
	log      logr.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithCompiler sets a custom --where compiler.
func WithCompiler(c Compiler) Option {
	return func(e *Engine) { e.Compiler = c }
}

// WithRenderer sets the renderer used by Write.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Engine) { e.Renderer = r }
}

// WithLocale sets the collation locale of name sorting.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.Locale = tag }
}

// WithLogger sets the logger handed to compiled predicates.
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) { e.log = lgr }
}

// New creates an Engine with the default schema and the CEL compiler.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{Locale: language.Und, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	if e.Renderer == nil {
		e.Renderer = render.New(catalog.DefaultSchema())
	}
	if e.Compiler == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		e.Compiler = celCompiler{eval: eval, log: e.log}
	}
	return e, nil
}

type celCompiler struct {
	eval *cel.Evaluator
	log  logr.Logger
}

func (c celCompiler) Compile(expr string) (browse.Predicate, error) {
	f, err := c.eval.Compile(expr)
	if err != nil {
		return nil, err
	}
	return f.Predicate(c.log), nil
}

// LoadFile reads a dataset file with the default schema.
func LoadFile(path string) (*catalog.Dataset, error) {
	return loader.LoadFile(path)
}

// Load reads source ("-", a URL or a path) with the loader options.
func Load(ctx context.Context, source string, opts ...loader.Option) (*catalog.Dataset, error) {
	return loader.New(opts...).Load(ctx, source)
}

// Prepare validates q. Unknown filter and sort modes wrap
// browse.ErrUnknownFilter and browse.ErrUnknownSort; a bad expression
// wraps ErrInvalidWhere.
func (e *Engine) Prepare(q Query) (Plan, error) {
	filter, err := browse.ParseFilterMode(q.Filter)
	if err != nil {
		return Plan{}, err
	}
	sortBy, err := browse.ParseSortMode(q.Sort)
	if err != nil {
		return Plan{}, err
	}
	if q.Page < 0 {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidPage, q.Page)
	}
	page := max(q.Page, 1)

	opts := []browse.Option{browse.WithLocale(e.Locale)}
	if strings.TrimSpace(q.Where) != "" {
		pred, err := e.Compiler.Compile(q.Where)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %w", ErrInvalidWhere, err)
		}
		opts = append(opts, browse.WithWhere(pred))
	}
	return Plan{
		State:  browse.State{Search: q.Search, Filter: filter, Sort: sortBy, Page: page},
		Engine: browse.NewEngine(opts...),
	}, nil
}

// Run derives and paginates records for plan.
func (p Plan) Run(records []*catalog.Record) Result {
	derived := p.Engine.Derive(records, p.State)
	return Result{Records: derived, Page: pager.Paginate(len(derived), p.State.Page, pager.DefaultSize)}
}

// Query prepares q and runs it over records.
func (e *Engine) Query(records []*catalog.Record, q Query) (Result, error) {
	plan, err := e.Prepare(q)
	if err != nil {
		return Result{}, err
	}
	return plan.Run(records), nil
}

// Write renders res with the engine renderer.
func (e *Engine) Write(w io.Writer, res Result, opts formatter.Options) error {
	return formatter.Write(w, formatter.View{Records: res.Records, Page: res.Page, Renderer: e.Renderer}, opts)
}
