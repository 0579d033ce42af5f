// Package browse holds the view state of the catalog browser and the engine
// that derives the filtered, sorted record sequence from it.
package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/showroom/internal/pager"
)

// FilterMode is the categorical "limited" toggle.
type FilterMode string

const (
	FilterAll     FilterMode = "all"
	FilterLimited FilterMode = "limited"
	FilterNormal  FilterMode = "normal"
)

// SortMode selects the ordering of the derived sequence.
type SortMode string

const (
	SortNone      SortMode = "none"
	SortNameAsc   SortMode = "name-asc"
	SortNameDesc  SortMode = "name-desc"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

var (
	// ErrUnknownFilter is returned by ParseFilterMode.
	ErrUnknownFilter = errors.New("unknown filter mode")
	// ErrUnknownSort is returned by ParseSortMode.
	ErrUnknownSort = errors.New("unknown sort mode")
)

var filterModes = []FilterMode{FilterAll, FilterLimited, FilterNormal}

var sortModes = []SortMode{SortNone, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// ParseFilterMode accepts all|limited|normal plus the long forms
// only-limited and only-normal. Empty means all.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "limited", "only-limited", "unobtainable":
		return FilterLimited, nil
	case "normal", "only-normal", "available":
		return FilterNormal, nil
	default:
		return FilterAll, fmt.Errorf("%w %q (expected all, limited or normal)", ErrUnknownFilter, s)
	}
}

// Next cycles all -> limited -> normal -> all.
func (f FilterMode) Next() FilterMode {
	for i, m := range filterModes {
		if m == f {
			return filterModes[(i+1)%len(filterModes)]
		}
	}
	return FilterAll
}

// Label is the short human form shown in headers.
func (f FilterMode) Label() string {
	switch f {
	case FilterLimited:
		return "limited only"
	case FilterNormal:
		return "normal only"
	default:
		return "all"
	}
}

// ParseSortMode accepts the SortMode values; empty means none.
func ParseSortMode(s string) (SortMode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return SortNone, nil
	}
	for _, m := range sortModes {
		if string(m) == v {
			return m, nil
		}
	}
	return SortNone, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownSort, s, strings.Join(SortModeNames(), ", "))
}

// SortModeNames lists the accepted sort values in cycle order.
func SortModeNames() []string {
	out := make([]string, len(sortModes))
	for i, m := range sortModes {
		out[i] = string(m)
	}
	return out
}

// Next cycles through the sort modes in declaration order.
func (s SortMode) Next() SortMode {
	for i, m := range sortModes {
		if m == s {
			return sortModes[(i+1)%len(sortModes)]
		}
	}
	return SortNone
}

// Label is the short human form shown in headers.
func (s SortMode) Label() string {
	switch s {
	case SortNameAsc:
		return "name A-Z"
	case SortNameDesc:
		return "name Z-A"
	case SortPriceAsc:
		return "price low-high"
	case SortPriceDesc:
		return "price high-low"
	default:
		return "none"
	}
}

// State is the whole view state. It is a value: every input produces a new
// State through Reduce and the pipeline renders from it.
type State struct {
	Search string
	Filter FilterMode
	Sort   SortMode
	Page   int
}

// NewState returns the initial view state.
func NewState() State {
	return State{Filter: FilterAll, Sort: SortNone, Page: 1}
}

// ActionKind identifies a state transition.
type ActionKind int

const (
	ActionSetSearch ActionKind = iota
	ActionSetFilter
	ActionSetSort
	ActionPrevPage
	ActionNextPage
	ActionGotoPage
	ActionFirstPage
	ActionLastPage
)

// Action is one user input event.
type Action struct {
	Kind   ActionKind
	Search string
	Filter FilterMode
	Sort   SortMode
	Page   int
}

func SetSearch(term string) Action     { return Action{Kind: ActionSetSearch, Search: term} }
func SetFilter(mode FilterMode) Action { return Action{Kind: ActionSetFilter, Filter: mode} }
func SetSort(mode SortMode) Action     { return Action{Kind: ActionSetSort, Sort: mode} }
func PrevPage() Action                 { return Action{Kind: ActionPrevPage} }
func NextPage() Action                 { return Action{Kind: ActionNextPage} }
func GotoPage(page int) Action         { return Action{Kind: ActionGotoPage, Page: page} }
func FirstPage() Action                { return Action{Kind: ActionFirstPage} }
func LastPage() Action                 { return Action{Kind: ActionLastPage} }

// Reduce applies a to s. total is the length of the derived sequence the
// current page refers to; page moves that would leave [1, totalPages] leave
// the state unchanged. Search, filter and sort changes reset the page to 1.
func (s State) Reduce(a Action, total int) State {
	pages := pager.TotalPages(total, pager.DefaultSize)
	if pages < 1 {
		pages = 1
	}
	switch a.Kind {
	case ActionSetSearch:
		s.Search = a.Search
		s.Page = 1
	case ActionSetFilter:
		s.Filter = a.Filter
		s.Page = 1
	case ActionSetSort:
		s.Sort = a.Sort
		s.Page = 1
	case ActionPrevPage:
		if s.Page > 1 {
			s.Page--
		}
	case ActionNextPage:
		if s.Page < pages {
			s.Page++
		}
	case ActionGotoPage:
		if a.Page >= 1 && a.Page <= pages {
			s.Page = a.Page
		}
	case ActionFirstPage:
		s.Page = 1
	case ActionLastPage:
		s.Page = pages
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}
