// Package pager slices a derived sequence into fixed-size pages and lays
// out the page-button window shown under it.
package pager

import (
	"fmt"
)

const (
	// DefaultSize is the fixed number of records per page.
	DefaultSize = 50
	// MaxButtons is the widest page-number window.
	MaxButtons = 7
)

// Page describes the visible slice of a sequence.
type Page struct {
	Number     int // 1-based, clamped into [1, TotalPages]
	Size       int
	Total      int // length of the whole sequence
	TotalPages int
	Start      int // inclusive index into the sequence
	End        int // exclusive index into the sequence
}

// TotalPages returns ceil(length/size), 0 for an empty sequence.
func TotalPages(length, size int) int {
	if length <= 0 || size <= 0 {
		return 0
	}
	return (length + size - 1) / size
}

// Paginate computes the slice bounds of page for a sequence of length.
// Out-of-range pages are clamped so the bounds are always valid.
func Paginate(length, page, size int) Page {
	if size <= 0 {
		size = DefaultSize
	}
	if length < 0 {
		length = 0
	}
	pages := TotalPages(length, size)
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}

	return Page{
		Number:     page,
		Size:       size,
		Total:      length,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}
}

// Slice returns the items of seq covered by p.
func Slice[T any](seq []T, p Page) []T {
	start, end := p.Start, p.End
	if start > len(seq) {
		start = len(seq)
	}
	if end > len(seq) {
		end = len(seq)
	}
	return seq[start:end]
}

// Len returns the number of visible items.
func (p Page) Len() int {
	return p.End - p.Start
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// Status is the line under the page: the 1-based inclusive range and the
// total when there are several pages, only the total otherwise.
func (p Page) Status(noun string) string {
	if noun == "" {
		noun = "items"
	}
	if p.TotalPages <= 1 {
		return fmt.Sprintf("Showing %d %s", p.Total, noun)
	}
	return fmt.Sprintf("Showing %d-%d of %d %s", p.Start+1, p.End, p.Total, noun)
}
