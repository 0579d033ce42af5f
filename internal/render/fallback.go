package render

import "sync"

// Fallbacks remembers image sources that failed to load. A source is
// swapped for the placeholder once and stays swapped; the placeholder
// itself is never marked, so a broken placeholder cannot loop.
type Fallbacks struct {
	mu          sync.Mutex
	placeholder string
	failed      map[string]struct{}
}

// NewFallbacks returns an empty set for the given placeholder source.
func NewFallbacks(placeholder string) *Fallbacks {
	return &Fallbacks{
		placeholder: placeholder,
		failed:      make(map[string]struct{}),
	}
}

// MarkFailed records a load failure of src. It returns true only the first
// time a given source fails.
func (f *Fallbacks) MarkFailed(src string) bool {
	if f == nil || src == "" || src == f.placeholder {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.failed[src]; ok {
		return false
	}
	f.failed[src] = struct{}{}
	return true
}

// Failed reports whether src has been marked.
func (f *Fallbacks) Failed(src string) bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.failed[src]
	return ok
}

// Resolve returns the source to display for src.
func (f *Fallbacks) Resolve(src string) (string, bool) {
	if f.Failed(src) {
		return f.placeholder, true
	}
	return src, false
}

// Len returns the number of marked sources.
func (f *Fallbacks) Len() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.failed)
}
