// File: internal/search/overlay.go
package search

import (
	"sync"

	"university_portal_backend/internal/catalog"
)

// KeyEscape is the only key the overlay reacts to.
const KeyEscape = "Escape"

// OverlayState is a snapshot of the overlay and the result for its current query.
type OverlayState struct {
	Open   bool   `json:"open"`
	Query  string `json:"query"`
	Result Result `json:"result"`
}

// Overlay is the per-session search overlay. All transitions go through its methods.
type Overlay struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	open    bool
	query   string
}

// NewOverlay returns a closed overlay with an empty query.
func NewOverlay(cat *catalog.Catalog) *Overlay {
	return &Overlay{catalog: cat}
}

// State returns the current snapshot.
func (o *Overlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

// Open shows the overlay, keeping any query already typed.
func (o *Overlay) Open() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = true
	return o.snapshot()
}

// SetQuery replaces the query, as on every keystroke. Typing opens the overlay.
func (o *Overlay) SetQuery(query string) OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = true
	o.query = query
	return o.snapshot()
}

// PickSuggestion fills the query with a suggested term.
func (o *Overlay) PickSuggestion(term string) OverlayState {
	return o.SetQuery(term)
}

// Clear empties the query and leaves the overlay open.
func (o *Overlay) Clear() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = ""
	return o.snapshot()
}

// Close clears the query and hides the overlay.
func (o *Overlay) Close() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset()
	return o.snapshot()
}

// KeyPress handles a key event. Escape closes the overlay while it is open; anything else is ignored.
func (o *Overlay) KeyPress(key string) OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if key == KeyEscape && o.open {
		o.reset()
	}
	return o.snapshot()
}

// Select picks the result with the given kind and title from the current query's matches.
// On success the query is cleared and the overlay closed. When nothing matches, the
// state is left untouched and ok is false.
func (o *Overlay) Select(kind catalog.Kind, title string) (selected catalog.Entity, state OverlayState, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !IsBlank(o.query) {
		for _, e := range Filter(o.catalog.Entities(), o.query) {
			if e.Kind == kind && e.Title == title {
				selected, ok = e, true
				break
			}
		}
	}
	if ok {
		o.reset()
	}
	return selected, o.snapshot(), ok
}

func (o *Overlay) reset() {
	o.open = false
	o.query = ""
}

func (o *Overlay) snapshot() OverlayState {
	return OverlayState{Open: o.open, Query: o.query, Result: Run(o.catalog, o.query)}
}
