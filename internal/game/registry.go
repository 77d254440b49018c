package game

import "github.com/tomz197/lasereye/internal/pool"

type entry struct {
	h       pool.Handle
	removed bool
}

// Registry tracks the active handles of one target kind in insertion order.
// Removal leaves a tombstone so iteration can continue safely; Compact drops them.
type Registry struct {
	entries []entry
	live    int
}

func NewRegistry(capacity int) *Registry {
	return &Registry{entries: make([]entry, 0, capacity)}
}

// Add appends a handle.
func (r *Registry) Add(h pool.Handle) {
	r.entries = append(r.entries, entry{h: h})
	r.live++
}

// Remove tombstones h. Returns false if h is not registered.
func (r *Registry) Remove(h pool.Handle) bool {
	for i := range r.entries {
		e := &r.entries[i]
		if !e.removed && e.h == h {
			e.removed = true
			r.live--
			return true
		}
	}
	return false
}

// Each visits live entries in insertion order until fn returns false.
// Entries added during iteration are not visited; entries removed are skipped.
func (r *Registry) Each(fn func(h pool.Handle) bool) {
	n := len(r.entries)
	for i := 0; i < n; i++ {
		if r.entries[i].removed {
			continue
		}
		if !fn(r.entries[i].h) {
			return
		}
	}
}

// Compact drops tombstones and entries for which keep returns false.
// Returns the number of entries dropped.
func (r *Registry) Compact(keep func(h pool.Handle) bool) int {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.removed || (keep != nil && !keep(e.h)) {
			continue
		}
		kept = append(kept, e)
	}
	dropped := len(r.entries) - len(kept)
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = entry{}
	}
	r.entries = kept
	r.live = len(kept)
	return dropped
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.live
}

// Handles returns a copy of the live handles in insertion order.
func (r *Registry) Handles() []pool.Handle {
	out := make([]pool.Handle, 0, r.live)
	r.Each(func(h pool.Handle) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Reset empties the registry.
func (r *Registry) Reset() {
	r.entries = r.entries[:0]
	r.live = 0
}
