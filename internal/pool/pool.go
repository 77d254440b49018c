// Package pool provides fixed-capacity object pools with generation-checked handles.
//
// A pool never grows while acquiring. Slots are recycled, and each release bumps the
// slot generation so handles issued for an earlier occupancy stop resolving.
package pool

// Handle identifies a single occupancy of a pool slot.
type Handle struct {
	Index int
	Gen   uint32
}

type slot[T any] struct {
	value  T
	active bool
	gen    uint32
}

// Pool recycles values of one kind. Slots are heap-allocated individually so
// pointers returned by Acquire and Get stay valid across Grow and Trim.
type Pool[T any] struct {
	slots   []*slot[T]
	reset   func(*T)
	nextGen uint32 // starting generation for slots created after a trim
}

// New creates a pool pre-warmed with capacity slots. reset is called on every
// release and must clear all transient state of the value.
func New[T any](capacity int, reset func(*T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.Grow(capacity)
	return p
}

// Acquire returns the first inactive slot. ok is false when every slot is in use.
func (p *Pool[T]) Acquire() (h Handle, v *T, ok bool) {
	for i, s := range p.slots {
		if !s.active {
			s.active = true
			return Handle{Index: i, Gen: s.gen}, &s.value, true
		}
	}
	return Handle{}, nil, false
}

// Release deactivates the slot referenced by h and resets its value.
// Stale or unknown handles are ignored and report false.
func (p *Pool[T]) Release(h Handle) bool {
	s := p.lookup(h)
	if s == nil {
		return false
	}
	s.active = false
	if p.reset != nil {
		p.reset(&s.value)
	}
	s.gen++
	return true
}

// Get returns the value for a live handle.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s := p.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Live reports whether h still refers to an active occupancy.
func (p *Pool[T]) Live(h Handle) bool {
	return p.lookup(h) != nil
}

func (p *Pool[T]) lookup(h Handle) *slot[T] {
	if h.Index < 0 || h.Index >= len(p.slots) {
		return nil
	}
	s := p.slots[h.Index]
	if !s.active || s.gen != h.Gen {
		return nil
	}
	return s
}

// Each calls fn for every active slot in index order.
func (p *Pool[T]) Each(fn func(h Handle, v *T)) {
	for i, s := range p.slots {
		if s.active {
			fn(Handle{Index: i, Gen: s.gen}, &s.value)
		}
	}
}

// ReleaseAll releases every active slot and returns how many were released.
func (p *Pool[T]) ReleaseAll() int {
	n := 0
	for i, s := range p.slots {
		if s.active && p.Release(Handle{Index: i, Gen: s.gen}) {
			n++
		}
	}
	return n
}

// Len returns the number of slots, active or not.
func (p *Pool[T]) Len() int {
	return len(p.slots)
}

// ActiveCount returns the number of occupied slots.
func (p *Pool[T]) ActiveCount() int {
	n := 0
	for _, s := range p.slots {
		if s.active {
			n++
		}
	}
	return n
}

// Grow appends n inactive slots.
func (p *Pool[T]) Grow(n int) {
	for range n {
		s := &slot[T]{gen: p.nextGen}
		if p.reset != nil {
			p.reset(&s.value)
		}
		p.slots = append(p.slots, s)
	}
}

// Trim shrinks the pool toward floor once its length exceeds ceiling.
// Only trailing inactive slots are dropped; an active slot stops the trim.
// It returns the number of slots removed.
func (p *Pool[T]) Trim(ceiling, floor int) int {
	if len(p.slots) <= ceiling {
		return 0
	}
	removed := 0
	for len(p.slots) > floor {
		last := p.slots[len(p.slots)-1]
		if last.active {
			break
		}
		// Slots recreated at this index later must not revive old handles.
		if last.gen >= p.nextGen {
			p.nextGen = last.gen + 1
		}
		p.slots[len(p.slots)-1] = nil
		p.slots = p.slots[:len(p.slots)-1]
		removed++
	}
	return removed
}
