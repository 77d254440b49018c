package game

import (
	"container/heap"
	"time"
)

// timer is a one-shot deferred action.
type timer struct {
	due time.Time
	seq uint64
	fn  func(now time.Time)
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler runs deferred actions cooperatively between frames.
// It is not safe for concurrent use.
type Scheduler struct {
	timers timerHeap
	seq    uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run d after now. Timers with equal due times run in scheduling order.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func(now time.Time)) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.timers, &timer{due: now.Add(d), seq: s.seq, fn: fn})
}

// RunDue runs every timer due at or before now, including ones scheduled by
// the callbacks themselves. Returns the number of timers run.
func (s *Scheduler) RunDue(now time.Time) int {
	n := 0
	for len(s.timers) > 0 && !s.timers[0].due.After(now) {
		t := heap.Pop(&s.timers).(*timer)
		t.fn(now)
		n++
	}
	return n
}

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Clear drops every pending timer.
func (s *Scheduler) Clear() {
	for i := range s.timers {
		s.timers[i] = nil
	}
	s.timers = s.timers[:0]
}
