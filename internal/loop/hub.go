package loop

import (
	"sync"
	"time"
)

// EventType identifies a hub notification.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// Event is sent from the hub to every registered session.
type Event struct {
	Type EventType
}

// Handle is a session's registration with a Hub.
type Handle struct {
	ID       int
	Username string
	Events   chan Event
}

// Hub tracks the sessions of one server so they can be counted and told to shut down.
// Each session runs its own engine; the hub shares nothing else.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int]*Handle
	nextID   int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[int]*Handle), nextID: 1}
}

// Register adds a session and returns its handle.
func (h *Hub) Register(username string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &Handle{ID: h.nextID, Username: username, Events: make(chan Event, 4)}
	h.sessions[handle.ID] = handle
	h.nextID++
	return handle
}

// Unregister removes a session.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown notifies every session and waits until all have unregistered or
// timeout passes. It reports whether every session left in time.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.RLock()
	for _, handle := range h.sessions {
		select {
		case handle.Events <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
