package collection

import (
	"sync"
	"time"
)

type entry struct {
	state *State
	seen  time.Time
}

// Registry keeps one State per session.
type Registry struct {
	mu     sync.Mutex
	now    func() time.Time
	states map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{now: time.Now, states: make(map[string]*entry)}
}

// Get returns the state for sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.states[sessionID]
	if !ok {
		e = &entry{state: NewState()}
		r.states[sessionID] = e
	}
	e.seen = r.now()
	return e.state
}

// Drop forgets a session's state.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, sessionID)
}

// Sweep forgets states not requested within idle and returns their
// session ids.
func (r *Registry) Sweep(idle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	var dropped []string
	for id, e := range r.states {
		if e.seen.Before(cutoff) {
			delete(r.states, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
