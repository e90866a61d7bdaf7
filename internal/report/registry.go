package report

import "sync"

// Registry keeps one wizard per signed-in user. The lock only guards the
// map; each Wizard serializes its own state.
type Registry struct {
	mu      sync.Mutex
	deps    Deps
	wizards map[int64]*Wizard
}

// NewRegistry creates an empty registry
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:    deps,
		wizards: make(map[int64]*Wizard),
	}
}

// For returns userID's wizard, creating it on first use.
func (r *Registry) For(userID int64) *Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wizards[userID]
	if !ok {
		w = NewWizard(userID, r.deps)
		r.wizards[userID] = w
	}
	return w
}

// Drop forgets userID's wizard, e.g. on logout.
func (r *Registry) Drop(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wizards, userID)
}

// Len returns the number of live wizards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.wizards)
}
