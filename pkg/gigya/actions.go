package gigya

import (
	"errors"
	"sync"
)

// Action is an opaque extension object registered by feature code,
// for example a prepared share action.
type Action any

// Actions is a concurrency-safe keyed store of actions. Registering an
// existing key replaces the previous action.
type Actions struct {
	mu    sync.RWMutex
	items map[string]Action
}

// NewActions creates an empty registry.
func NewActions() *Actions {
	return &Actions{items: make(map[string]Action)}
}

// Has reports whether an action is registered under key.
func (a *Actions) Has(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.items[key]
	return ok
}

// Get returns the action registered under key or ErrActionNotFound.
func (a *Actions) Get(key string) (Action, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	action, ok := a.items[key]
	if !ok {
		return nil, errors.Join(ErrActionNotFound, errors.New("key "+key))
	}
	return action, nil
}

// Register stores action under key.
func (a *Actions) Register(key string, action Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items[key] = action
}
