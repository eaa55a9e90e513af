// Package sessions tracks which real-time connection belongs to which user.
// The registry is process-local state: it is rebuilt empty on restart and
// notifications pushed while a user is unregistered are not redelivered.
package sessions

import "sync"

// Registry maps a user identity to its active connection id. A user holds at
// most one connection; registering again overwrites the previous mapping.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]string
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]string),
	}
}

// Register maps userID to connID, replacing any prior mapping for that user
func (r *Registry) Register(userID, connID string) {
	if userID == "" || connID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = connID
}

// Lookup returns the active connection id for userID, if any
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

// Remove drops whichever user currently owns connID. Connections do not know
// their user at disconnect time, so this is a scan over the registry.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, id := range r.byUser {
		if id == connID {
			delete(r.byUser, userID)
			return
		}
	}
}

// Len returns the number of registered users
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
