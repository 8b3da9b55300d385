package plugins

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotRegistered distinguishes a missing plugin from a registered one
	// whose config fails validation.
	ErrNotRegistered = errors.New("plugin not registered")
	// ErrNotAllowed is returned when a plugin id is absent from the
	// registry's allow-list.
	ErrNotAllowed = errors.New("plugin id not on allow-list")
	// ErrDuplicate is returned when an id is registered twice.
	ErrDuplicate = errors.New("plugin already registered")
)

// Registry maps plugin ids to implementations, gated by an explicit
// allow-list: only pre-approved first-party integrations may participate in
// generation. Construct one at startup and pass it to the composer; there
// is no package-level default instance.
type Registry struct {
	mu      sync.RWMutex
	allowed map[string]bool
	plugins map[string]Plugin
}

// NewRegistry creates a registry gated by the given allow-list. A nil or
// empty allow-list disables gating (test registries); any production caller
// passes the vetted id set explicitly.
func NewRegistry(allowlist []string) *Registry {
	allowed := make(map[string]bool, len(allowlist))
	for _, id := range allowlist {
		allowed[id] = true
	}
	return &Registry{
		allowed: allowed,
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin. It fails, leaving the registry unchanged, when the
// id is not allow-listed or already registered.
func (r *Registry) Register(p Plugin) error {
	id := p.Metadata().ID
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.allowed) > 0 && !r.allowed[id] {
		return fmt.Errorf("registering %q: %w", id, ErrNotAllowed)
	}
	if _, exists := r.plugins[id]; exists {
		return fmt.Errorf("registering %q: %w", id, ErrDuplicate)
	}
	r.plugins[id] = p
	return nil
}

// Resolve looks up a plugin by id.
func (r *Registry) Resolve(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	if !ok {
		return nil, fmt.Errorf("resolving %q: %w", id, ErrNotRegistered)
	}
	return p, nil
}

// IDs returns the registered plugin ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
