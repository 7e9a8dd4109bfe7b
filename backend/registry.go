package backend

import (
	"sync"

	"github.com/sarchlab/gogpi/gpierr"
)

// Registry is the process-wide, ordered list of backends, populated as
// each backend's well-known entry symbol runs (either linked in directly,
// or loaded by loader/extra). Root-handle resolution walks the registry
// in registration order, so order matters and is never reshuffled.
//
// Every method takes the registry's mutex. Register may be called at any
// time: nothing freezes the list once start-of-simulation handling is
// over, and no accessor asserts that the registry has been populated.
type Registry struct {
	mu       sync.Mutex
	backends []Backend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends b to the registry and assigns it the next registry
// index, returning that index.
func (r *Registry) Register(b Backend) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := len(r.backends)
	b.SetID(id)
	r.backends = append(r.backends, b)
	return id
}

// List returns the backends in registration order. The returned slice is
// a snapshot copy, safe to range over even if Register is called later.
func (r *Registry) List() []Backend {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Backend, len(r.backends))
	copy(out, r.backends)
	return out
}

// ByID returns the backend registered with the given id.
func (r *Registry) ByID(id int) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.backends) {
		return nil, gpierr.New(gpierr.InvalidHandle, "backend id out of range")
	}
	return r.backends[id], nil
}

// Len reports how many backends are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.backends)
}
