// Package gpi is the façade the hosted test runtime calls into: the only
// package that mints ObjectHandle and CallbackHandle values, and the only
// one that knows both the handle and backend packages. Every other
// package either describes handles (handle), implements a procedural
// interface (backend and its subpackages), or is orchestration glue this
// package uses (resolver, logbridge, loader).
package gpi

import (
	"sync"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// SimulatorInfo identifies the simulator process that called EmbedInit,
// the Go analogue of the vendor-identity struct every procedural
// interface hands the hosted runtime at start-of-simulation.
type SimulatorInfo struct {
	Product string
	Version string
}

type objRef struct {
	backendID int
	raw       backend.RawObject
	meta      handle.ObjectMeta
}

type nameKey struct {
	backendID int
	parentID  uint64
	name      string
}

// Facade owns every ObjectHandle and CallbackHandle instance handed to
// the hosted runtime, and dispatches every operation through the
// registered backends. It is the sole arena: no other package stores a
// RawObject or a live *handle.Callback.
type Facade struct {
	mu       sync.Mutex
	registry *backend.Registry

	nextHandleID uint64
	objects      map[uint64]*objRef
	byName       map[nameKey]uint64 // GetByName identity cache

	nextCallbackID uint64
	callbacks      map[uint64]*handle.Callback
	cookies        map[uint64]backend.Cookie

	started bool
}

// New creates a Facade dispatching through registry.
func New(registry *backend.Registry) *Facade {
	return &Facade{
		registry: registry,
		objects:  make(map[uint64]*objRef),
		byName:   make(map[nameKey]uint64),

		callbacks: make(map[uint64]*handle.Callback),
		cookies:   make(map[uint64]backend.Cookie),
	}
}

// EmbedInit brings the façade online. Idempotent: a second call is a
// no-op that returns nil, matching the "idempotent per process" contract.
func (f *Facade) EmbedInit(info SimulatorInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return nil
	}
	if f.registry.Len() == 0 {
		return gpierr.New(gpierr.InternalError, "EmbedInit called with no backend registered")
	}
	f.started = true
	return nil
}

// EmbedEvent notifies the façade of an out-of-band event. The façade
// itself does not own runtime teardown logic (that is embed.Surface's
// job); this records nothing and exists so SimEnd and callers upstream of
// embed have a uniform entry point, matching the façade surface listed
// for the embedding-and-lifecycle group.
func (f *Facade) EmbedEvent(kind backend.EventKind, message string) {
	_ = kind
	_ = message
}

// SimEnd deregisters every outstanding callback and invalidates every
// handle, then asks the first registered backend to end the simulator.
func (f *Facade) SimEnd() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	backends := f.registry.List()
	if len(backends) == 0 {
		return gpierr.New(gpierr.InternalError, "no backend registered")
	}

	for id, cb := range f.callbacks {
		if cookie, ok := f.cookies[id]; ok {
			_ = backendFor(backends, cb).Deregister(cb.Kind, cookie)
		}
	}
	f.callbacks = make(map[uint64]*handle.Callback)
	f.cookies = make(map[uint64]backend.Cookie)
	f.objects = make(map[uint64]*objRef)
	f.byName = make(map[nameKey]uint64)

	return backends[0].SimEnd()
}

func backendFor(backends []backend.Backend, cb *handle.Callback) backend.Backend {
	if cb.Signal != nil {
		for _, b := range backends {
			if b.ID() == cb.Signal.BackendID {
				return b
			}
		}
	}
	if len(backends) > 0 {
		return backends[0]
	}
	return nil
}

// GetSimTime returns the simulated time from the first registered
// backend: every backend in one process observes the same simulator
// clock.
func (f *Facade) GetSimTime() (high, low uint32) {
	backends := f.registry.List()
	if len(backends) == 0 {
		return 0, 0
	}
	return backends[0].GetSimTime()
}

// GetSimPrecision returns the time-step exponent from the first
// registered backend.
func (f *Facade) GetSimPrecision() int {
	backends := f.registry.List()
	if len(backends) == 0 {
		return 0
	}
	return backends[0].GetSimPrecision()
}

// Snapshot is a read-only, arena-wide view taken under the façade's own
// lock, for the diagnostics HTTP surface. It never blocks simulation for
// longer than the copy itself takes.
type Snapshot struct {
	Backends      []string
	ObjectCount   int
	CallbackCount int
	SimTimeHigh   uint32
	SimTimeLow    uint32
	SimPrecision  int
	Started       bool
}

// Snapshot copies the façade's current counters and backend list under a
// single narrow lock acquisition.
func (f *Facade) Snapshot() Snapshot {
	f.mu.Lock()
	backends := f.registry.List()
	s := Snapshot{
		ObjectCount:   len(f.objects),
		CallbackCount: len(f.callbacks),
		Started:       f.started,
	}
	f.mu.Unlock()

	for _, b := range backends {
		s.Backends = append(s.Backends, b.Name())
	}
	if len(backends) > 0 {
		s.SimTimeHigh, s.SimTimeLow = backends[0].GetSimTime()
		s.SimPrecision = backends[0].GetSimPrecision()
	}
	return s
}

func (f *Facade) mint(backendID int, raw backend.RawObject, meta handle.ObjectMeta) handle.ObjectHandle {
	f.nextHandleID++
	id := f.nextHandleID
	f.objects[id] = &objRef{backendID: backendID, raw: raw, meta: meta}
	return handle.ObjectHandle{ID: id, BackendID: backendID, Meta: meta}
}

func (f *Facade) lookupRef(h handle.ObjectHandle) (*objRef, error) {
	ref, ok := f.objects[h.ID]
	if !ok {
		return nil, gpierr.New(gpierr.InvalidHandle, "stale or unknown object handle")
	}
	return ref, nil
}
