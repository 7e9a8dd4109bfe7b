// Package backend defines the contract every procedural-interface
// implementation (VPI, VHPI, FLI, and the in-process simkernel reference
// backend) must satisfy, and the process-wide registry that orders them.
package backend

import (
	"github.com/sarchlab/gogpi/handle"
)

// RawObject is an opaque, backend-owned pointer: the raw handle a real
// procedural interface would hand back (a vpiHandle, a vhpiHandleT, an
// mti_*Region). Only the backend that produced it may interpret it; the
// façade and every other component treat it as opaque.
type RawObject any

// Discovery is what a backend returns from any lookup/iteration
// operation: the raw object it found, plus the metadata the façade needs
// to build an ObjectHandle/SignalHandle.
type Discovery struct {
	Raw  RawObject
	Meta handle.ObjectMeta
}

// Selector enumerates the child-selection modes for Iterate.
type Selector int

const (
	SelectChildren Selector = iota
	SelectInstances
	SelectSignals
	SelectParameters
	SelectPackages
)

// SetAction enumerates the persistence modes for SetValue.
type SetAction int

const (
	DepositInertial SetAction = iota
	DepositNoDelay
	Force
	Release
)

// EventKind enumerates the out-of-band notifications EmbedEvent carries.
type EventKind int

const (
	EventNormalShutdown EventKind = iota
	EventForcedShutdown
	EventTestError
)

func (k EventKind) String() string {
	switch k {
	case EventNormalShutdown:
		return "normal-shutdown"
	case EventForcedShutdown:
		return "forced-shutdown"
	case EventTestError:
		return "test-error"
	default:
		return "event"
	}
}

// Cookie is the backend-private token returned by a Register* call,
// threaded back through Deregister. Its shape is entirely up to the
// backend (an akita event handle, a vpi callback handle, ...).
type Cookie any

// Backend is the function table every procedural interface implements.
// Every method dispatches purely in terms of RawObject/Cookie values the
// backend itself produced; the façade never inspects their contents.
type Backend interface {
	// Name identifies the backend (e.g. "vpi", "vhpi", "fli", "simkernel").
	Name() string

	// ID returns the index this backend was registered at. Valid only
	// after Registry.Register has assigned one.
	ID() int
	// SetID is called once by Registry.Register.
	SetID(id int)

	// GetRoot looks up the top-level scope, optionally by name. ok is
	// false when this backend has no root (e.g. name requested but not
	// its top).
	GetRoot(name string) (d Discovery, ok bool, err error)

	// GetByName looks up a child of parent by its short name.
	GetByName(parent RawObject, name string) (Discovery, error)
	// GetByIndex looks up a child of parent by declared-range index.
	GetByIndex(parent RawObject, i int) (Discovery, error)
	// Iterate returns a cursor-advancing function over parent's children
	// matching sel; the function returns (Discovery{}, false) when done.
	Iterate(parent RawObject, sel Selector) (func() (Discovery, bool), error)

	// GetValueBinStr returns the bit-string representation of sig's value.
	GetValueBinStr(sig RawObject) (string, error)
	// SetValue applies repr to sig under the given persistence action.
	SetValue(sig RawObject, repr string, action SetAction) error

	// GetSimTime returns the current simulated time as (high, low) words.
	GetSimTime() (high, low uint32)
	// GetSimPrecision returns the time-step exponent.
	GetSimPrecision() int

	// RegisterTimed, RegisterNextTimeStep, RegisterReadOnly, and
	// RegisterReadWrite arm a one-shot callback and return a cookie used
	// to deregister it.
	RegisterTimed(intervalSteps uint64, cb *handle.Callback) (Cookie, error)
	RegisterNextTimeStep(cb *handle.Callback) (Cookie, error)
	RegisterReadOnly(cb *handle.Callback) (Cookie, error)
	RegisterReadWrite(cb *handle.Callback) (Cookie, error)
	// RegisterValueChange arms a recurring callback on sig's edge.
	RegisterValueChange(sig RawObject, edge handle.EdgeKind, cb *handle.Callback) (Cookie, error)
	// Deregister cancels a pending registration. Safe to call for a
	// cookie whose callback is currently mid-dispatch.
	Deregister(kind handle.CallbackKind, cookie Cookie) error

	// SimEnd asks the backend to tell its simulator to end simulation.
	SimEnd() error
}
