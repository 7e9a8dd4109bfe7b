package handle

import (
	"fmt"

	"github.com/sarchlab/gogpi/gpierr"
)

// CallbackKind distinguishes the five registerable callback shapes.
type CallbackKind int

const (
	CallbackTimed CallbackKind = iota
	CallbackNextTimeStep
	CallbackReadOnly
	CallbackReadWrite
	CallbackValueChange
)

var callbackKindNames = [...]string{
	"timed", "next-time-step", "read-only", "read-write", "value-change",
}

func (k CallbackKind) String() string {
	if int(k) < 0 || int(k) >= len(callbackKindNames) {
		return fmt.Sprintf("callback-kind(%d)", int(k))
	}
	return callbackKindNames[k]
}

// Recurring reports whether this kind re-arms itself after dispatch
// instead of being one-shot.
func (k CallbackKind) Recurring() bool {
	return k == CallbackValueChange
}

// EdgeKind selects which transition a value-change callback fires on.
type EdgeKind int

const (
	EdgeRising EdgeKind = iota
	EdgeFalling
	EdgeAny
)

func (e EdgeKind) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	default:
		return "any"
	}
}

// State is one of the five callback lifecycle states every backend's
// callback dispatch moves through.
type State int

const (
	StateFree State = iota
	StatePrimed
	StateCall
	StateReprime
	StateDelete
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "FREE"
	case StatePrimed:
		return "PRIMED"
	case StateCall:
		return "CALL"
	case StateReprime:
		return "REPRIME"
	case StateDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Func is the user callback the owning backend invokes on dispatch.
type Func func(data any)

// CallbackHandle is the lightweight, comparable value the façade hands to
// the hosted runtime. The mutable lifecycle lives in the companion
// Callback record, which the façade keeps in its arena keyed by this
// handle's ID.
type CallbackHandle struct {
	ID        uint64
	BackendID int
	Kind      CallbackKind
}

// Callback is the mutable lifecycle record for one registered callback.
// Transitions only happen at the four well-defined points below (Arm,
// FireEnter, FireExit, Deregister), so a user function that registers or
// deregisters callbacks reentrantly only ever schedules a transition that
// is applied on FireExit, never mutates state mid-dispatch.
type Callback struct {
	Kind     CallbackKind
	State    State
	Fn       Func
	Data     any
	Signal   *SignalHandle // bound signal, for CallbackValueChange only
	Edge     EdgeKind      // for CallbackValueChange only
	Interval uint64        // for CallbackTimed only

	pendingDelete bool
}

// NewCallback creates a callback record in state FREE.
func NewCallback(kind CallbackKind) *Callback {
	return &Callback{Kind: kind, State: StateFree}
}

// SetUser attaches the user function and opaque data. Must be called
// exactly once, before the callback is armed.
func (c *Callback) SetUser(fn Func, data any) error {
	if c.State != StateFree {
		return gpierr.New(gpierr.InternalError,
			"SetUser called outside state FREE")
	}
	if c.Fn != nil {
		return gpierr.New(gpierr.InternalError,
			"SetUser called more than once")
	}
	c.Fn = fn
	c.Data = data
	return nil
}

// Arm transitions FREE|REPRIME -> PRIMED, registering exactly one
// outstanding kernel registration for this callback.
func (c *Callback) Arm() error {
	if c.State != StateFree && c.State != StateReprime {
		return gpierr.New(gpierr.InternalError,
			fmt.Sprintf("cannot arm callback from state %s", c.State))
	}
	if c.Fn == nil {
		return gpierr.New(gpierr.InternalError, "cannot arm callback with no user function")
	}
	c.State = StatePrimed
	c.pendingDelete = false
	return nil
}

// FireEnter transitions PRIMED -> CALL, just before the user function runs.
func (c *Callback) FireEnter() error {
	if c.State != StatePrimed {
		return gpierr.New(gpierr.InternalError,
			fmt.Sprintf("callback fired from state %s, want PRIMED", c.State))
	}
	c.State = StateCall
	return nil
}

// FireExit transitions CALL -> DELETE (one-shot, or deregistered during
// dispatch) or CALL -> REPRIME -> PRIMED (recurring, still wanted), and
// must be called exactly once, right after the user function returns.
// The caller (the backend driving this callback) is responsible for
// re-registering with the kernel when the returned state is PRIMED.
func (c *Callback) FireExit() State {
	if c.pendingDelete || !c.Kind.Recurring() {
		c.State = StateDelete
		return c.State
	}
	c.State = StateReprime
	c.State = StatePrimed
	return c.State
}

// Deregister cancels the callback. Outside of CALL this takes effect
// immediately; from inside CALL (i.e. called by the user function from
// its own dispatch) it is deferred to the next FireExit.
func (c *Callback) Deregister() {
	if c.State == StateCall {
		c.pendingDelete = true
		return
	}
	c.State = StateDelete
}

// Alive reports whether the callback still has, or will regain, an
// outstanding registration.
func (c *Callback) Alive() bool {
	return c.State != StateDelete
}

// Iterator is a single-pass traversal over a parent ObjectHandle's
// children. It models the sum type over backend-specific cursor states
// described in the design notes as a single closure: no two Iterators
// ever share underlying cursor state because each wraps its own closure.
type Iterator struct {
	next func() (ObjectHandle, bool)
	done bool
}

// NewIterator wraps a cursor-advancing closure as an Iterator.
func NewIterator(next func() (ObjectHandle, bool)) *Iterator {
	return &Iterator{next: next}
}

// Next advances the iterator. It returns (handle, true) for each child in
// turn, and a zero handle with false once exhausted; every call after
// exhaustion is a no-op that keeps returning false.
func (it *Iterator) Next() (ObjectHandle, bool) {
	if it.done || it.next == nil {
		return ObjectHandle{}, false
	}
	h, ok := it.next()
	if !ok {
		it.done = true
		return ObjectHandle{}, false
	}
	return h, true
}
