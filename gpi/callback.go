package gpi

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

func (f *Facade) newCallbackHandle(kind handle.CallbackKind, backendID int) (handle.CallbackHandle, *handle.Callback) {
	f.nextCallbackID++
	id := f.nextCallbackID
	cb := handle.NewCallback(kind)
	f.callbacks[id] = cb
	return handle.CallbackHandle{ID: id, BackendID: backendID, Kind: kind}, cb
}

func (f *Facade) firstBackend() (backend.Backend, error) {
	backends := f.registry.List()
	if len(backends) == 0 {
		return nil, gpierr.New(gpierr.InternalError, "no backend registered")
	}
	return backends[0], nil
}

// RegisterTimed creates a one-shot callback that, once armed by SetUser,
// fires once at the beginning-of-next-time-step that is exactly
// intervalSteps ahead (0 means the very next step's beginning).
func (f *Facade) RegisterTimed(intervalSteps uint64) (handle.CallbackHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := f.firstBackend()
	if err != nil {
		return handle.CallbackHandle{}, err
	}
	ch, cb := f.newCallbackHandle(handle.CallbackTimed, b.ID())
	cb.Interval = intervalSteps
	return ch, nil
}

// RegisterNextTimeStep creates a one-shot callback that fires at the next
// beginning-of-time-step for any reason.
func (f *Facade) RegisterNextTimeStep() (handle.CallbackHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := f.firstBackend()
	if err != nil {
		return handle.CallbackHandle{}, err
	}
	ch, _ := f.newCallbackHandle(handle.CallbackNextTimeStep, b.ID())
	return ch, nil
}

// RegisterReadOnly creates a one-shot callback that fires at the
// end-of-current-time-step, when values are stable and writes forbidden.
func (f *Facade) RegisterReadOnly() (handle.CallbackHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := f.firstBackend()
	if err != nil {
		return handle.CallbackHandle{}, err
	}
	ch, _ := f.newCallbackHandle(handle.CallbackReadOnly, b.ID())
	return ch, nil
}

// RegisterReadWrite creates a one-shot callback that fires at the
// end-of-current-evaluation-cycle, when writes are still allowed.
func (f *Facade) RegisterReadWrite() (handle.CallbackHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := f.firstBackend()
	if err != nil {
		return handle.CallbackHandle{}, err
	}
	ch, _ := f.newCallbackHandle(handle.CallbackReadWrite, b.ID())
	return ch, nil
}

// RegisterValueChange creates a recurring callback bound to sig that,
// once armed, fires in the values-changed sub-phase whenever sig's value
// matches edge.
func (f *Facade) RegisterValueChange(sig handle.SignalHandle, edge handle.EdgeKind) (handle.CallbackHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.lookupRef(sig.ObjectHandle); err != nil {
		return handle.CallbackHandle{}, err
	}

	ch, cb := f.newCallbackHandle(handle.CallbackValueChange, sig.BackendID)
	cb.Signal = &sig
	cb.Edge = edge
	return ch, nil
}

// SetUser attaches fn and data to c, arms it, and hands it to its owning
// backend for scheduling. It must be called exactly once per callback,
// between creation and the callback's first dispatch.
func (f *Facade) SetUser(c handle.CallbackHandle, fn handle.Func, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.callbacks[c.ID]
	if !ok {
		return gpierr.New(gpierr.InvalidHandle, "stale or unknown callback handle")
	}
	if err := cb.SetUser(fn, data); err != nil {
		return err
	}
	if err := cb.Arm(); err != nil {
		return err
	}

	b, err := f.registry.ByID(c.BackendID)
	if err != nil {
		return err
	}

	var cookie backend.Cookie
	switch cb.Kind {
	case handle.CallbackTimed:
		cookie, err = b.RegisterTimed(cb.Interval, cb)
	case handle.CallbackNextTimeStep:
		cookie, err = b.RegisterNextTimeStep(cb)
	case handle.CallbackReadOnly:
		cookie, err = b.RegisterReadOnly(cb)
	case handle.CallbackReadWrite:
		cookie, err = b.RegisterReadWrite(cb)
	case handle.CallbackValueChange:
		ref, lerr := f.lookupRef(cb.Signal.ObjectHandle)
		if lerr != nil {
			return lerr
		}
		cookie, err = b.RegisterValueChange(ref.raw, cb.Edge, cb)
	default:
		return gpierr.New(gpierr.InternalError, "unknown callback kind")
	}
	if err != nil {
		return err
	}

	f.cookies[c.ID] = cookie
	return nil
}

// Deregister cancels c. Safe to call from inside the callback's own
// dispatch (the in-flight call still completes; it simply does not
// re-arm).
func (f *Facade) Deregister(c handle.CallbackHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.callbacks[c.ID]
	if !ok {
		return gpierr.New(gpierr.InvalidHandle, "stale or unknown callback handle")
	}
	cb.Deregister()

	if cookie, ok := f.cookies[c.ID]; ok && cb.Kind == handle.CallbackValueChange {
		b, err := f.registry.ByID(c.BackendID)
		if err != nil {
			return err
		}
		return b.Deregister(cb.Kind, cookie)
	}
	return nil
}

// ReleaseCallback invalidates c: a second release, or any later use of
// c, fails with InvalidHandle. Unlike Deregister, which only cancels a
// still-pending registration so the handle remains valid for inspection,
// ReleaseCallback removes the arena entry outright.
func (f *Facade) ReleaseCallback(c handle.CallbackHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.callbacks[c.ID]
	if !ok {
		return gpierr.New(gpierr.InvalidHandle, "stale or unknown callback handle")
	}
	cb.Deregister()

	if cookie, ok := f.cookies[c.ID]; ok {
		if b, err := f.registry.ByID(c.BackendID); err == nil {
			_ = b.Deregister(cb.Kind, cookie)
		}
	}

	delete(f.callbacks, c.ID)
	delete(f.cookies, c.ID)
	return nil
}
