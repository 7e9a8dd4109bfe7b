// Package cgoabi exposes the GPI façade surface through //export wrappers
// for embedding into an actual simulator process. It is built only with
// cgo enabled; the pure-Go packages it wraps remain the testable core and
// carry no cgo dependency themselves.
//
//go:build cgo

package cgoabi

/*
#include <stdint.h>
#include <stdlib.h>

typedef void (*gpi_callback_fn)(void *user_data);

static inline void gogpi_invoke_callback(gpi_callback_fn fn, void *user_data) {
    fn(user_data);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpi"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

var (
	mu     sync.Mutex
	facade *gpi.Facade

	nextID  uint64
	objects = map[uint64]handle.ObjectHandle{}
	signals = map[uint64]handle.SignalHandle{}
	cbs     = map[uint64]handle.CallbackHandle{}
)

// Bind wires the package-level façade used by every //export function
// below. Called once, from the Go-side bootstrap that also runs ES, never
// from C.
func Bind(f *gpi.Facade) {
	mu.Lock()
	defer mu.Unlock()
	facade = f
}

func storeObject(h handle.ObjectHandle) uint64 {
	nextID++
	id := nextID
	objects[id] = h
	return id
}

func storeSignal(h handle.SignalHandle) uint64 {
	nextID++
	id := nextID
	signals[id] = h
	objects[id] = h.ObjectHandle
	return id
}

func storeCallback(h handle.CallbackHandle) uint64 {
	nextID++
	id := nextID
	cbs[id] = h
	return id
}

func cString(s string) *C.char { return C.CString(s) }

// GpiFreeString releases a string returned by any of the Gpi* functions
// below. The caller must call it exactly once per returned string.
//
//export GpiFreeString
func GpiFreeString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// GpiEmbedInit brings the façade online for the given simulator identity.
// Returns 0 on success, nonzero on failure.
//
//export GpiEmbedInit
func GpiEmbedInit(product *C.char, version *C.char) C.int {
	mu.Lock()
	defer mu.Unlock()

	if facade == nil {
		return -1
	}
	err := facade.EmbedInit(gpi.SimulatorInfo{
		Product: C.GoString(product),
		Version: C.GoString(version),
	})
	return boolToStatus(err)
}

// GpiSimEnd tears the façade down, releasing every outstanding handle.
//
//export GpiSimEnd
func GpiSimEnd() C.int {
	mu.Lock()
	defer mu.Unlock()

	if facade == nil {
		return -1
	}
	err := facade.SimEnd()
	objects = map[uint64]handle.ObjectHandle{}
	signals = map[uint64]handle.SignalHandle{}
	cbs = map[uint64]handle.CallbackHandle{}
	return boolToStatus(err)
}

// GpiGetRootHandle resolves the named (or first) root scope, writing its
// opaque handle id to *out.
//
//export GpiGetRootHandle
func GpiGetRootHandle(name *C.char, out *C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	if facade == nil {
		return -1
	}
	h, err := facade.GetRootHandle(C.GoString(name))
	if err != nil {
		return errStatus(err)
	}
	*out = C.uint64_t(storeObject(h))
	return 0
}

// GpiGetByName resolves a named child of parent.
//
//export GpiGetByName
func GpiGetByName(parent C.uint64_t, name *C.char, out *C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	p, ok := objects[uint64(parent)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown parent handle"))
	}
	h, err := facade.GetByName(p, C.GoString(name))
	if err != nil {
		return errStatus(err)
	}
	*out = C.uint64_t(storeObject(h))
	return 0
}

// GpiGetByIndex resolves the child of parent at declared-range index i.
//
//export GpiGetByIndex
func GpiGetByIndex(parent C.uint64_t, i C.int64_t, out *C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	p, ok := objects[uint64(parent)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown parent handle"))
	}
	h, err := facade.GetByIndex(p, int(i))
	if err != nil {
		return errStatus(err)
	}
	*out = C.uint64_t(storeObject(h))
	return 0
}

// GpiReleaseObject invalidates an object (or signal) handle. A second
// release of the same id, or of one already cleared by GpiSimEnd, fails
// with InvalidHandle.
//
//export GpiReleaseObject
func GpiReleaseObject(h C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	o, ok := objects[uint64(h)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown object handle"))
	}
	err := facade.Release(o)
	delete(objects, uint64(h))
	delete(signals, uint64(h))
	return boolToStatus(err)
}

// GpiReleaseCallback invalidates a callback handle outright, removing it
// from the arena rather than merely cancelling its pending registration.
//
//export GpiReleaseCallback
func GpiReleaseCallback(c C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	h, ok := cbs[uint64(c)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown callback handle"))
	}
	err := facade.ReleaseCallback(h)
	delete(cbs, uint64(c))
	return boolToStatus(err)
}

// GpiGetValueBinStr returns sig's value as a caller-owned bit string;
// release it with GpiFreeString.
//
//export GpiGetValueBinStr
func GpiGetValueBinStr(sig C.uint64_t, out **C.char) C.int {
	mu.Lock()
	defer mu.Unlock()

	s, ok := signals[uint64(sig)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown signal handle"))
	}
	v, err := facade.GetValueBinStr(s)
	if err != nil {
		return errStatus(err)
	}
	*out = cString(v)
	return 0
}

// GpiSetValue applies repr to sig under the given persistence action (see
// backend.SetAction: 0=deposit-inertial, 1=deposit-no-delay, 2=force,
// 3=release).
//
//export GpiSetValue
func GpiSetValue(sig C.uint64_t, repr *C.char, action C.int) C.int {
	mu.Lock()
	defer mu.Unlock()

	s, ok := signals[uint64(sig)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown signal handle"))
	}
	err := facade.SetValue(s, C.GoString(repr), backend.SetAction(action))
	return boolToStatus(err)
}

// GpiRegisterTimed creates a one-shot callback firing intervalSteps steps
// ahead, writing its opaque handle id to *out. The callback still needs
// GpiSetUser to be armed.
//
//export GpiRegisterTimed
func GpiRegisterTimed(intervalSteps C.uint64_t, out *C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	h, err := facade.RegisterTimed(uint64(intervalSteps))
	if err != nil {
		return errStatus(err)
	}
	*out = C.uint64_t(storeCallback(h))
	return 0
}

// GpiSetUser attaches fn/userData to c and arms it.
//
//export GpiSetUser
func GpiSetUser(c C.uint64_t, fn C.gpi_callback_fn, userData unsafe.Pointer) C.int {
	mu.Lock()
	h, ok := cbs[uint64(c)]
	mu.Unlock()
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown callback handle"))
	}

	trampoline := func(data any) {
		p, _ := data.(unsafe.Pointer)
		C.gogpi_invoke_callback(fn, p)
	}

	mu.Lock()
	err := facade.SetUser(h, trampoline, userData)
	mu.Unlock()
	return boolToStatus(err)
}

// GpiDeregister cancels a pending callback.
//
//export GpiDeregister
func GpiDeregister(c C.uint64_t) C.int {
	mu.Lock()
	defer mu.Unlock()

	h, ok := cbs[uint64(c)]
	if !ok {
		return errStatus(gpierr.New(gpierr.InvalidHandle, "unknown callback handle"))
	}
	err := facade.Deregister(h)
	delete(cbs, uint64(c))
	return boolToStatus(err)
}

// GpiGetSimTime writes the current simulated time's high/low words.
//
//export GpiGetSimTime
func GpiGetSimTime(high *C.uint32_t, low *C.uint32_t) {
	mu.Lock()
	defer mu.Unlock()

	h, l := facade.GetSimTime()
	*high = C.uint32_t(h)
	*low = C.uint32_t(l)
}

func boolToStatus(err error) C.int {
	if err != nil {
		return errStatus(err)
	}
	return 0
}

// errStatus maps a *gpierr.Error's Kind to a small stable negative code,
// matching the error-codes taxonomy crossing the ABI boundary.
func errStatus(err error) C.int {
	kind := gpierr.InternalError
	var ge *gpierr.Error
	if e, ok := err.(*gpierr.Error); ok {
		ge = e
	}
	if ge != nil {
		kind = ge.Kind
	}
	return C.int(-(int(kind) + 1))
}
