// Package simkernel is the reference backend: it implements
// backend.Backend directly against an in-process kernel.Design, with no
// vendor simulator or cgo boundary involved. It is what backend/vpi,
// backend/vhpi, and backend/fli each wrap with their own dialect; on its
// own it is also a complete, runnable backend for tests and examples.
package simkernel

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
	"github.com/sarchlab/gogpi/resolver"
)

// Backend wraps a kernel.Design, rendering its scope tree in VPI-like
// dotted-path style (simkernel stands in for a generic kernel, so it
// borrows VPI's naming convention per the design notes).
type Backend struct {
	id     int
	design *kernel.Design
	style  resolver.Style
}

// New creates a Backend over design.
func New(design *kernel.Design) *Backend {
	return &Backend{design: design, style: resolver.VPIStyle}
}

// NewWithStyle creates a Backend over design, rendering names in the
// given dialect. backend/vpi, backend/vhpi, and backend/fli each use this
// to reuse simkernel's discovery logic under their own naming convention.
func NewWithStyle(design *kernel.Design, style resolver.Style) *Backend {
	return &Backend{design: design, style: style}
}

// Name identifies this backend.
func (b *Backend) Name() string { return "simkernel" }

// ID returns this backend's registry index.
func (b *Backend) ID() int { return b.id }

// SetID is called once by backend.Registry.Register.
func (b *Backend) SetID(id int) { b.id = id }

func metaForScope(s *kernel.Scope) handle.ObjectMeta {
	return handle.ObjectMeta{
		Kind:     s.Kind(),
		Name:     s.Name(),
		FullName: s.FullName(),
	}
}

func metaForSignal(s *kernel.Signal) handle.ObjectMeta {
	return handle.ObjectMeta{
		Kind:        handle.ScalarKind,
		Name:        s.Name(),
		Indexable:   s.Width() > 1,
		Length:      s.Width(),
		Left:        s.Width() - 1,
		Right:       0,
		Dir:         handle.DirDownto,
		Const:       s.Const(),
		ElementKind: s.ElemKind(),
	}
}

func metaFor(raw backend.RawObject, fullName string) handle.ObjectMeta {
	switch v := raw.(type) {
	case *kernel.Scope:
		m := metaForScope(v)
		if fullName != "" {
			m.FullName = fullName
		}
		return m
	case *kernel.Signal:
		m := metaForSignal(v)
		if fullName != "" {
			m.FullName = fullName
		}
		return m
	default:
		return handle.ObjectMeta{Kind: handle.UnknownKind}
	}
}

// GetRoot returns the design's top scope, ignoring name (simkernel has
// exactly one root).
func (b *Backend) GetRoot(name string) (backend.Discovery, bool, error) {
	if err := b.design.GuardReady(); err != nil {
		return backend.Discovery{}, false, err
	}
	root := b.design.Root()
	fullName := root.Name()
	if fullName == "" {
		fullName = b.design.TickingComponent.Name()
	}
	return backend.Discovery{Raw: root, Meta: metaFor(root, fullName)}, true, nil
}

// GetByName looks up a named child of parent (a *kernel.Scope).
func (b *Backend) GetByName(parent backend.RawObject, name string) (backend.Discovery, error) {
	scope, ok := parent.(*kernel.Scope)
	if !ok {
		return backend.Discovery{}, gpierr.New(gpierr.WrongKind, "parent is not a scope")
	}
	child, ok := scope.ChildByName(name)
	if !ok {
		return backend.Discovery{}, gpierr.New(gpierr.NotFound, "no child named "+name)
	}
	return backend.Discovery{Raw: child, Meta: metaFor(child, b.style.Join(scope.FullName(), name))}, nil
}

// GetByIndex looks up a child of parent by declaration-order index.
func (b *Backend) GetByIndex(parent backend.RawObject, i int) (backend.Discovery, error) {
	scope, ok := parent.(*kernel.Scope)
	if !ok {
		return backend.Discovery{}, gpierr.New(gpierr.WrongKind, "parent is not a scope")
	}
	child, ok := scope.ChildByIndex(i)
	if !ok {
		return backend.Discovery{}, gpierr.New(gpierr.InvalidIndex, "index out of range")
	}
	return backend.Discovery{Raw: child, Meta: metaFor(child, b.style.IndexedName(scope.FullName(), i))}, nil
}

// Iterate returns a cursor over parent's children matching sel.
func (b *Backend) Iterate(parent backend.RawObject, sel backend.Selector) (func() (backend.Discovery, bool), error) {
	scope, ok := parent.(*kernel.Scope)
	if !ok {
		return nil, gpierr.New(gpierr.WrongKind, "parent is not a scope")
	}

	var items []backend.RawObject
	switch sel {
	case backend.SelectSignals:
		for _, s := range scope.Signals() {
			items = append(items, s)
		}
	case backend.SelectParameters:
		for _, s := range scope.Signals() {
			if s.Const() {
				items = append(items, s)
			}
		}
	case backend.SelectInstances:
		for _, c := range scope.Scopes() {
			items = append(items, c)
		}
	default: // SelectChildren, SelectPackages (simkernel has no packages)
		for _, c := range scope.Scopes() {
			items = append(items, c)
		}
		for _, s := range scope.Signals() {
			items = append(items, s)
		}
	}

	i := 0
	return func() (backend.Discovery, bool) {
		if i >= len(items) {
			return backend.Discovery{}, false
		}
		item := items[i]
		i++
		return backend.Discovery{Raw: item, Meta: metaFor(item, "")}, true
	}, nil
}

// GetValueBinStr returns sig's current effective value.
func (b *Backend) GetValueBinStr(sig backend.RawObject) (string, error) {
	s, ok := sig.(*kernel.Signal)
	if !ok {
		return "", gpierr.New(gpierr.WrongKind, "not a signal")
	}
	return s.BinStr(), nil
}

// SetValue applies repr to sig under the given persistence action.
func (b *Backend) SetValue(sig backend.RawObject, repr string, action backend.SetAction) error {
	s, ok := sig.(*kernel.Signal)
	if !ok {
		return gpierr.New(gpierr.WrongKind, "not a signal")
	}
	switch action {
	case backend.DepositInertial:
		return s.SetInertial(repr)
	case backend.DepositNoDelay:
		return s.SetNoDelay(repr)
	case backend.Force:
		return s.Force(repr)
	case backend.Release:
		s.Release()
		return nil
	default:
		return gpierr.New(gpierr.InternalError, "unknown set action")
	}
}

// GetSimTime returns the design's current step as (high, low) words.
func (b *Backend) GetSimTime() (high, low uint32) {
	step := b.design.Step()
	return uint32(step >> 32), uint32(step)
}

// GetSimPrecision returns the design's time-step exponent.
func (b *Backend) GetSimPrecision() int { return b.design.Precision() }

// RegisterTimed schedules cb to fire once at the beginning-of-time-step
// that is intervalSteps ahead.
func (b *Backend) RegisterTimed(intervalSteps uint64, cb *handle.Callback) (backend.Cookie, error) {
	id := b.design.ScheduleBeginStep(intervalSteps, func() { dispatchOneShot(b, cb) })
	return id, nil
}

// RegisterNextTimeStep schedules cb to fire once at the very next
// beginning-of-time-step.
func (b *Backend) RegisterNextTimeStep(cb *handle.Callback) (backend.Cookie, error) {
	id := b.design.ScheduleBeginStep(1, func() { dispatchOneShot(b, cb) })
	return id, nil
}

// RegisterReadOnly schedules cb to fire once at the next end-of-time-step.
func (b *Backend) RegisterReadOnly(cb *handle.Callback) (backend.Cookie, error) {
	id := b.design.ScheduleReadOnly(func() { dispatchOneShot(b, cb) })
	return id, nil
}

// RegisterReadWrite schedules cb to fire once at the next values-settle
// point.
func (b *Backend) RegisterReadWrite(cb *handle.Callback) (backend.Cookie, error) {
	id := b.design.ScheduleReadWrite(func() { dispatchOneShot(b, cb) })
	return id, nil
}

// RegisterValueChange arms cb to fire on every tick where sig's value
// matches edge, until Deregister cancels it.
func (b *Backend) RegisterValueChange(sig backend.RawObject, edge handle.EdgeKind, cb *handle.Callback) (backend.Cookie, error) {
	s, ok := sig.(*kernel.Signal)
	if !ok {
		return nil, gpierr.New(gpierr.WrongKind, "not a signal")
	}
	id := b.design.ArmValueChange(s, func() {
		if !cb.Alive() {
			return
		}
		if !edgeMatches(s, edge) {
			return
		}
		_ = cb.FireEnter()
		cb.Fn(cb.Data)
		cb.FireExit()
	})
	return id, nil
}

func edgeMatches(s *kernel.Signal, edge handle.EdgeKind) bool {
	if edge == handle.EdgeAny {
		return true
	}
	bits := s.BinStr()
	if len(bits) != 1 {
		return true
	}
	switch edge {
	case handle.EdgeRising:
		return bits == "1"
	case handle.EdgeFalling:
		return bits == "0"
	default:
		return true
	}
}

func dispatchOneShot(b *Backend, cb *handle.Callback) {
	if !cb.Alive() {
		return
	}
	_ = cb.FireEnter()
	cb.Fn(cb.Data)
	cb.FireExit()
}

// Deregister cancels a pending registration. One-shot kinds are already
// checked for liveness at fire time by dispatchOneShot, so only the
// recurring value-change kind needs an explicit cancel here.
func (b *Backend) Deregister(kind handle.CallbackKind, cookie backend.Cookie) error {
	if kind != handle.CallbackValueChange {
		return nil
	}
	id, ok := cookie.(uint64)
	if !ok {
		return gpierr.New(gpierr.InternalError, "malformed cookie")
	}
	b.design.CancelValueChange(id)
	return nil
}

// SimEnd ends the simulation. simkernel has no separate simulator process
// to notify; the engine simply stops being ticked by its driver.
func (b *Backend) SimEnd() error {
	return nil
}
