// Package vpi is the Verilog procedural-interface backend: it renders
// simkernel's scope tree in VPI's dotted-path-with-brackets convention
// and classifies discoveries through a synthetic table of vpiHandle type
// codes, the way a real VPI backend classifies vpi_get(vpiType, ...).
package vpi

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/handle"
	"github.com/sarchlab/gogpi/resolver"
)

// Native vpiHandle type codes, a small synthetic subset of IEEE 1800's
// vpiModule/vpiNet/... constants.
const (
	vpiModule = 32
	vpiNet    = 36
	vpiReg    = 48
	vpiIntVar = 58
	vpiParam  = 41
)

var typeMap = resolver.NewTypeMap("vpi", map[int]handle.Kind{
	vpiModule: handle.ScopeKind,
	vpiNet:    handle.ScalarKind,
	vpiReg:    handle.ScalarKind,
	vpiIntVar: handle.IntegerKind,
	vpiParam:  handle.ParameterKind,
})

func nativeCodeFor(meta handle.ObjectMeta) int {
	switch {
	case meta.Kind == handle.ScopeKind:
		return vpiModule
	case meta.Const:
		return vpiParam
	case meta.ElementKind == handle.IntegerKind:
		return vpiIntVar
	default:
		return vpiNet
	}
}

func reclassify(d backend.Discovery) backend.Discovery {
	d.Meta.Kind = typeMap.Classify(nativeCodeFor(d.Meta))
	return d
}

// Backend is the VPI-dialect wrapper over a simkernel.Backend.
type Backend struct {
	*simkernel.Backend
}

// New creates a VPI backend over design.
func New(design *kernel.Design) *Backend {
	return &Backend{Backend: simkernel.NewWithStyle(design, resolver.VPIStyle)}
}

// Name identifies this backend.
func (b *Backend) Name() string { return "vpi" }

// GetRoot returns the design's top scope, reclassified through the VPI
// native type table.
func (b *Backend) GetRoot(name string) (backend.Discovery, bool, error) {
	d, ok, err := b.Backend.GetRoot(name)
	if err != nil || !ok {
		return d, ok, err
	}
	return reclassify(d), true, nil
}

// GetByName looks up a named child, reclassified through the VPI native
// type table.
func (b *Backend) GetByName(parent backend.RawObject, name string) (backend.Discovery, error) {
	d, err := b.Backend.GetByName(parent, name)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// GetByIndex looks up a child by index, reclassified through the VPI
// native type table.
func (b *Backend) GetByIndex(parent backend.RawObject, i int) (backend.Discovery, error) {
	d, err := b.Backend.GetByIndex(parent, i)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// Iterate returns a cursor over parent's children, each reclassified
// through the VPI native type table.
func (b *Backend) Iterate(parent backend.RawObject, sel backend.Selector) (func() (backend.Discovery, bool), error) {
	next, err := b.Backend.Iterate(parent, sel)
	if err != nil {
		return nil, err
	}
	return func() (backend.Discovery, bool) {
		d, ok := next()
		if !ok {
			return d, false
		}
		return reclassify(d), true
	}, nil
}
