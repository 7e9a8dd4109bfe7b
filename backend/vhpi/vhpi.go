// Package vhpi is the VHDL procedural-interface backend: it renders
// simkernel's scope tree in VHPI's colon-and-parentheses convention and
// classifies discoveries through a synthetic table of vhpiClassKindT
// codes.
package vhpi

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/handle"
	"github.com/sarchlab/gogpi/resolver"
)

// Native vhpiClassKindT codes, a small synthetic subset.
const (
	vhpiEntityDecl = 13
	vhpiSigDecl    = 45
	vhpiVarDecl    = 55
	vhpiConstDecl  = 19
)

var typeMap = resolver.NewTypeMap("vhpi", map[int]handle.Kind{
	vhpiEntityDecl: handle.ScopeKind,
	vhpiSigDecl:    handle.ScalarKind,
	vhpiVarDecl:    handle.IntegerKind,
	vhpiConstDecl:  handle.ParameterKind,
})

func nativeCodeFor(meta handle.ObjectMeta) int {
	switch {
	case meta.Kind == handle.ScopeKind:
		return vhpiEntityDecl
	case meta.Const:
		return vhpiConstDecl
	case meta.ElementKind == handle.IntegerKind:
		return vhpiVarDecl
	default:
		return vhpiSigDecl
	}
}

func reclassify(d backend.Discovery) backend.Discovery {
	d.Meta.Kind = typeMap.Classify(nativeCodeFor(d.Meta))
	return d
}

// Backend is the VHPI-dialect wrapper over a simkernel.Backend.
type Backend struct {
	*simkernel.Backend
}

// New creates a VHPI backend over design.
func New(design *kernel.Design) *Backend {
	return &Backend{Backend: simkernel.NewWithStyle(design, resolver.VHPIStyle)}
}

// Name identifies this backend.
func (b *Backend) Name() string { return "vhpi" }

// GetRoot returns the design's top scope, reclassified through the VHPI
// native type table.
func (b *Backend) GetRoot(name string) (backend.Discovery, bool, error) {
	d, ok, err := b.Backend.GetRoot(name)
	if err != nil || !ok {
		return d, ok, err
	}
	return reclassify(d), true, nil
}

// GetByName looks up a named child, reclassified through the VHPI native
// type table.
func (b *Backend) GetByName(parent backend.RawObject, name string) (backend.Discovery, error) {
	d, err := b.Backend.GetByName(parent, name)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// GetByIndex looks up a child by index, reclassified through the VHPI
// native type table.
func (b *Backend) GetByIndex(parent backend.RawObject, i int) (backend.Discovery, error) {
	d, err := b.Backend.GetByIndex(parent, i)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// Iterate returns a cursor over parent's children, each reclassified
// through the VHPI native type table.
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
