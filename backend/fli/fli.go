// Package fli is the Mentor FLI procedural-interface backend: it renders
// simkernel's scope tree in FLI's slash-path convention and classifies
// discoveries through a synthetic table of mti_*Kind codes.
package fli

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/handle"
	"github.com/sarchlab/gogpi/resolver"
)

// Native mti_*Kind codes, a small synthetic subset.
const (
	mtiRegionKind = 1
	mtiSignalKind = 2
	mtiVarKind    = 3
	mtiParamKind  = 4
)

var typeMap = resolver.NewTypeMap("fli", map[int]handle.Kind{
	mtiRegionKind: handle.ScopeKind,
	mtiSignalKind: handle.ScalarKind,
	mtiVarKind:    handle.IntegerKind,
	mtiParamKind:  handle.ParameterKind,
})

func nativeCodeFor(meta handle.ObjectMeta) int {
	switch {
	case meta.Kind == handle.ScopeKind:
		return mtiRegionKind
	case meta.Const:
		return mtiParamKind
	case meta.ElementKind == handle.IntegerKind:
		return mtiVarKind
	default:
		return mtiSignalKind
	}
}

func reclassify(d backend.Discovery) backend.Discovery {
	d.Meta.Kind = typeMap.Classify(nativeCodeFor(d.Meta))
	return d
}

// Backend is the FLI-dialect wrapper over a simkernel.Backend.
type Backend struct {
	*simkernel.Backend
}

// New creates an FLI backend over design.
func New(design *kernel.Design) *Backend {
	return &Backend{Backend: simkernel.NewWithStyle(design, resolver.FLIStyle)}
}

// Name identifies this backend.
func (b *Backend) Name() string { return "fli" }

// GetRoot returns the design's top scope, reclassified through the FLI
// native type table.
func (b *Backend) GetRoot(name string) (backend.Discovery, bool, error) {
	d, ok, err := b.Backend.GetRoot(name)
	if err != nil || !ok {
		return d, ok, err
	}
	return reclassify(d), true, nil
}

// GetByName looks up a named child, reclassified through the FLI native
// type table.
func (b *Backend) GetByName(parent backend.RawObject, name string) (backend.Discovery, error) {
	d, err := b.Backend.GetByName(parent, name)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// GetByIndex looks up a child by index, reclassified through the FLI
// native type table.
func (b *Backend) GetByIndex(parent backend.RawObject, i int) (backend.Discovery, error) {
	d, err := b.Backend.GetByIndex(parent, i)
	if err != nil {
		return d, err
	}
	return reclassify(d), nil
}

// Iterate returns a cursor over parent's children, each reclassified
// through the FLI native type table.
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
