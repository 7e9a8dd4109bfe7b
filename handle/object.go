// Package handle defines the object-handle and callback-handle models (OHM
// and CHM) shared by every backend: the tagged variant that replaces the
// distilled spec's polymorphic handle hierarchy, and the explicit callback
// lifecycle state machine. Neither type owns an arena or talks to a
// backend directly — the façade package (gpi) is the sole owner of
// instances of these types.
package handle

import (
	"fmt"

	"github.com/sarchlab/gogpi/gpierr"
)

// Kind is the abstract object type taxonomy every backend must map its
// native type codes onto.
type Kind int

const (
	// ScopeKind is a hierarchical scope (module/entity/architecture/package).
	ScopeKind Kind = iota
	// ArrayKind is an indexable array-of-signals.
	ArrayKind
	// VectorKind is a logic/bit vector with declared bounds and direction.
	VectorKind
	// ScalarKind is a scalar logic/bit value.
	ScalarKind
	// IntegerKind is a scalar integer value.
	IntegerKind
	// RealKind is a scalar real value.
	RealKind
	// StringKind is a scalar string value.
	StringKind
	// EnumKind is a scalar enumeration value.
	EnumKind
	// BooleanKind is a scalar boolean value.
	BooleanKind
	// GenerateKind is a generate-loop instance, iterated as an array of scopes.
	GenerateKind
	// ParameterKind is a parameter/generic/constant; const-ness is carried
	// separately in ObjectMeta.Const.
	ParameterKind
	// UnknownKind is a terminal kind that is never iterated.
	UnknownKind
)

var kindNames = [...]string{
	"scope", "array", "vector", "scalar", "integer", "real",
	"string", "enum", "boolean", "generate", "parameter", "unknown",
}

// String returns the human-readable type label used by TypeStr.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Direction is the declared direction of an indexable object's range.
type Direction int

const (
	// DirNone applies to non-indexable objects.
	DirNone Direction = iota
	// DirTo is an ascending range (left to right).
	DirTo
	// DirDownto is a descending range (left downto right).
	DirDownto
)

func (d Direction) String() string {
	switch d {
	case DirTo:
		return "to"
	case DirDownto:
		return "downto"
	default:
		return "none"
	}
}

// ObjectMeta is the immutable metadata captured once, at discovery time,
// for every ObjectHandle. It is safe to copy and safe to read without
// touching the owning backend.
type ObjectMeta struct {
	Kind      Kind
	Name      string
	FullName  string
	Indexable bool
	Length    int
	Left      int
	Right     int
	Dir       Direction
	Const     bool
	// ElementKind and ElementWidth are only meaningful when this meta
	// describes a SignalHandle's storage element.
	ElementKind  Kind
	ElementWidth int
}

// Validate checks the consistency invariants from the data model: a
// handle's length/range/indexable fields must agree, and is meant to be
// called once, when a backend constructs the metadata for a freshly
// discovered object.
func (m ObjectMeta) Validate() error {
	if !m.Indexable {
		return nil
	}
	if m.Length < 0 {
		return gpierr.New(gpierr.InternalError,
			fmt.Sprintf("indexable object %q has negative length", m.FullName))
	}
	if m.Dir != DirNone {
		want := m.Left - m.Right
		if want < 0 {
			want = -want
		}
		want++
		if want != m.Length {
			return gpierr.New(gpierr.InternalError,
				fmt.Sprintf("object %q length %d inconsistent with bounds [%d:%d]",
					m.FullName, m.Length, m.Left, m.Right))
		}
	}
	return nil
}

// ObjectHandle is a typed, named view of one object discovered in the
// design hierarchy. It carries enough cached metadata to answer Name,
// FullName, TypeStr, and the range accessors in constant time, without a
// round trip through an arena or a backend. ID and BackendID together are
// the identity the façade uses to route further operations and to compare
// handles by identity rather than by path.
type ObjectHandle struct {
	ID        uint64
	BackendID int
	Meta      ObjectMeta
}

// Name returns the object's short (unqualified) name.
func (h ObjectHandle) Name() string { return h.Meta.Name }

// FullName returns the object's fully qualified path, in the owning
// backend's external name form.
func (h ObjectHandle) FullName() string { return h.Meta.FullName }

// TypeStr returns a human-readable label for the handle's abstract kind.
func (h ObjectHandle) TypeStr() string {
	if m := h.Meta.Const; m {
		return "const " + h.Meta.Kind.String()
	}
	return h.Meta.Kind.String()
}

// IsIndexable reports whether Length/Left/Right/Direction are meaningful.
func (h ObjectHandle) IsIndexable() bool { return h.Meta.Indexable }

// Length returns the element count of an indexable handle.
func (h ObjectHandle) Length() (int, error) {
	if !h.Meta.Indexable {
		return 0, gpierr.New(gpierr.WrongKind,
			fmt.Sprintf("%q is not indexable", h.Meta.FullName))
	}
	return h.Meta.Length, nil
}

// Left returns the declared left bound of an indexable handle.
func (h ObjectHandle) Left() (int, error) {
	if !h.Meta.Indexable {
		return 0, gpierr.New(gpierr.WrongKind,
			fmt.Sprintf("%q is not indexable", h.Meta.FullName))
	}
	return h.Meta.Left, nil
}

// Right returns the declared right bound of an indexable handle.
func (h ObjectHandle) Right() (int, error) {
	if !h.Meta.Indexable {
		return 0, gpierr.New(gpierr.WrongKind,
			fmt.Sprintf("%q is not indexable", h.Meta.FullName))
	}
	return h.Meta.Right, nil
}

// RangeDirection returns the declared direction of an indexable handle.
func (h ObjectHandle) RangeDirection() (Direction, error) {
	if !h.Meta.Indexable {
		return DirNone, gpierr.New(gpierr.WrongKind,
			fmt.Sprintf("%q is not indexable", h.Meta.FullName))
	}
	return h.Meta.Dir, nil
}

// IsConst reports whether writes to this handle must fail with NotWritable.
func (h ObjectHandle) IsConst() bool { return h.Meta.Const }

// SignalHandle specializes ObjectHandle with the element width/type of a
// value that can be read, and optionally written.
type SignalHandle struct {
	ObjectHandle
}

// ElementWidth returns the bit width of one element of the signal's value.
func (s SignalHandle) ElementWidth() int { return s.Meta.ElementWidth }

// ElementKind returns the abstract kind of one element of the signal's value.
func (s SignalHandle) ElementKind() Kind { return s.Meta.ElementKind }
