// Package kernel implements a synthetic, in-process design under test: a
// scope tree of nets and a tick-driven evaluator that realizes the four
// abstract simulation phases every GPI backend observes. It gives the
// simkernel, vpi, vhpi, and fli backends a real object graph to discover,
// read, write, and schedule callbacks against, without requiring a linked
// vendor simulator.
package kernel

import (
	"strings"

	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// nineState is the set of characters a Signal's bit string may use, the
// same alphabet VPI/VHPI/FLI all reduce to at the wire: 0, 1, X, Z plus the
// five strength/unknown states less commonly driven by test code.
const nineState = "01xzXZUWLH-"

func validBinStr(s string, width int) error {
	if len(s) != width {
		return gpierr.New(gpierr.WrongKind, "value width mismatch")
	}
	for _, c := range s {
		if !strings.ContainsRune(nineState, c) {
			return gpierr.New(gpierr.WrongKind, "invalid bit character")
		}
	}
	return nil
}

// Signal is one leaf net in the design: a named, fixed-width, 9-state value
// that the evaluator settles once per tick and that test code or other
// signals can deposit into, force, or release.
type Signal struct {
	name      string
	width     int
	elemKind  handle.Kind
	constFlag bool

	value  string
	last   string // snapshot as of the previous settle, for edge detection
	forced bool
	forceV string

	pendingInertial *string
}

// NewSignal creates a signal of the given width, initialized to all-X
// unless init is given (and valid).
func NewSignal(name string, width int, elemKind handle.Kind, constFlag bool, init string) *Signal {
	v := strings.Repeat("X", width)
	if init != "" && validBinStr(init, width) == nil {
		v = init
	}
	return &Signal{
		name: name, width: width, elemKind: elemKind, constFlag: constFlag,
		value: v, last: v,
	}
}

// Name returns the signal's short (unqualified) name.
func (s *Signal) Name() string { return s.name }

// Width reports the signal's bit width.
func (s *Signal) Width() int { return s.width }

// ElemKind reports the abstract element kind (IntegerKind, LogicKind, ...).
func (s *Signal) ElemKind() handle.Kind { return s.elemKind }

// Const reports whether the signal is a constant (never settles a new
// value once initialized).
func (s *Signal) Const() bool { return s.constFlag }

// BinStr returns the signal's current effective value: the forced value
// while forced, otherwise the last-settled value.
func (s *Signal) BinStr() string {
	if s.forced {
		return s.forceV
	}
	return s.value
}

// SetNoDelay deposits repr immediately, bypassing the inertial queue. Used
// for GPI_DEPOSIT with no-delay semantics and for test-harness priming
// before the first tick.
func (s *Signal) SetNoDelay(repr string) error {
	if s.constFlag {
		return gpierr.New(gpierr.NotWritable, "signal is const")
	}
	if err := validBinStr(repr, s.width); err != nil {
		return err
	}
	s.value = repr
	return nil
}

// SetInertial stages repr to take effect at the next values-settle phase,
// the ordinary GPI_DEPOSIT persistence mode.
func (s *Signal) SetInertial(repr string) error {
	if s.constFlag {
		return gpierr.New(gpierr.NotWritable, "signal is const")
	}
	if err := validBinStr(repr, s.width); err != nil {
		return err
	}
	s.pendingInertial = &repr
	return nil
}

// Force overrides the signal's effective value until Release, without
// disturbing the underlying deposited value.
func (s *Signal) Force(repr string) error {
	if err := validBinStr(repr, s.width); err != nil {
		return err
	}
	s.forced = true
	s.forceV = repr
	return nil
}

// Release clears a Force, reverting to the underlying deposited value.
func (s *Signal) Release() {
	s.forced = false
	s.forceV = ""
}

// settle applies any pending inertial deposit and reports whether the
// signal's effective value changed since the last settle.
func (s *Signal) settle() bool {
	if s.pendingInertial != nil {
		s.value = *s.pendingInertial
		s.pendingInertial = nil
	}
	changed := s.BinStr() != s.last
	s.last = s.BinStr()
	return changed
}
