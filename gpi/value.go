package gpi

import (
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// GetValueBinStr returns sig's current value as a bit string, one
// character per element, in the 9-state alphabet.
func (f *Facade) GetValueBinStr(sig handle.SignalHandle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ref, err := f.lookupRef(sig.ObjectHandle)
	if err != nil {
		return "", err
	}
	b, err := f.registry.ByID(sig.BackendID)
	if err != nil {
		return "", err
	}
	return b.GetValueBinStr(ref.raw)
}

// GetValueLong interprets sig's value as an unsigned binary integer. It
// fails with WrongKind on a handle that is not scalar-integer.
func (f *Facade) GetValueLong(sig handle.SignalHandle) (int64, error) {
	if sig.Meta.ElementKind != handle.IntegerKind && sig.Meta.Kind != handle.IntegerKind {
		return 0, gpierr.New(gpierr.WrongKind, "GetValueLong on a non-integer handle")
	}
	bits, err := f.GetValueBinStr(sig)
	if err != nil {
		return 0, err
	}
	if strings.ContainsAny(bits, "XZUWLH-") {
		return 0, gpierr.New(gpierr.WrongKind, "value has non-0/1 bits, cannot render as an integer")
	}
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, gpierr.Wrap(gpierr.InternalError, "malformed binary value", err)
	}
	return int64(v), nil
}

// GetValueReal interprets sig's 64-bit value as an IEEE-754 double. It
// fails with WrongKind on any handle that is not a 64-bit real.
func (f *Facade) GetValueReal(sig handle.SignalHandle) (float64, error) {
	if sig.Meta.ElementKind != handle.RealKind && sig.Meta.Kind != handle.RealKind {
		return 0, gpierr.New(gpierr.WrongKind, "GetValueReal on a non-real handle")
	}
	if sig.Meta.Length != 64 {
		return 0, gpierr.New(gpierr.WrongKind, "GetValueReal requires a 64-bit handle")
	}
	bits, err := f.GetValueBinStr(sig)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, gpierr.Wrap(gpierr.InternalError, "malformed binary value", err)
	}
	return math.Float64frombits(v), nil
}

// GetValueStr interprets sig's value as 8-bit-per-character ASCII. It
// fails with WrongKind on a handle that is not string-kind.
func (f *Facade) GetValueStr(sig handle.SignalHandle) (string, error) {
	if sig.Meta.ElementKind != handle.StringKind && sig.Meta.Kind != handle.StringKind {
		return "", gpierr.New(gpierr.WrongKind, "GetValueStr on a non-string handle")
	}
	bits, err := f.GetValueBinStr(sig)
	if err != nil {
		return "", err
	}
	if len(bits)%8 != 0 {
		return "", gpierr.New(gpierr.InternalError, "string value width is not a multiple of 8")
	}
	var sb strings.Builder
	for i := 0; i < len(bits); i += 8 {
		v, err := strconv.ParseUint(bits[i:i+8], 2, 8)
		if err != nil {
			return "", gpierr.Wrap(gpierr.InternalError, "malformed binary value", err)
		}
		sb.WriteByte(byte(v))
	}
	return sb.String(), nil
}

// SetValue applies repr to sig under the given persistence action. Writes
// to a const handle always fail with NotWritable, checked here so every
// backend gets this guarantee for free.
func (f *Facade) SetValue(sig handle.SignalHandle, repr string, action backend.SetAction) error {
	if sig.Meta.Const {
		return gpierr.New(gpierr.NotWritable, "handle is const")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ref, err := f.lookupRef(sig.ObjectHandle)
	if err != nil {
		return err
	}
	b, err := f.registry.ByID(sig.BackendID)
	if err != nil {
		return err
	}
	return b.SetValue(ref.raw, repr, action)
}
