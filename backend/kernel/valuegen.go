package kernel

import (
	"fmt"

	"github.com/sarchlab/gogpi/handle"
)

// ValueGen produces successive initial-value bit strings for a register
// file entry, the same closure-over-state shape the CGRA tooling used for
// constant and auto-incrementing operand generators, retargeted at signal
// initialization instead of instruction operands.
type ValueGen func() int

// ConstGen always yields constant.
func ConstGen(constant int) ValueGen {
	return func() int {
		return constant
	}
}

// IncreasingGen yields start, start+1, start+2, ... on successive calls.
func IncreasingGen(start int) ValueGen {
	current := start - 1
	return func() int {
		current++
		return current
	}
}

// RegisterFileWithGen populates scope with count integer signals named
// "$0".."$N", each initialized from gen's successive values rendered as a
// width-bit binary string.
func RegisterFileWithGen(scope *Scope, count, width int, gen ValueGen) {
	for i := 0; i < count; i++ {
		init := fmt.Sprintf("%0*b", width, uint64(gen()))
		if len(init) > width {
			init = init[len(init)-width:]
		}
		scope.AddSignal(NewSignal(fmt.Sprintf("$%d", i), width, handle.IntegerKind, false, init))
	}
}
