package kernel

import (
	"testing"

	"github.com/sarchlab/gogpi/handle"
)

func TestConstGenAlwaysReturnsTheSameValue(t *testing.T) {
	gen := ConstGen(7)
	if gen() != 7 || gen() != 7 {
		t.Fatalf("ConstGen did not hold steady at 7")
	}
}

func TestIncreasingGenCountsUpFromStart(t *testing.T) {
	gen := IncreasingGen(10)
	if got := gen(); got != 10 {
		t.Fatalf("first value = %d, want 10", got)
	}
	if got := gen(); got != 11 {
		t.Fatalf("second value = %d, want 11", got)
	}
}

func TestRegisterFileWithGenInitializesEachSignal(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	RegisterFileWithGen(root, 3, 8, IncreasingGen(0))

	sigs := root.Signals()
	if len(sigs) != 3 {
		t.Fatalf("got %d signals, want 3", len(sigs))
	}
	if sigs[1].BinStr() != "00000001" {
		t.Fatalf("$1 = %s, want 00000001", sigs[1].BinStr())
	}
}
