package kernel

import (
	"testing"

	"github.com/sarchlab/gogpi/handle"
)

func TestSignalForceOverridesUnderlyingValue(t *testing.T) {
	s := NewSignal("a", 4, 0, false, "0000")
	if err := s.SetNoDelay("0101"); err != nil {
		t.Fatalf("SetNoDelay: %v", err)
	}
	if err := s.Force("1111"); err != nil {
		t.Fatalf("Force: %v", err)
	}
	if s.BinStr() != "1111" {
		t.Fatalf("BinStr = %s, want forced value", s.BinStr())
	}
	s.Release()
	if s.BinStr() != "0101" {
		t.Fatalf("BinStr after release = %s, want underlying value", s.BinStr())
	}
}

func TestSignalConstRejectsWrites(t *testing.T) {
	s := NewSignal("c", 1, 0, true, "1")
	if err := s.SetNoDelay("0"); err == nil {
		t.Fatalf("expected error writing to const signal")
	}
	if err := s.SetInertial("0"); err == nil {
		t.Fatalf("expected error staging inertial write to const signal")
	}
}

func TestScopeChildLookupByNameAndIndex(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	child := root.AddScope(NewScope("inner", handle.ScopeKind))
	sig := root.AddSignal(NewSignal("x", 1, 0, false, ""))

	if got, ok := root.ChildByName("inner"); !ok || got != child {
		t.Fatalf("ChildByName(inner) failed")
	}
	if got, ok := root.ChildByName("x"); !ok || got != sig {
		t.Fatalf("ChildByName(x) failed")
	}
	if _, ok := root.ChildByName("missing"); ok {
		t.Fatalf("expected miss for unknown name")
	}

	if got, ok := root.ChildByIndex(0); !ok || got != child {
		t.Fatalf("ChildByIndex(0) should be the scope")
	}
	if got, ok := root.ChildByIndex(1); !ok || got != sig {
		t.Fatalf("ChildByIndex(1) should be the signal")
	}
}

func TestScopeFullNameJoinsAncestorChain(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	mid := root.AddScope(NewScope("mid", handle.ScopeKind))
	leaf := mid.AddScope(NewScope("leaf", handle.ScopeKind))

	if leaf.FullName() != "top.mid.leaf" {
		t.Fatalf("FullName = %s", leaf.FullName())
	}
}

func TestAllSignalsCollectsWholeSubtree(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	root.AddSignal(NewSignal("a", 1, 0, false, ""))
	child := root.AddScope(NewScope("child", handle.ScopeKind))
	child.AddSignal(NewSignal("b", 1, 0, false, ""))

	all := root.AllSignals()
	if len(all) != 2 {
		t.Fatalf("AllSignals returned %d signals, want 2", len(all))
	}
}
