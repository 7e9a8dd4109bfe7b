package kernel

import (
	"strconv"
	"testing"

	"github.com/sarchlab/gogpi/handle"
)

func TestLintFlagsDuplicateSiblingNames(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	root.AddScope(NewScope("dup", handle.ScopeKind))
	root.AddScope(NewScope("dup", handle.ScopeKind))

	issues := Lint(root)
	if len(issues) == 0 {
		t.Fatalf("expected a duplicate-name issue")
	}
}

func TestLintFlagsZeroWidthSignal(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	root.AddSignal(NewSignal("bad", 0, handle.ScalarKind, false, ""))

	issues := Lint(root)
	if len(issues) == 0 {
		t.Fatalf("expected a zero-width issue")
	}
}

func TestLintCleanTreeHasNoIssues(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	root.AddSignal(NewSignal("ok", 1, handle.ScalarKind, false, ""))

	if issues := Lint(root); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestRegisterFileNaming(t *testing.T) {
	root := NewScope("top", handle.ScopeKind)
	RegisterFile(root, 4, 32)

	for i := 0; i < 4; i++ {
		name := "$" + strconv.Itoa(i)
		if _, ok := root.ChildByName(name); !ok {
			t.Fatalf("missing register %s", name)
		}
	}
}
