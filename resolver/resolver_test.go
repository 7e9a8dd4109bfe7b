package resolver

import (
	"testing"

	"github.com/sarchlab/gogpi/handle"
)

func TestStyleJoinAndIndexedName(t *testing.T) {
	if got := VPIStyle.Join("top", "bus"); got != "top.bus" {
		t.Fatalf("VPI Join = %q", got)
	}
	if got := VHPIStyle.Join("top", "bus"); got != "top:bus" {
		t.Fatalf("VHPI Join = %q", got)
	}
	if got := FLIStyle.IndexedName("bus", 3); got != "bus(3)" {
		t.Fatalf("FLI IndexedName = %q", got)
	}
	if got := VPIStyle.IndexedName("bus", 3); got != "bus[3]" {
		t.Fatalf("VPI IndexedName = %q", got)
	}
	if got := VPIStyle.Join("", "top"); got != "top" {
		t.Fatalf("Join with empty parent = %q", got)
	}
}

func TestStyleEscape(t *testing.T) {
	if VHPIStyle.Escape("plain") != "plain" {
		t.Fatalf("plain identifier should not be escaped")
	}
	if got := VHPIStyle.Escape("has:colon"); got != "\\has:colon\\" {
		t.Fatalf("Escape(has:colon) = %q", got)
	}
	if got := VHPIStyle.Escape("9lives"); got != "\\9lives\\" {
		t.Fatalf("Escape(9lives) = %q", got)
	}
	if got := VHPIStyle.Escape(""); got != "\\\\" {
		t.Fatalf("Escape(\"\") = %q", got)
	}
}

func TestTypeMapClassifiesKnownAndUnknownCodes(t *testing.T) {
	tm := NewTypeMap("test", map[int]handle.Kind{1: handle.ScopeKind})

	if got := tm.Classify(1); got != handle.ScopeKind {
		t.Fatalf("Classify(1) = %v, want ScopeKind", got)
	}
	if got := tm.Classify(999); got != handle.UnknownKind {
		t.Fatalf("Classify(999) = %v, want UnknownKind", got)
	}
	// classifying the same unknown code twice must not panic or deadlock
	if got := tm.Classify(999); got != handle.UnknownKind {
		t.Fatalf("repeat Classify(999) = %v, want UnknownKind", got)
	}
}

func TestToTitleCase(t *testing.T) {
	if got := ToTitleCase("NORTH"); got != "North" {
		t.Fatalf("ToTitleCase(NORTH) = %q", got)
	}
}
