// Package resolver provides the name/type helpers (NTR) every backend
// uses to render paths in its own dialect, escape identifiers that are
// not bare names in that dialect, and classify native type codes into the
// abstract taxonomy of handle.Kind.
package resolver

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sarchlab/gogpi/handle"
)

var titleCaser = cases.Title(language.English)

// ToTitleCase title-cases s (e.g. "north" -> "North"), the way a backend
// normalizes a direction or phase token before it is logged.
func ToTitleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// Style describes one backend dialect's path-rendering convention.
type Style struct {
	// Separator joins a parent path and a child's short name.
	Separator string
	// IndexOpen/IndexClose bracket an array index; VPI uses "[" "]", FLI
	// uses "(" ")" style addressing handled by its own backend.
	IndexOpen, IndexClose string
}

// VPIStyle is Verilog VPI's dotted-path-with-brackets convention.
var VPIStyle = Style{Separator: ".", IndexOpen: "[", IndexClose: "]"}

// VHPIStyle is VHPI's colon-and-parens convention.
var VHPIStyle = Style{Separator: ":", IndexOpen: "(", IndexClose: ")"}

// FLIStyle is Mentor FLI's slash-path convention.
var FLIStyle = Style{Separator: "/", IndexOpen: "(", IndexClose: ")"}

// Join renders a child's full name given its parent's full name and its
// own short name, in the given style.
func (s Style) Join(parentFullName, childName string) string {
	if parentFullName == "" {
		return childName
	}
	return parentFullName + s.Separator + childName
}

// IndexedName renders a child's full name when addressed by index rather
// than by declared name.
func (s Style) IndexedName(parentFullName string, index int) string {
	return parentFullName + s.IndexOpen + strconv.Itoa(index) + s.IndexClose
}

// Escape escapes an identifier that is not a valid bare name in this
// dialect (contains the separator, starts with a digit, or is empty) by
// wrapping it the way VHDL-style tools wrap extended identifiers:
// backslash-delimited. Backends that have no escape convention of their
// own (VPI, FLI) still use this as a last resort so that GetByName never
// silently mangles a name it cannot render faithfully.
func (s Style) Escape(name string) string {
	if name == "" {
		return "\\\\"
	}
	needsEscape := strings.ContainsAny(name, s.Separator+s.IndexOpen+s.IndexClose+" ")
	if !needsEscape {
		if c := name[0]; c >= '0' && c <= '9' {
			needsEscape = true
		}
	}
	if !needsEscape {
		return name
	}
	return "\\" + name + "\\"
}

// TypeMap maps a backend's native type codes (its own int constants) to
// the abstract taxonomy. Unknown codes log once, at debug level, and
// classify as handle.UnknownKind.
type TypeMap struct {
	name    string
	mu      sync.Mutex
	table   map[int]handle.Kind
	warned  map[int]bool
}

// NewTypeMap creates a TypeMap for a backend named name (used only in the
// one-time debug log line for unmapped codes).
func NewTypeMap(name string, table map[int]handle.Kind) *TypeMap {
	return &TypeMap{
		name:   name,
		table:  table,
		warned: make(map[int]bool),
	}
}

// Classify returns the abstract kind for a native code, logging the first
// time an unrecognized code is seen.
func (t *TypeMap) Classify(nativeCode int) handle.Kind {
	if k, ok := t.table[nativeCode]; ok {
		return k
	}

	t.mu.Lock()
	first := !t.warned[nativeCode]
	t.warned[nativeCode] = true
	t.mu.Unlock()

	if first {
		slog.Debug("unrecognized native type code",
			"backend", t.name, "code", nativeCode)
	}
	return handle.UnknownKind
}
