package kernel

import "fmt"

// Issue is one structural problem found by Lint.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Lint walks the design's scope tree and flags structural problems that
// would make later elaboration or name resolution unreliable: duplicate
// sibling names and zero-width signals. It mirrors the structural half of
// the CGRA kernel's static checks, retargeted at a scope/signal tree
// instead of a compiled program.
func Lint(root *Scope) []Issue {
	var issues []Issue
	lintScope(root, &issues)
	return issues
}

func lintScope(s *Scope, issues *[]Issue) {
	seen := make(map[string]bool)

	for _, c := range s.Scopes() {
		if seen[c.name] {
			*issues = append(*issues, Issue{
				Path:    s.FullName(),
				Message: fmt.Sprintf("duplicate child scope name %q", c.name),
			})
		}
		seen[c.name] = true
		lintScope(c, issues)
	}

	for _, sig := range s.Signals() {
		if seen[sig.name] {
			*issues = append(*issues, Issue{
				Path:    s.FullName(),
				Message: fmt.Sprintf("duplicate child name %q", sig.name),
			})
		}
		seen[sig.name] = true
		if sig.width <= 0 {
			*issues = append(*issues, Issue{
				Path:    s.FullName(),
				Message: fmt.Sprintf("signal %q has non-positive width", sig.name),
			})
		}
	}
}
