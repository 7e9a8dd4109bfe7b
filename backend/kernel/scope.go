package kernel

import "github.com/sarchlab/gogpi/handle"

// Scope is one node in the design's hierarchy tree: a module, generate
// block, or package, owning an ordered set of child scopes and signals.
type Scope struct {
	name   string
	kind   handle.Kind
	parent *Scope

	children []*Scope
	signals  []*Signal
}

// NewScope creates a detached scope. Attach it to a parent with AddScope.
func NewScope(name string, kind handle.Kind) *Scope {
	return &Scope{name: name, kind: kind}
}

// Name returns the scope's short name.
func (s *Scope) Name() string { return s.name }

// Kind returns the scope's abstract kind.
func (s *Scope) Kind() handle.Kind { return s.kind }

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// FullName renders the dotted path from the design root to this scope,
// independent of any backend's dialect; backends re-render it in their own
// style via resolver.Style.
func (s *Scope) FullName() string {
	if s.parent == nil {
		return s.name
	}
	parent := s.parent.FullName()
	if parent == "" {
		return s.name
	}
	return parent + "." + s.name
}

// AddScope attaches child as a new child scope of s, in declaration order.
func (s *Scope) AddScope(child *Scope) *Scope {
	child.parent = s
	s.children = append(s.children, child)
	return child
}

// AddSignal attaches sig as a new signal of s, in declaration order.
func (s *Scope) AddSignal(sig *Signal) *Signal {
	s.signals = append(s.signals, sig)
	return sig
}

// Scopes returns the child scopes in declaration order.
func (s *Scope) Scopes() []*Scope { return s.children }

// Signals returns the owned signals in declaration order.
func (s *Scope) Signals() []*Signal { return s.signals }

// ChildByName looks up an immediate child scope or signal by short name,
// scopes taking precedence over signals on a name collision.
func (s *Scope) ChildByName(name string) (any, bool) {
	for _, c := range s.children {
		if c.name == name {
			return c, true
		}
	}
	for _, sig := range s.signals {
		if sig.name == name {
			return sig, true
		}
	}
	return nil, false
}

// ChildByIndex looks up a child by declaration-order index, scopes first
// then signals, the way a backend renders an iteration cursor back to a
// concrete position.
func (s *Scope) ChildByIndex(i int) (any, bool) {
	if i < 0 {
		return nil, false
	}
	if i < len(s.children) {
		return s.children[i], true
	}
	i -= len(s.children)
	if i < len(s.signals) {
		return s.signals[i], true
	}
	return nil, false
}

// AllSignals collects every signal in the subtree rooted at s, used by the
// evaluator to build its flat settle list.
func (s *Scope) AllSignals() []*Signal {
	out := append([]*Signal(nil), s.signals...)
	for _, c := range s.children {
		out = append(out, c.AllSignals()...)
	}
	return out
}
