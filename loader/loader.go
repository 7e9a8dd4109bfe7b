// Package loader is the dynamic loader (DL): open a shared library by
// name or path, and resolve a symbol in it. It is the one place in the
// module a real OS call can fail outside the simulator's own control, so
// every failure here comes back as a gpierr.LoadError rather than a
// panic. Native dynamic loading has no third-party presence anywhere in
// this module's dependency corpus, so this package is the one deliberate
// standard-library-only component: it uses plugin, Go's own mechanism for
// this, documented as such rather than silently reached for.
package loader

import (
	"plugin"

	"github.com/sarchlab/gogpi/gpierr"
)

// Library is an opened shared library, wrapping the stdlib plugin handle.
type Library struct {
	path string
	p    *plugin.Plugin
}

// Open loads the shared library at path (a bare name resolved by the
// dynamic linker's search path, or an absolute/relative path).
func Open(path string) (*Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, gpierr.Wrap(gpierr.LoadError, "could not open library "+path, err)
	}
	return &Library{path: path, p: p}, nil
}

// Path returns the path Library was opened from.
func (l *Library) Path() string { return l.path }

// Symbol resolves name in the library, returning it as an opaque any;
// the caller type-asserts it to the expected function or variable type.
func (l *Library) Symbol(name string) (any, error) {
	sym, err := l.p.Lookup(name)
	if err != nil {
		return nil, gpierr.Wrap(gpierr.LoadError, "symbol "+name+" not found in "+l.path, err)
	}
	return sym, nil
}

// EntryPoint resolves name as a niladic function and invokes it. This is
// the shape every well-known entry symbol (e.g. GpiEntryPoint) takes.
func (l *Library) EntryPoint(name string) error {
	sym, err := l.Symbol(name)
	if err != nil {
		return err
	}
	fn, ok := sym.(func())
	if !ok {
		return gpierr.New(gpierr.LoadError, "symbol "+name+" in "+l.path+" is not a niladic function")
	}
	fn()
	return nil
}
