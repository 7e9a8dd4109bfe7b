package gpi

import (
	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// GetRootHandle tries each registered backend in registration order and
// returns the first top scope it offers, preferring one whose backend
// recognizes name if name is non-empty.
func (f *Facade) GetRootHandle(name string) (handle.ObjectHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.registry.List() {
		key := nameKey{backendID: b.ID(), parentID: 0, name: "$root:" + name}
		if id, ok := f.byName[key]; ok {
			if ref, ok := f.objects[id]; ok {
				return handle.ObjectHandle{ID: id, BackendID: ref.backendID, Meta: ref.meta}, nil
			}
		}

		d, ok, err := b.GetRoot(name)
		if err != nil {
			return handle.ObjectHandle{}, err
		}
		if !ok {
			continue
		}
		h := f.mint(b.ID(), d.Raw, d.Meta)
		f.byName[key] = h.ID
		return h, nil
	}

	return handle.ObjectHandle{}, gpierr.New(gpierr.NotFound, "no backend offers a root named "+name)
}

// GetByName looks up a child of parent by short name, routed to parent's
// owning backend. Repeated calls with the same (parent, name) within one
// simulation return the identical handle identity.
func (f *Facade) GetByName(parent handle.ObjectHandle, name string) (handle.ObjectHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentRef, err := f.lookupRef(parent)
	if err != nil {
		return handle.ObjectHandle{}, err
	}

	key := nameKey{backendID: parent.BackendID, parentID: parent.ID, name: name}
	if id, ok := f.byName[key]; ok {
		if ref, ok := f.objects[id]; ok {
			return handle.ObjectHandle{ID: id, BackendID: ref.backendID, Meta: ref.meta}, nil
		}
	}

	b, err := f.registry.ByID(parent.BackendID)
	if err != nil {
		return handle.ObjectHandle{}, err
	}
	d, err := b.GetByName(parentRef.raw, name)
	if err != nil {
		return handle.ObjectHandle{}, err
	}

	h := f.mint(parent.BackendID, d.Raw, d.Meta)
	f.byName[key] = h.ID
	return h, nil
}

// GetByIndex looks up a child of parent by declared-range index. Unlike
// GetByName, no identity cache applies: a fresh handle is minted on every
// call, since index-based lookups carry no stable identity guarantee.
func (f *Facade) GetByIndex(parent handle.ObjectHandle, i int) (handle.ObjectHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentRef, err := f.lookupRef(parent)
	if err != nil {
		return handle.ObjectHandle{}, err
	}

	b, err := f.registry.ByID(parent.BackendID)
	if err != nil {
		return handle.ObjectHandle{}, err
	}
	d, err := b.GetByIndex(parentRef.raw, i)
	if err != nil {
		return handle.ObjectHandle{}, err
	}

	return f.mint(parent.BackendID, d.Raw, d.Meta), nil
}

// Release invalidates h: it is the caller's obligation to call this
// exactly once for every handle GetRootHandle/GetByName/GetByIndex/
// Iterate returned. A second release, or any later use of h, fails with
// InvalidHandle. Releasing an object also deregisters any value-change
// callback still armed on it, the same teardown SimEnd does in bulk for
// every handle at once.
func (f *Facade) Release(h handle.ObjectHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.lookupRef(h); err != nil {
		return err
	}
	delete(f.objects, h.ID)

	for key, id := range f.byName {
		if id == h.ID {
			delete(f.byName, key)
		}
	}

	backends := f.registry.List()
	for id, cb := range f.callbacks {
		if cb.Kind != handle.CallbackValueChange || cb.Signal == nil || cb.Signal.ID != h.ID {
			continue
		}
		cb.Deregister()
		if cookie, ok := f.cookies[id]; ok {
			if b := backendFor(backends, cb); b != nil {
				_ = b.Deregister(cb.Kind, cookie)
			}
		}
		delete(f.callbacks, id)
		delete(f.cookies, id)
	}

	return nil
}

// Iterate returns a cursor over parent's children matching sel. Each
// advance mints a fresh handle.
func (f *Facade) Iterate(parent handle.ObjectHandle, sel backend.Selector) (*handle.Iterator, error) {
	f.mu.Lock()
	parentRef, err := f.lookupRef(parent)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	b, err := f.registry.ByID(parent.BackendID)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	cursor, err := b.Iterate(parentRef.raw, sel)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	backendID := parent.BackendID
	return handle.NewIterator(func() (handle.ObjectHandle, bool) {
		d, ok := cursor()
		if !ok {
			return handle.ObjectHandle{}, false
		}
		f.mu.Lock()
		h := f.mint(backendID, d.Raw, d.Meta)
		f.mu.Unlock()
		return h, true
	}), nil
}
