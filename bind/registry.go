package bind

import (
	"reflect"

	"github.com/wippyai/gamebind/errors"
)

// Registry maps type identities to the numeric ids the host assigned.
//
// The set of names is fixed when the registry is created; ids live in an
// arena indexed by name. The host writes every id once during load, before
// the first system runs, and the module only reads them afterwards, so the
// registry takes no lock.
type Registry struct {
	index map[string]int
	names []string
	ids   []ComponentID
	set   []bool
}

// NewRegistry creates a registry that accepts ids for the given names.
// Duplicate names are collapsed.
func NewRegistry(names ...string) *Registry {
	r := &Registry{index: make(map[string]int, len(names))}
	for _, name := range names {
		if _, ok := r.index[name]; ok {
			continue
		}
		r.index[name] = len(r.names)
		r.names = append(r.names, name)
	}
	r.ids = make([]ComponentID, len(r.names))
	r.set = make([]bool, len(r.names))
	return r
}

// Names returns the identities this registry accepts, in slot order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of slots.
func (r *Registry) Len() int {
	return len(r.names)
}

// Slot returns the arena index for name.
func (r *Registry) Slot(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Set records the id for name. Unknown names are ignored and reported as false;
// a host may announce ids for types another module declared.
func (r *Registry) Set(name string, id ComponentID) bool {
	i, ok := r.index[name]
	if !ok {
		return false
	}
	r.ids[i] = id
	r.set[i] = true
	return true
}

// ID returns the id assigned to name, if any.
func (r *Registry) ID(name string) (ComponentID, bool) {
	i, ok := r.index[name]
	if !ok || !r.set[i] {
		return 0, false
	}
	return r.ids[i], true
}

// IDOfType returns the id assigned to t.
func (r *Registry) IDOfType(t reflect.Type) (ComponentID, bool) {
	return r.ID(TypeName(t))
}

// Assigned reports whether every slot has received an id.
func (r *Registry) Assigned() bool {
	for _, ok := range r.set {
		if !ok {
			return false
		}
	}
	return true
}

// mustID resolves name or panics with a structured error. It is only called
// from inside host-invoked entry points, where the panic becomes a fault.
func (r *Registry) mustID(name string) ComponentID {
	id, ok := r.ID(name)
	if !ok {
		if _, known := r.index[name]; known {
			panic(errors.New(errors.PhaseDispatch, errors.KindNotInitialized).
				Type(name).
				Detail("host has not assigned a component id").
				Build())
		}
		panic(errors.UnknownType(errors.PhaseDispatch, name))
	}
	return id
}

// IDOf returns the id assigned to T.
func IDOf[T any](r *Registry) (ComponentID, bool) {
	return r.IDOfType(reflect.TypeFor[T]())
}
