package bind

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/errors"
)

// CallbackKind selects one of the six host callbacks. The numeric values are
// part of the protocol.
type CallbackKind uint32

const (
	CallbackGet CallbackKind = iota
	CallbackGetMut
	CallbackGetFirst
	CallbackGetFirstMut
	CallbackForEach
	CallbackParForEach

	callbackCount
)

var callbackNames = [...]string{
	CallbackGet:         "get",
	CallbackGetMut:      "get_mut",
	CallbackGetFirst:    "get_first",
	CallbackGetFirstMut: "get_first_mut",
	CallbackForEach:     "for_each",
	CallbackParForEach:  "par_for_each",
}

func (k CallbackKind) String() string {
	if k < callbackCount {
		return callbackNames[k]
	}
	return fmt.Sprintf("callback(%d)", uint32(k))
}

// Valid reports whether k names one of the six callbacks.
func (k CallbackKind) Valid() bool {
	return k < callbackCount
}

// CallbackKinds lists every callback kind in protocol order.
func CallbackKinds() []CallbackKind {
	return []CallbackKind{
		CallbackGet, CallbackGetMut, CallbackGetFirst,
		CallbackGetFirstMut, CallbackForEach, CallbackParForEach,
	}
}

// GetFunc resolves one component of entity within a query. It returns nil
// when the entity is not matched by the query.
type GetFunc func(query unsafe.Pointer, entity EntityID, id ComponentID) unsafe.Pointer

// GetFirstFunc resolves one component of the first entity matched by a query,
// or nil if the query matches nothing.
type GetFirstFunc func(query unsafe.Pointer, id ComponentID) unsafe.Pointer

// RowFunc receives one row: an array of pointer cells in query order.
type RowFunc func(row unsafe.Pointer) boundary.Status

// ForEachFunc visits every row of a query. The parallel variant may call row
// from several goroutines at once.
type ForEachFunc func(query unsafe.Pointer, row RowFunc)

// Callbacks holds the host-provided query callbacks. Each slot is written
// during load; reads are safe from any goroutine.
type Callbacks struct {
	get         atomic.Pointer[GetFunc]
	getMut      atomic.Pointer[GetFunc]
	getFirst    atomic.Pointer[GetFirstFunc]
	getFirstMut atomic.Pointer[GetFirstFunc]
	forEach     atomic.Pointer[ForEachFunc]
	parForEach  atomic.Pointer[ForEachFunc]
}

// Set installs fn into the slot for kind. fn must be a GetFunc for the point
// lookups, a GetFirstFunc for the first-match lookups and a ForEachFunc for
// the iteration routines; plain func literals of those shapes are accepted.
func (c *Callbacks) Set(kind CallbackKind, fn any) error {
	if !kind.Valid() {
		return errors.New(errors.PhaseHost, errors.KindInvalidCallback).
			Value(uint32(kind)).
			Detail("unknown callback kind %d", uint32(kind)).
			Build()
	}

	switch kind {
	case CallbackGet, CallbackGetMut:
		f, ok := asGet(fn)
		if !ok {
			return badCallback(kind, fn)
		}
		if kind == CallbackGet {
			c.get.Store(&f)
		} else {
			c.getMut.Store(&f)
		}
	case CallbackGetFirst, CallbackGetFirstMut:
		f, ok := asGetFirst(fn)
		if !ok {
			return badCallback(kind, fn)
		}
		if kind == CallbackGetFirst {
			c.getFirst.Store(&f)
		} else {
			c.getFirstMut.Store(&f)
		}
	default:
		f, ok := asForEach(fn)
		if !ok {
			return badCallback(kind, fn)
		}
		if kind == CallbackForEach {
			c.forEach.Store(&f)
		} else {
			c.parForEach.Store(&f)
		}
	}
	return nil
}

// Installed reports whether the host has provided the callback for kind.
func (c *Callbacks) Installed(kind CallbackKind) bool {
	switch kind {
	case CallbackGet:
		return c.get.Load() != nil
	case CallbackGetMut:
		return c.getMut.Load() != nil
	case CallbackGetFirst:
		return c.getFirst.Load() != nil
	case CallbackGetFirstMut:
		return c.getFirstMut.Load() != nil
	case CallbackForEach:
		return c.forEach.Load() != nil
	case CallbackParForEach:
		return c.parForEach.Load() != nil
	}
	return false
}

func asGet(fn any) (GetFunc, bool) {
	switch f := fn.(type) {
	case GetFunc:
		return f, f != nil
	case func(unsafe.Pointer, EntityID, ComponentID) unsafe.Pointer:
		return f, f != nil
	}
	return nil, false
}

func asGetFirst(fn any) (GetFirstFunc, bool) {
	switch f := fn.(type) {
	case GetFirstFunc:
		return f, f != nil
	case func(unsafe.Pointer, ComponentID) unsafe.Pointer:
		return f, f != nil
	}
	return nil, false
}

func asForEach(fn any) (ForEachFunc, bool) {
	switch f := fn.(type) {
	case ForEachFunc:
		return f, f != nil
	case func(unsafe.Pointer, RowFunc):
		return f, f != nil
	}
	return nil, false
}

func badCallback(kind CallbackKind, fn any) error {
	return errors.New(errors.PhaseHost, errors.KindInvalidCallback).
		Value(uint32(kind)).
		Detail("%s callback has wrong type %T", kind, fn).
		Build()
}

func missing(kind CallbackKind) *errors.Error {
	return errors.New(errors.PhaseHost, errors.KindNotInitialized).
		Detail("%s callback not registered", kind).
		Build()
}

func (c *Callbacks) lookup(mut bool, query unsafe.Pointer, entity EntityID, id ComponentID) unsafe.Pointer {
	kind, slot := CallbackGet, &c.get
	if mut {
		kind, slot = CallbackGetMut, &c.getMut
	}
	f := slot.Load()
	if f == nil {
		panic(missing(kind))
	}
	return (*f)(query, entity, id)
}

func (c *Callbacks) first(mut bool, query unsafe.Pointer, id ComponentID) unsafe.Pointer {
	kind, slot := CallbackGetFirst, &c.getFirst
	if mut {
		kind, slot = CallbackGetFirstMut, &c.getFirstMut
	}
	f := slot.Load()
	if f == nil {
		panic(missing(kind))
	}
	return (*f)(query, id)
}

func (c *Callbacks) iterate(parallel bool, query unsafe.Pointer, row RowFunc) {
	kind, slot := CallbackForEach, &c.forEach
	if parallel {
		kind, slot = CallbackParForEach, &c.parForEach
	}
	f := slot.Load()
	if f == nil {
		panic(missing(kind))
	}
	(*f)(query, row)
}
