package bind

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/gamebind/boundary"
)

// Query is a handle over a host-side query. S is the row shape: *T or Ref[T]
// for a single component, or a struct whose fields are each *T or Ref[T].
//
// A Query is only valid during the system invocation that received it.
type Query[S any] struct {
	ctx    *Context
	handle unsafe.Pointer
}

// NewQuery wraps the host query handle passed in an argument slot.
func NewQuery[S any](ctx *Context, handle unsafe.Pointer) Query[S] {
	return Query[S]{ctx: ctx, handle: handle}
}

// Handle returns the opaque host handle.
func (q Query[S]) Handle() unsafe.Pointer { return q.handle }

func (Query[S]) ParamInfo() ParamInfo {
	return ParamInfo{Kind: ParamQuery, Type: reflect.TypeFor[S]()}
}

func (Query[S]) FromSlot(ctx *Context, slot unsafe.Pointer) any {
	return NewQuery[S](ctx, slot)
}

// Get looks up component T of entity. The result is absent when the entity is
// not matched by q.
func Get[T, S any](q Query[S], entity EntityID) (Ref[T], bool) {
	p := q.ctx.callbacks.lookup(false, q.handle, entity, q.ctx.ID(NameOf[T]()))
	if p == nil {
		return Ref[T]{}, false
	}
	return RefAt[T](p), true
}

// GetMut is Get for write access.
func GetMut[T, S any](q Query[S], entity EntityID) (*T, bool) {
	p := q.ctx.callbacks.lookup(true, q.handle, entity, q.ctx.ID(NameOf[T]()))
	if p == nil {
		return nil, false
	}
	return (*T)(p), true
}

// First returns component T of the first entity matched by q.
func First[T, S any](q Query[S]) (Ref[T], bool) {
	p := q.ctx.callbacks.first(false, q.handle, q.ctx.ID(NameOf[T]()))
	if p == nil {
		return Ref[T]{}, false
	}
	return RefAt[T](p), true
}

// FirstMut is First for write access.
func FirstMut[T, S any](q Query[S]) (*T, bool) {
	p := q.ctx.callbacks.first(true, q.handle, q.ctx.ID(NameOf[T]()))
	if p == nil {
		return nil, false
	}
	return (*T)(p), true
}

// ForEach calls fn for every row on the calling goroutine. A panic in fn stops
// the iteration: the host receives a fault status for that row, and once the
// host returns the panic is raised again here.
func (q Query[S]) ForEach(fn func(row S)) {
	var fault *boundary.Fault
	q.ctx.callbacks.iterate(false, q.handle, func(row unsafe.Pointer) boundary.Status {
		if fault != nil {
			return boundary.StatusFault
		}
		status, f := boundary.Guard(func() { fn(*(*S)(row)) })
		if f != nil {
			fault = f
		}
		return status
	})
	boundary.Rethrow(fault)
}

// ParForEach is ForEach through the parallel callback. fn may run on several
// goroutines at once and in any order; only the first fault is kept.
func (q Query[S]) ParForEach(fn func(row S)) {
	var fault atomic.Pointer[boundary.Fault]
	q.ctx.callbacks.iterate(true, q.handle, func(row unsafe.Pointer) boundary.Status {
		status, f := boundary.Guard(func() { fn(*(*S)(row)) })
		if f != nil {
			fault.CompareAndSwap(nil, f)
		}
		return status
	})
	boundary.Rethrow(fault.Load())
}
