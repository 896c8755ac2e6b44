package bind

import (
	"reflect"
	"unsafe"
)

// Ref is a read-only view of host-owned data. It is the parameter form for
// read access; *T is the form for write access. A Ref must not be written
// through and must not outlive the call that produced it.
type Ref[T any] struct {
	p *T
}

// RefAt wraps a host pointer.
func RefAt[T any](p unsafe.Pointer) Ref[T] {
	return Ref[T]{p: (*T)(p)}
}

// RefTo wraps a Go pointer. Hosts implemented in Go use it to hand out
// resources they own.
func RefTo[T any](v *T) Ref[T] {
	return Ref[T]{p: v}
}

// Get returns the underlying pointer.
func (r Ref[T]) Get() *T { return r.p }

// Value copies the referenced data.
func (r Ref[T]) Value() T { return *r.p }

func (r Ref[T]) IsNil() bool { return r.p == nil }

func (Ref[T]) ParamInfo() ParamInfo {
	return ParamInfo{Kind: ParamRef, Type: reflect.TypeFor[T]()}
}

func (Ref[T]) FromSlot(_ *Context, slot unsafe.Pointer) any {
	return RefAt[T](slot)
}
