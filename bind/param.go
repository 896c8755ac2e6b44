package bind

import (
	"reflect"
	"unsafe"
)

// ParamKind classifies the binding handle types a system may accept.
type ParamKind uint8

const (
	ParamRef ParamKind = iota + 1
	ParamQuery
	ParamEngine
)

func (k ParamKind) String() string {
	switch k {
	case ParamRef:
		return "ref"
	case ParamQuery:
		return "query"
	case ParamEngine:
		return "engine"
	}
	return "unknown"
}

// ParamInfo describes a handle type. Type is the referenced data type for
// Ref, the row shape for Query and Engine itself for Engine.
type ParamInfo struct {
	Kind ParamKind
	Type reflect.Type
}

// Param is implemented by the value-typed handles Ref, Query and Engine.
// Analysis uses ParamInfo on the zero value; dispatch uses FromSlot to build
// the handle from an argument pointer.
type Param interface {
	ParamInfo() ParamInfo
	FromSlot(ctx *Context, slot unsafe.Pointer) any
}

var paramType = reflect.TypeFor[Param]()

// ParamOf returns the handle description for t when t is a handle type.
func ParamOf(t reflect.Type) (ParamInfo, bool) {
	if t.Kind() == reflect.Pointer || !t.Implements(paramType) {
		return ParamInfo{}, false
	}
	return reflect.Zero(t).Interface().(Param).ParamInfo(), true
}
