package abi

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// CheckLayout verifies that a query row shape is a run of pointer-sized cells:
// every element is one pointer wide and each starts exactly one pointer after
// the previous. Hosts build rows as arrays of pointers, so any other layout
// would be read incorrectly.
func CheckLayout(shape reflect.Type) error {
	if shape.Kind() != reflect.Struct {
		if shape.Size() != ptrSize {
			return layoutError(shape, "row element is %d bytes, want %d", shape.Size(), ptrSize)
		}
		return nil
	}
	for i := 0; i < shape.NumField(); i++ {
		f := shape.Field(i)
		if f.Type.Size() != ptrSize {
			return layoutError(shape, "field %s is %d bytes, want %d", f.Name, f.Type.Size(), ptrSize)
		}
		if i == 0 {
			if f.Offset != 0 {
				return layoutError(shape, "field %s starts at offset %d", f.Name, f.Offset)
			}
			continue
		}
		if gap := f.Offset - shape.Field(i-1).Offset; gap != ptrSize {
			return layoutError(shape, "fields %s and %s are %d bytes apart, want %d",
				shape.Field(i-1).Name, f.Name, gap, ptrSize)
		}
	}
	return nil
}

func layoutError(shape reflect.Type, format string, args ...any) error {
	return errors.New(errors.PhaseDispatch, errors.KindLayout).
		Type(rowName(shape)).
		Detail(format, args...).
		Build()
}

func rowName(shape reflect.Type) string {
	if shape.Name() != "" {
		return bind.TypeName(shape)
	}
	return shape.String()
}
