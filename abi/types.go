package abi

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/errors"
	"github.com/wippyai/gamebind/schema"
)

// ArgType classifies a system argument or query element. The numeric values
// are part of the protocol.
type ArgType int32

const (
	ArgMut   ArgType = 0
	ArgRef   ArgType = 1
	ArgQuery ArgType = 2
)

func (t ArgType) String() string {
	switch t {
	case ArgMut:
		return "mut"
	case ArgRef:
		return "ref"
	case ArgQuery:
		return "query"
	}
	return fmt.Sprintf("arg_type(%d)", int32(t))
}

// ComponentType is the protocol form of schema.TypeKind.
type ComponentType int32

const (
	TypeComponent ComponentType = 0
	TypeResource  ComponentType = 1
)

func (t ComponentType) String() string {
	switch t {
	case TypeComponent:
		return "component"
	case TypeResource:
		return "resource"
	}
	return fmt.Sprintf("component_type(%d)", int32(t))
}

// Arg is one slot of the array a host passes to a system: the slot's
// classification and the pointer it carries. The layout matches the C
// struct gb_arg.
type Arg struct {
	Type ArgType
	Ptr  unsafe.Pointer
}

// SystemFunc is a dispatch trampoline. It returns StatusFault when the system
// panicked or the slots did not match its descriptors.
type SystemFunc func(args []Arg) boundary.Status

// ArgTypeOf converts an argument descriptor to its protocol classification.
func ArgTypeOf(a schema.ArgDesc) ArgType {
	if a.Query {
		return ArgQuery
	}
	return directType(a.Direct)
}

func directType(d schema.DirectDesc) ArgType {
	if d.Mutable {
		return ArgMut
	}
	return ArgRef
}

// ArgTypes lists the protocol classification of every argument of s.
func ArgTypes(s schema.SystemDesc) []ArgType {
	out := make([]ArgType, len(s.Args))
	for i, a := range s.Args {
		out[i] = ArgTypeOf(a)
	}
	return out
}

// Reject logs a refused system call and returns the status the host sees.
func Reject(err error) boundary.Status {
	Logger().Error("rejected system call", zap.Error(err))
	return boundary.StatusFault
}

// CheckArgs verifies that the slots a host passed agree in number and tag
// with what the system declared.
func CheckArgs(system string, want []ArgType, args []Arg) error {
	if len(args) != len(want) {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			System(system).
			Detail("got %d argument slots, want %d", len(args), len(want)).
			Build()
	}
	for i, a := range args {
		if a.Type != want[i] {
			return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
				System(system).
				Arg(i).
				Detail("slot tagged %s, want %s", a.Type, want[i]).
				Build()
		}
	}
	return nil
}
