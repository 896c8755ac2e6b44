package schema

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/builtin"
)

// TypeKind distinguishes per-entity components from singleton resources.
// The numeric values are part of the protocol.
type TypeKind uint8

const (
	KindComponent TypeKind = 0
	KindResource  TypeKind = 1
)

func (k TypeKind) String() string {
	if k == KindResource {
		return "resource"
	}
	return "component"
}

// TypeDesc describes a locally declared component or resource.
type TypeDesc struct {
	Type reflect.Type
	// Init writes the default value into host memory. Resources only.
	Init  func(dest unsafe.Pointer)
	Name  string
	Size  uintptr
	Align uintptr
	Kind  TypeKind
}

// Order is the scheduling class of a system.
type Order uint8

const (
	PerFrame Order = iota
	Once
)

func (o Order) String() string {
	if o == Once {
		return "once"
	}
	return "per_frame"
}

// DirectDesc is one piece of direct data access: a type identity and whether
// the system may write it.
type DirectDesc struct {
	Type    reflect.Type
	Name    string
	Mutable bool
}

// ArgDesc describes one system parameter. Query parameters carry their
// elements in row order; other parameters carry Direct.
type ArgDesc struct {
	// Param is the declared parameter type.
	Param reflect.Type
	// Shape is the row shape S of a Query[S].
	Shape  reflect.Type
	Elems  []DirectDesc
	Direct DirectDesc
	Query  bool
	Engine bool
}

// SystemDesc describes one registered system.
type SystemDesc struct {
	Func reflect.Value
	// Name is the scope-qualified function name, Pkg.Ident.
	Name  string
	Pkg   string
	Ident string
	Args  []ArgDesc
	Order Order
}

// Model is the result of analysis: every declared type and system in
// registration order.
type Model struct {
	Types   []TypeDesc
	Systems []SystemDesc
}

// TypeByName returns the local type with the given identity.
func (m *Model) TypeByName(name string) (*TypeDesc, bool) {
	for i := range m.Types {
		if m.Types[i].Name == name {
			return &m.Types[i], true
		}
	}
	return nil, false
}

// IDNames returns every identity the host may assign an id to: each type named
// by a system argument, the builtin components, EntityID, Engine and every
// local type. The result is sorted and free of duplicates.
func (m *Model) IDNames() []string {
	names := append(builtin.Names(), bind.NameOf[bind.EntityID](), bind.NameOf[bind.Engine]())
	for _, s := range m.Systems {
		for _, a := range s.Args {
			if a.Query {
				for _, e := range a.Elems {
					names = append(names, e.Name)
				}
				continue
			}
			names = append(names, a.Direct.Name)
		}
	}
	for _, t := range m.Types {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Resources returns the local resource descriptors.
func (m *Model) Resources() []TypeDesc {
	var out []TypeDesc
	for _, t := range m.Types {
		if t.Kind == KindResource {
			out = append(out, t)
		}
	}
	return out
}

// QueryRows returns, for every query argument with two or more elements, its
// system index, argument index and row shape. These are the rows whose layout
// must be checked.
func (m *Model) QueryRows() []RowRef {
	var out []RowRef
	for si, s := range m.Systems {
		for ai, a := range s.Args {
			if a.Query && len(a.Elems) >= 2 {
				out = append(out, RowRef{System: si, Arg: ai, Shape: a.Shape})
			}
		}
	}
	return out
}

// RowRef locates a multi-element query row.
type RowRef struct {
	Shape  reflect.Type
	System int
	Arg    int
}
