package schema

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

// Builder collects the declarations of a gameplay module. Registration order
// is preserved: the n-th system registered becomes system index n.
//
// The first contract violation is kept and returned by Build; later calls are
// ignored.
type Builder struct {
	err     error
	types   []TypeDesc
	systems []SystemDesc
	names   map[string]bool
	funcs   map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{
		names: make(map[string]bool),
		funcs: make(map[string]bool),
	}
}

// Component declares T as a component type.
func Component[T any](b *Builder) *Builder {
	b.addType(reflect.TypeFor[T](), KindComponent, nil)
	return b
}

// Resource declares T as a resource type. The host initialises its single
// instance with bind.NewDefault[T].
func Resource[T any](b *Builder) *Builder {
	b.addType(reflect.TypeFor[T](), KindResource, func(dest unsafe.Pointer) {
		*(*T)(dest) = bind.NewDefault[T]()
	})
	return b
}

// System registers fn to run every frame.
func (b *Builder) System(fn any) *Builder {
	b.addSystem(fn, PerFrame)
	return b
}

// SystemOnce registers fn to run once, before the first per-frame system.
func (b *Builder) SystemOnce(fn any) *Builder {
	b.addSystem(fn, Once)
	return b
}

// Build returns the model or the first violation.
func (b *Builder) Build() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.crossCheck(); err != nil {
		return nil, err
	}
	return &Model{
		Types:   append([]TypeDesc(nil), b.types...),
		Systems: append([]SystemDesc(nil), b.systems...),
	}, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) addType(t reflect.Type, kind TypeKind, init func(unsafe.Pointer)) {
	if b.err != nil {
		return
	}
	if err := checkDeclared(t); err != nil {
		b.fail(err)
		return
	}
	name := bind.TypeName(t)
	if b.names[name] {
		b.fail(errors.Duplicate(errors.PhaseAnalysis, kind.String(), name))
		return
	}
	b.names[name] = true
	b.types = append(b.types, TypeDesc{
		Type:  t,
		Init:  init,
		Name:  name,
		Size:  t.Size(),
		Align: uintptr(t.Align()),
		Kind:  kind,
	})
}

func (b *Builder) addSystem(fn any, order Order) {
	if b.err != nil {
		return
	}
	sys, err := analyzeSystem(fn, order)
	if err != nil {
		b.fail(err)
		return
	}
	if b.funcs[sys.Name] {
		b.fail(errors.New(errors.PhaseAnalysis, errors.KindDuplicate).
			System(sys.Name).
			Detail("system registered twice").
			Build())
		return
	}
	b.funcs[sys.Name] = true
	b.systems = append(b.systems, *sys)
}

// crossCheck validates system arguments against the declared types: a local
// component is only reachable through queries and a local resource only
// through direct access.
func (b *Builder) crossCheck() error {
	kinds := make(map[string]TypeKind, len(b.types))
	for _, t := range b.types {
		kinds[t.Name] = t.Kind
	}
	for _, s := range b.systems {
		for i, a := range s.Args {
			if a.Query {
				for _, e := range a.Elems {
					if k, ok := kinds[e.Name]; ok && k == KindResource {
						return errors.New(errors.PhaseAnalysis, errors.KindInvalidSignature).
							System(s.Name).Arg(i).Type(e.Name).
							Detail("resources cannot be queried").
							Build()
					}
				}
				continue
			}
			if k, ok := kinds[a.Direct.Name]; ok && k == KindComponent {
				return errors.New(errors.PhaseAnalysis, errors.KindInvalidSignature).
					System(s.Name).Arg(i).Type(a.Direct.Name).
					Detail("components are reached through queries").
					Build()
			}
		}
	}
	return nil
}
