package abi

import (
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/errors"
	"github.com/wippyai/gamebind/schema"
)

// Descriptor is the read-only part of the exported surface: everything a
// host or inspector asks before it runs a system.
type Descriptor interface {
	Version() uint32
	Fingerprint() uint64
	ComponentStringID(index int) (string, bool)
	ComponentSize(name string) uintptr
	ComponentAlign(name string) uintptr
	ComponentType(name string) ComponentType
	SystemsLen() int
	SystemName(index int) string
	SystemIsOnce(index int) bool
	SystemArgsLen(index int) int
	SystemArgType(index, arg int) ArgType
	SystemArgComponent(index, arg int) string
	SystemQueryArgsLen(index, arg int) int
	SystemQueryArgType(index, arg, elem int) ArgType
	SystemQueryArgComponent(index, arg, elem int) string
}

// Module serves the exported surface of a gameplay module in process. It is
// built from the same model the generator consumes and follows the same
// policies: unknown identities and out-of-range indices abort, id assignment
// ignores unknown names and resource_init reports them with a status.
type Module struct {
	model       *schema.Model
	ctx         *bind.Context
	systems     []SystemFunc
	layoutOnce  sync.Once
	fingerprint uint64
}

var _ Descriptor = (*Module)(nil)

// New prepares a module for model. The returned module owns a fresh context
// whose registry accepts model.IDNames().
func New(model *schema.Model) *Module {
	m := &Module{
		model:       model,
		ctx:         bind.NewContext(bind.NewRegistry(model.IDNames()...)),
		fingerprint: model.Fingerprint(),
	}
	m.systems = make([]SystemFunc, len(model.Systems))
	for i := range model.Systems {
		m.systems[i] = m.trampoline(&model.Systems[i])
	}
	Logger().Debug("module prepared",
		zap.Int("id_slots", m.ctx.Registry().Len()),
		zap.Int("systems", len(m.systems)))
	return m
}

func (m *Module) Model() *schema.Model { return m.model }

// Context returns the load-time context. Hosts install their engine resolver
// on it.
func (m *Module) Context() *bind.Context { return m.ctx }

func (m *Module) Version() uint32 { return ProtocolVersion }

func (m *Module) Fingerprint() uint64 { return m.fingerprint }

// ComponentStringID returns the identity of the index-th local type, or false
// past the end.
func (m *Module) ComponentStringID(index int) (string, bool) {
	if index < 0 || index >= len(m.model.Types) {
		return "", false
	}
	return m.model.Types[index].Name, true
}

// lookupType walks the declared types in order. Lookups only happen while the
// host loads the module.
func (m *Module) lookupType(call, name string) *schema.TypeDesc {
	for i := range m.model.Types {
		if m.model.Types[i].Name == name {
			return &m.model.Types[i]
		}
	}
	boundary.Abort(call+": unknown type identity",
		zap.Error(errors.UnknownType(errors.PhaseLoad, name)))
	return nil
}

func (m *Module) ComponentSize(name string) uintptr {
	return m.lookupType("component_size", name).Size
}

func (m *Module) ComponentAlign(name string) uintptr {
	return m.lookupType("component_align", name).Align
}

func (m *Module) ComponentType(name string) ComponentType {
	if m.lookupType("component_type", name).Kind == schema.KindResource {
		return TypeResource
	}
	return TypeComponent
}

// SetComponentID records the host's id for name. Names this module does not
// know are ignored.
func (m *Module) SetComponentID(name string, id bind.ComponentID) {
	if !m.ctx.Registry().Set(name, id) {
		Logger().Debug("ignoring id for foreign type", zap.String("type", name), zap.Uint16("id", uint16(id)))
	}
}

// ResourceInit writes the default value of resource name into dest. It
// returns StatusFault when name is not a resource of this module.
func (m *Module) ResourceInit(name string, dest unsafe.Pointer) boundary.Status {
	for i := range m.model.Types {
		t := &m.model.Types[i]
		if t.Name != name || t.Kind != schema.KindResource {
			continue
		}
		return boundary.Run("resource_init", func() { t.Init(dest) })
	}
	return boundary.StatusFault
}

func (m *Module) SystemsLen() int { return len(m.model.Systems) }

func (m *Module) system(call string, index int) *schema.SystemDesc {
	if index < 0 || index >= len(m.model.Systems) {
		boundary.Abort(call+": system index out of range",
			zap.Error(errors.OutOfRange(errors.PhaseDispatch, "system", index, len(m.model.Systems))))
		return nil
	}
	return &m.model.Systems[index]
}

func (m *Module) arg(call string, index, arg int) *schema.ArgDesc {
	s := m.system(call, index)
	if arg < 0 || arg >= len(s.Args) {
		boundary.Abort(call+": argument index out of range",
			zap.String("system", s.Name),
			zap.Error(errors.OutOfRange(errors.PhaseDispatch, "argument", arg, len(s.Args))))
		return nil
	}
	return &s.Args[arg]
}

func (m *Module) queryArg(call string, index, arg int) *schema.ArgDesc {
	a := m.arg(call, index, arg)
	if !a.Query {
		boundary.Abort(call+": argument is not a query",
			zap.String("system", m.model.Systems[index].Name), zap.Int("arg", arg))
		return nil
	}
	return a
}

func (m *Module) elem(call string, index, arg, elem int) *schema.DirectDesc {
	a := m.queryArg(call, index, arg)
	if elem < 0 || elem >= len(a.Elems) {
		boundary.Abort(call+": query element out of range",
			zap.String("system", m.model.Systems[index].Name),
			zap.Error(errors.OutOfRange(errors.PhaseDispatch, "query element", elem, len(a.Elems))))
		return nil
	}
	return &a.Elems[elem]
}

func (m *Module) SystemName(index int) string {
	return m.system("system_name", index).Name
}

func (m *Module) SystemIsOnce(index int) bool {
	return m.system("system_is_once", index).Order == schema.Once
}

// SystemFn returns the dispatch trampoline of system index.
func (m *Module) SystemFn(index int) SystemFunc {
	m.system("system_fn", index)
	return m.systems[index]
}

func (m *Module) SystemArgsLen(index int) int {
	return len(m.system("system_args_len", index).Args)
}

func (m *Module) SystemArgType(index, arg int) ArgType {
	return ArgTypeOf(*m.arg("system_arg_type", index, arg))
}

// SystemArgComponent names the data a direct argument accesses. Query
// arguments have no single component and abort.
func (m *Module) SystemArgComponent(index, arg int) string {
	a := m.arg("system_arg_component", index, arg)
	if a.Query {
		boundary.Abort("system_arg_component: argument is a query",
			zap.String("system", m.model.Systems[index].Name), zap.Int("arg", arg))
		return ""
	}
	return a.Direct.Name
}

func (m *Module) SystemQueryArgsLen(index, arg int) int {
	return len(m.queryArg("system_query_args_len", index, arg).Elems)
}

func (m *Module) SystemQueryArgType(index, arg, elem int) ArgType {
	return directType(*m.elem("system_query_arg_type", index, arg, elem))
}

// SystemQueryArgComponent names one query element. The first call verifies
// the row layout of every multi-element query in the module.
func (m *Module) SystemQueryArgComponent(index, arg, elem int) string {
	m.layoutOnce.Do(m.checkLayouts)
	return m.elem("system_query_arg_component", index, arg, elem).Name
}

func (m *Module) checkLayouts() {
	for _, row := range m.model.QueryRows() {
		if err := CheckLayout(row.Shape); err != nil {
			boundary.Abort("query row layout violated",
				zap.String("system", m.model.Systems[row.System].Name),
				zap.Int("arg", row.Arg),
				zap.Error(err))
			return
		}
	}
}

// SetCallbackFn installs one of the six query callbacks. An unknown kind or a
// function of the wrong shape aborts.
func (m *Module) SetCallbackFn(kind bind.CallbackKind, fn any) {
	if err := m.ctx.Callbacks().Set(kind, fn); err != nil {
		boundary.Abort("set_callback_fn: rejected callback", zap.Error(err))
	}
}

// trampoline builds the dispatch function for s. Handle arguments are built
// through bind.Param.FromSlot and mutable direct arguments by reinterpreting
// the slot pointer.
func (m *Module) trampoline(s *schema.SystemDesc) SystemFunc {
	want := ArgTypes(*s)
	build := make([]func(unsafe.Pointer) reflect.Value, len(s.Args))
	for i, a := range s.Args {
		if a.Param.Kind() == reflect.Pointer {
			elem := a.Direct.Type
			build[i] = func(p unsafe.Pointer) reflect.Value { return reflect.NewAt(elem, p) }
			continue
		}
		param := reflect.Zero(a.Param).Interface().(bind.Param)
		build[i] = func(p unsafe.Pointer) reflect.Value {
			return reflect.ValueOf(param.FromSlot(m.ctx, p))
		}
	}

	return func(args []Arg) boundary.Status {
		if err := CheckArgs(s.Name, want, args); err != nil {
			return Reject(err)
		}
		return boundary.Run(s.Name, func() {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				in[i] = build[i](a.Ptr)
			}
			s.Func.Call(in)
		})
	}
}
