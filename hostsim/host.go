package hostsim

import (
	"context"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/builtin"
	"github.com/wippyai/gamebind/errors"
)

const (
	componentKind = abi.TypeComponent
	resourceKind  = abi.TypeResource
)

var (
	entityName = bind.NameOf[bind.EntityID]()
	engineName = bind.NameOf[bind.Engine]()
)

// Module is the exported surface the host drives. *abi.Module implements it.
type Module interface {
	abi.Descriptor
	SetComponentID(name string, id bind.ComponentID)
	ResourceInit(name string, dest unsafe.Pointer) boundary.Status
	SystemFn(index int) abi.SystemFunc
	SetCallbackFn(kind bind.CallbackKind, fn any)
}

// contextual is implemented by in-process modules that resolve Engine slots
// through a context instead of reading a C gb_engine.
type contextual interface {
	Context() *bind.Context
}

type system struct {
	fn   abi.SystemFunc
	name string
	args []abi.Arg
	once bool
}

// FrameReport summarises one frame.
type FrameReport struct {
	Failed    []string
	Frame     uint64
	Ran       int
	Spawned   int
	Despawned int
}

// Host is an in-memory engine that loads a module the way a real host would
// and drives its systems frame by frame.
//
// Spawns, despawns and component writes issued during a frame are applied
// after its last system. Queries iterate the entity set captured when the
// frame started.
type Host struct {
	mod           Module
	world         *world
	engine        *engine
	byName        map[string]*typeInfo
	byID          map[bind.ComponentID]*typeInfo
	resources     map[string]unsafe.Pointer
	queries       []*query
	systems       []system
	frameEntities []*entity
	cfg           Config
	frame         uint64
	failures      map[string]int
}

// New loads mod: it checks the protocol version, assigns ids, creates
// resources, installs the six callbacks and resolves every system argument.
func New(mod Module, cfg Config) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := abi.CheckVersion(mod.Version()); err != nil {
		return nil, err
	}

	h := &Host{
		mod:       mod,
		world:     newWorld(),
		byName:    make(map[string]*typeInfo),
		byID:      make(map[bind.ComponentID]*typeInfo),
		resources: make(map[string]unsafe.Pointer),
		cfg:       cfg,
		failures:  make(map[string]int),
	}
	h.engine = &engine{h: h, assets: make(map[string]bind.AssetID)}

	h.registerTypes()
	for _, t := range h.sortedTypes() {
		mod.SetComponentID(t.name, t.id)
	}
	if err := h.initResources(); err != nil {
		return nil, err
	}
	h.installCallbacks()
	if err := h.resolveSystems(); err != nil {
		return nil, err
	}

	Logger().Info("module loaded",
		zap.String("protocol", abi.FormatVersion(mod.Version())),
		zap.Uint64("fingerprint", mod.Fingerprint()),
		zap.Int("types", len(h.byName)),
		zap.Int("systems", len(h.systems)))
	return h, nil
}

func (h *Host) addType(name string, size, align uintptr, kind abi.ComponentType) {
	if _, ok := h.byName[name]; ok {
		return
	}
	t := &typeInfo{name: name, size: size, align: align, kind: kind, id: bind.ComponentID(len(h.byName))}
	h.byName[name] = t
	h.byID[t.id] = t
}

func (h *Host) registerTypes() {
	for _, t := range builtin.Components() {
		h.addType(bind.TypeName(t), t.Size(), uintptr(t.Align()), componentKind)
	}
	for _, r := range builtin.Resources() {
		h.addType(bind.TypeName(r.Type), r.Type.Size(), uintptr(r.Type.Align()), resourceKind)
	}
	et := reflect.TypeFor[bind.EntityID]()
	h.addType(entityName, et.Size(), uintptr(et.Align()), componentKind)
	h.addType(engineName, 0, 1, resourceKind)

	for i := 0; ; i++ {
		name, ok := h.mod.ComponentStringID(i)
		if !ok {
			break
		}
		h.addType(name, h.mod.ComponentSize(name), h.mod.ComponentAlign(name), h.mod.ComponentType(name))
	}
}

func (h *Host) sortedTypes() []*typeInfo {
	out := make([]*typeInfo, len(h.byID))
	for id, t := range h.byID {
		out[id] = t
	}
	return out
}

func (h *Host) initResources() error {
	for _, r := range builtin.Resources() {
		name := bind.TypeName(r.Type)
		p := alloc(r.Type.Size(), uintptr(r.Type.Align()))
		reflect.NewAt(r.Type, p).Elem().Set(reflect.ValueOf(r.New()).Elem())
		h.resources[name] = p
	}
	if a, ok := ResourceOf[builtin.Aspect](h); ok {
		a.X, a.Y = h.cfg.Width, h.cfg.Height
	}

	for _, t := range h.sortedTypes() {
		if t.kind != resourceKind || h.resources[t.name] != nil || t.name == engineName {
			continue
		}
		p := alloc(t.size, t.align)
		if status := h.mod.ResourceInit(t.name, p); status != boundary.StatusOK {
			return errors.New(errors.PhaseLoad, errors.KindFault).
				Type(t.name).
				Value(status).
				Detail("resource_init failed").
				Build()
		}
		h.resources[t.name] = p
	}
	return nil
}

func (h *Host) installCallbacks() {
	h.mod.SetCallbackFn(bind.CallbackGet, bind.GetFunc(h.get))
	h.mod.SetCallbackFn(bind.CallbackGetMut, bind.GetFunc(h.get))
	h.mod.SetCallbackFn(bind.CallbackGetFirst, bind.GetFirstFunc(h.getFirst))
	h.mod.SetCallbackFn(bind.CallbackGetFirstMut, bind.GetFirstFunc(h.getFirst))
	h.mod.SetCallbackFn(bind.CallbackForEach, bind.ForEachFunc(h.forEach))
	h.mod.SetCallbackFn(bind.CallbackParForEach, bind.ForEachFunc(h.parForEach))

	if c, ok := h.mod.(contextual); ok {
		c.Context().SetEngineResolver(func(slot unsafe.Pointer) bind.EngineHost {
			return (*engine)(slot)
		})
	}
}

func (h *Host) resolveSystems() error {
	for i := 0; i < h.mod.SystemsLen(); i++ {
		s := system{
			fn:   h.mod.SystemFn(i),
			name: h.mod.SystemName(i),
			once: h.mod.SystemIsOnce(i),
		}
		for a := 0; a < h.mod.SystemArgsLen(i); a++ {
			typ := h.mod.SystemArgType(i, a)
			ptr, err := h.resolveArg(i, a, typ, s.name)
			if err != nil {
				return err
			}
			s.args = append(s.args, abi.Arg{Type: typ, Ptr: ptr})
		}
		h.systems = append(h.systems, s)
	}
	return nil
}

func (h *Host) resolveArg(index, arg int, typ abi.ArgType, name string) (unsafe.Pointer, error) {
	if typ != abi.ArgQuery {
		comp := h.mod.SystemArgComponent(index, arg)
		if comp == engineName {
			return unsafe.Pointer(h.engine), nil
		}
		if p, ok := h.resources[comp]; ok {
			return p, nil
		}
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			System(name).
			Arg(arg).
			Type(comp).
			Detail("host has no resource with this identity").
			Build()
	}

	q := &query{system: name}
	for e := 0; e < h.mod.SystemQueryArgsLen(index, arg); e++ {
		comp := h.mod.SystemQueryArgComponent(index, arg, e)
		t, ok := h.byName[comp]
		if !ok || t.kind != componentKind {
			return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
				System(name).
				Arg(arg).
				Type(comp).
				Detail("query element is not a known component").
				Build()
		}
		q.elems = append(q.elems, queryElem{id: t.id, entity: comp == entityName})
	}
	h.queries = append(h.queries, q)
	return unsafe.Pointer(q), nil
}

// Step runs one frame. Once systems run on the first frame, before the
// per-frame systems.
func (h *Host) Step() FrameReport {
	first := h.frame == 0
	h.frame++
	h.frameEntities = h.world.snapshot()
	if fc, ok := ResourceOf[builtin.FrameConstants](h); ok {
		fc.DeltaTime = float32(h.cfg.DeltaTime.Seconds())
	}

	report := FrameReport{Frame: h.frame}
	if first {
		for _, s := range h.systems {
			if s.once {
				h.run(s, &report)
			}
		}
	}
	for _, s := range h.systems {
		if !s.once {
			h.run(s, &report)
		}
	}

	report.Spawned, report.Despawned = h.world.apply(h.engine.drain(), h.byID)
	h.frameEntities = nil
	return report
}

func (h *Host) run(s system, report *FrameReport) {
	report.Ran++
	if status := s.fn(s.args); status != boundary.StatusOK {
		h.failures[s.name]++
		report.Failed = append(report.Failed, s.name)
		Logger().Warn("system failed this frame",
			zap.String("system", s.name),
			zap.Uint64("frame", h.frame),
			zap.Int32("status", int32(status)))
	}
}

// Run steps frames until ctx is done. frames of zero means cfg.Frames.
func (h *Host) Run(ctx context.Context, frames int) error {
	if frames == 0 {
		frames = h.cfg.Frames
	}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := h.Step()
		Logger().Debug("frame",
			zap.Uint64("frame", r.Frame),
			zap.Int("ran", r.Ran),
			zap.Int("failed", len(r.Failed)),
			zap.Int("spawned", r.Spawned),
			zap.Int("despawned", r.Despawned))
	}
	return nil
}

// Frame returns the number of frames stepped so far.
func (h *Host) Frame() uint64 { return h.frame }

// Failures counts failed invocations per system name.
func (h *Host) Failures() map[string]int {
	out := make(map[string]int, len(h.failures))
	for k, v := range h.failures {
		out[k] = v
	}
	return out
}

// Entities lists the live entities in id order.
func (h *Host) Entities() []bind.EntityID {
	snap := h.world.snapshot()
	out := make([]bind.EntityID, len(snap))
	for i, e := range snap {
		out[i] = e.id
	}
	return out
}

// ID returns the id the host assigned to a type identity.
func (h *Host) ID(name string) (bind.ComponentID, bool) {
	t, ok := h.byName[name]
	if !ok {
		return 0, false
	}
	return t.id, true
}

// Component returns the storage of one component of a live entity.
func (h *Host) Component(id bind.EntityID, name string) (unsafe.Pointer, bool) {
	e, ok := h.world.entities[id]
	if !ok {
		return nil, false
	}
	t, ok := h.byName[name]
	if !ok {
		return nil, false
	}
	p, ok := e.comps[t.id]
	return p, ok
}

// Asset reports the id handed out for path, if it was loaded.
func (h *Host) Asset(path string) (bind.AssetID, bool) {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	id, ok := h.engine.assets[path]
	return id, ok
}

// ComponentOf is Component with the identity taken from T.
func ComponentOf[T any](h *Host, id bind.EntityID) (*T, bool) {
	p, ok := h.Component(id, bind.NameOf[T]())
	if !ok {
		return nil, false
	}
	return (*T)(p), true
}

// ResourceOf returns the host's instance of resource T.
func ResourceOf[T any](h *Host) (*T, bool) {
	p, ok := h.resources[bind.NameOf[T]()]
	if !ok {
		return nil, false
	}
	return (*T)(p), true
}
