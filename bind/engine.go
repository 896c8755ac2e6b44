package bind

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/gamebind/errors"
)

// ComponentRef carries one component value into Spawn or SetComponentValue.
// The host copies Size bytes from Ptr before the call returns. The field order
// matches the C ComponentRef struct.
type ComponentRef struct {
	ID   ComponentID
	Size uintptr
	Ptr  unsafe.Pointer
}

// Component builds a ComponentRef for v using the id the host assigned to T.
func Component[T any](e Engine, v *T) ComponentRef {
	return ComponentRef{
		ID:   e.ctx.ID(NameOf[T]()),
		Size: unsafe.Sizeof(*v),
		Ptr:  unsafe.Pointer(v),
	}
}

// Engine is the host-provided resource for structural changes. Spawns,
// despawns and value writes are deferred by the host until the end of the
// frame; asset loads take effect immediately.
type Engine struct {
	ctx  *Context
	host EngineHost
}

func (Engine) ParamInfo() ParamInfo {
	return ParamInfo{Kind: ParamEngine, Type: reflect.TypeFor[Engine]()}
}

func (Engine) FromSlot(ctx *Context, slot unsafe.Pointer) any {
	return ctx.Engine(slot)
}

// Context returns the module context the engine was built from.
func (e Engine) Context() *Context { return e.ctx }

func (e Engine) mustHost() EngineHost {
	if e.host == nil {
		panic(errors.New(errors.PhaseHost, errors.KindNotInitialized).
			Type(NameOf[Engine]()).
			Detail("engine has no host").
			Build())
	}
	return e.host
}

// Spawn queues a new entity built from components. The entity is not visible
// to queries run later in the same frame.
func (e Engine) Spawn(components ...ComponentRef) EntityID {
	return e.mustHost().Spawn(components)
}

// Despawn queues removal of entity. The entity stays visible for the rest of
// the frame.
func (e Engine) Despawn(entity EntityID) {
	e.mustHost().Despawn(entity)
}

// SetComponentValue queues an overwrite of one component of entity.
func (e Engine) SetComponentValue(entity EntityID, component ComponentRef) {
	e.mustHost().SetComponentValue(entity, component)
}

// LoadAsset loads path and returns its handle. Loading the same path twice
// returns the same handle.
func (e Engine) LoadAsset(path string) AssetID {
	return e.mustHost().LoadAsset(path)
}
