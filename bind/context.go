package bind

import (
	"unsafe"

	"github.com/wippyai/gamebind/errors"
)

// EngineHost is the host side of the Engine resource.
type EngineHost interface {
	Spawn(components []ComponentRef) EntityID
	Despawn(entity EntityID)
	SetComponentValue(entity EntityID, component ComponentRef)
	LoadAsset(path string) AssetID
}

// EngineResolver maps the pointer a host passes for an Engine argument to the
// host implementation behind it.
type EngineResolver func(slot unsafe.Pointer) EngineHost

// Context is created once per loaded module. It owns the component id
// registry and the host callbacks and is shared by every Query and Engine the
// module hands to systems.
type Context struct {
	registry  *Registry
	callbacks *Callbacks
	resolver  EngineResolver
}

// NewContext creates a context over reg.
func NewContext(reg *Registry) *Context {
	return &Context{
		registry:  reg,
		callbacks: &Callbacks{},
	}
}

func (c *Context) Registry() *Registry { return c.registry }

func (c *Context) Callbacks() *Callbacks { return c.callbacks }

// SetEngineResolver installs the function used to turn Engine arguments into
// host implementations. It must be called during load.
func (c *Context) SetEngineResolver(r EngineResolver) {
	c.resolver = r
}

// Engine builds the facade for an Engine argument slot.
func (c *Context) Engine(slot unsafe.Pointer) Engine {
	if c.resolver == nil {
		panic(errors.New(errors.PhaseHost, errors.KindNotInitialized).
			Type(NameOf[Engine]()).
			Detail("no engine resolver installed").
			Build())
	}
	return Engine{ctx: c, host: c.resolver(slot)}
}

// ID resolves the id for name. Missing ids panic.
func (c *Context) ID(name string) ComponentID {
	return c.registry.mustID(name)
}
