package hostsim

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

// engine is the Engine resource. Systems reach it through the engine slot;
// its address is the slot pointer. Calls may arrive from parallel iteration,
// so the command buffer is locked.
type engine struct {
	h      *Host
	assets map[string]bind.AssetID
	cmds   []command
	mu     sync.Mutex
	next   bind.EntityID
}

var _ bind.EngineHost = (*engine)(nil)

// copyValue copies a component value out of module memory. The module's
// ComponentRef is not retained past the call.
func (e *engine) copyValue(ref bind.ComponentRef) (unsafe.Pointer, error) {
	t, ok := e.h.byID[ref.ID]
	if !ok {
		return nil, errors.New(errors.PhaseHost, errors.KindUnknownType).
			Value(ref.ID).
			Detail("no type has component id %d", ref.ID).
			Build()
	}
	if t.kind != componentKind {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Type(t.name).
			Detail("only components can be attached to entities").
			Build()
	}
	if ref.Size != t.size {
		return nil, errors.New(errors.PhaseHost, errors.KindLayout).
			Type(t.name).
			Detail("value is %d bytes, host expects %d", ref.Size, t.size).
			Build()
	}
	p := alloc(t.size, t.align)
	if t.size > 0 {
		copy(bytesAt(p, t.size), bytesAt(ref.Ptr, t.size))
	}
	return p, nil
}

func (e *engine) Spawn(components []bind.ComponentRef) bind.EntityID {
	ent := &entity{comps: make(map[bind.ComponentID]unsafe.Pointer, len(components))}
	for _, ref := range components {
		p, err := e.copyValue(ref)
		if err != nil {
			Logger().Warn("spawn: dropping component", zap.Error(err))
			continue
		}
		ent.comps[ref.ID] = p
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	ent.id = e.next
	e.cmds = append(e.cmds, command{op: opSpawn, entity: ent})
	return ent.id
}

func (e *engine) Despawn(id bind.EntityID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cmds = append(e.cmds, command{op: opDespawn, target: id})
}

func (e *engine) SetComponentValue(id bind.EntityID, component bind.ComponentRef) {
	p, err := e.copyValue(component)
	if err != nil {
		Logger().Warn("set_component_value: dropping write", zap.Uint64("entity", uint64(id)), zap.Error(err))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cmds = append(e.cmds, command{op: opSet, target: id, id: component.ID, value: p})
}

// LoadAsset hands out one id per path. Ids start at 1.
func (e *engine) LoadAsset(path string) bind.AssetID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.assets[path]; ok {
		return id
	}
	id := bind.AssetID(len(e.assets) + 1)
	e.assets[path] = id
	Logger().Debug("asset loaded", zap.String("path", path), zap.Uint32("asset", uint32(id)))
	return id
}

// drain takes the queued commands.
func (e *engine) drain() []command {
	e.mu.Lock()
	defer e.mu.Unlock()
	cmds := e.cmds
	e.cmds = nil
	return cmds
}
