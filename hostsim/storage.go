package hostsim

import (
	"cmp"
	"slices"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
)

const word = unsafe.Sizeof(uint64(0))

// typeInfo is what the host knows about one type identity.
type typeInfo struct {
	name  string
	size  uintptr
	align uintptr
	kind  abi.ComponentType
	id    bind.ComponentID
}

// alloc returns zeroed storage for one value. Stored values are plain data, so
// the backing words never hold Go pointers.
func alloc(size, align uintptr) unsafe.Pointer {
	extra := uintptr(0)
	if align > word {
		extra = align - word
	}
	words := (size + extra + word - 1) / word
	buf := make([]uint64, max(words, 1))
	p := unsafe.Pointer(&buf[0])
	if off := uintptr(p) % max(align, 1); off != 0 {
		p = unsafe.Add(p, align-off)
	}
	return p
}

func bytesAt(p unsafe.Pointer, size uintptr) []byte {
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), size)
}

type entity struct {
	comps map[bind.ComponentID]unsafe.Pointer
	id    bind.EntityID
}

func (e *entity) has(id bind.ComponentID) bool {
	_, ok := e.comps[id]
	return ok
}

// world owns the live entity set. It is only mutated between frames.
type world struct {
	entities map[bind.EntityID]*entity
}

func newWorld() *world {
	return &world{entities: make(map[bind.EntityID]*entity)}
}

// snapshot lists the live entities in id order.
func (w *world) snapshot() []*entity {
	out := make([]*entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *entity) int { return cmp.Compare(a.id, b.id) })
	return out
}

type opKind uint8

const (
	opSpawn opKind = iota
	opDespawn
	opSet
)

// command is one deferred structural change.
type command struct {
	entity *entity
	value  unsafe.Pointer
	target bind.EntityID
	id     bind.ComponentID
	op     opKind
}

// apply runs the queued commands in order and reports how many entities were
// added and removed.
func (w *world) apply(cmds []command, sizes map[bind.ComponentID]*typeInfo) (spawned, despawned int) {
	for _, c := range cmds {
		switch c.op {
		case opSpawn:
			w.entities[c.entity.id] = c.entity
			spawned++
		case opDespawn:
			if _, ok := w.entities[c.target]; ok {
				delete(w.entities, c.target)
				despawned++
			}
		case opSet:
			e, ok := w.entities[c.target]
			if !ok {
				Logger().Debug("dropping write to missing entity", zap.Uint64("entity", uint64(c.target)))
				continue
			}
			if cur, ok := e.comps[c.id]; ok {
				size := sizes[c.id].size
				copy(bytesAt(cur, size), bytesAt(c.value, size))
			} else {
				e.comps[c.id] = c.value
			}
		}
	}
	return spawned, despawned
}
