package bind

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/errors"
)

type position struct{ X, Y float32 }

type velocity struct{ DX, DY float32 }

type settings struct{ Speed float32 }

func (s *settings) SetDefaults() { s.Speed = 4 }

func TestTypeName(t *testing.T) {
	assert.Equal(t, "github.com/wippyai/gamebind/bind.position", NameOf[position]())
	assert.Equal(t, "github.com/wippyai/gamebind/bind.EntityID", NameOf[EntityID]())
	assert.Equal(t, "github.com/wippyai/gamebind/bind.Engine", NameOf[Engine]())
	assert.Equal(t, "int", NameOf[int]())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(NameOf[position](), NameOf[velocity](), NameOf[position]())
	require.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{NameOf[position](), NameOf[velocity]()}, reg.Names())

	_, ok := IDOf[position](reg)
	assert.False(t, ok, "id readable before the host assigned it")
	assert.False(t, reg.Assigned())

	assert.True(t, reg.Set(NameOf[position](), 7))
	assert.True(t, reg.Set(NameOf[velocity](), 9))
	assert.False(t, reg.Set("example.com/other.Ghost", 3), "unknown names are ignored")

	id, ok := IDOf[position](reg)
	require.True(t, ok)
	assert.Equal(t, ComponentID(7), id)
	id, ok = reg.ID(NameOf[velocity]())
	require.True(t, ok)
	assert.Equal(t, ComponentID(9), id)
	id, ok = reg.IDOfType(reflect.TypeFor[velocity]())
	require.True(t, ok)
	assert.Equal(t, ComponentID(9), id)
	assert.True(t, reg.Assigned())

	_, ok = reg.ID("example.com/other.Ghost")
	assert.False(t, ok)
}

func TestRegistry_MissingIDPanics(t *testing.T) {
	reg := NewRegistry(NameOf[position]())

	_, fault := boundary.Guard(func() { reg.mustID(NameOf[position]()) })
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindNotInitialized})

	_, fault = boundary.Guard(func() { reg.mustID("example.com/other.Ghost") })
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindUnknownType})
}

func TestCallbacks_Set(t *testing.T) {
	get := func(unsafe.Pointer, EntityID, ComponentID) unsafe.Pointer { return nil }
	first := func(unsafe.Pointer, ComponentID) unsafe.Pointer { return nil }
	each := func(unsafe.Pointer, RowFunc) {}

	tests := []struct {
		name    string
		kind    CallbackKind
		fn      any
		wantErr bool
	}{
		{"get", CallbackGet, get, false},
		{"get mut typed", CallbackGetMut, GetFunc(get), false},
		{"get first", CallbackGetFirst, first, false},
		{"get first mut", CallbackGetFirstMut, GetFirstFunc(first), false},
		{"for each", CallbackForEach, each, false},
		{"par for each", CallbackParForEach, ForEachFunc(each), false},
		{"wrong shape", CallbackGet, first, true},
		{"nil func", CallbackForEach, ForEachFunc(nil), true},
		{"unknown kind", CallbackKind(6), each, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cb Callbacks
			err := cb.Set(tt.kind, tt.fn)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindInvalidCallback})
				assert.False(t, cb.Installed(tt.kind))
				return
			}
			require.NoError(t, err)
			assert.True(t, cb.Installed(tt.kind))
		})
	}
}

func TestCallbackKind_Order(t *testing.T) {
	kinds := CallbackKinds()
	require.Len(t, kinds, 6)
	for i, k := range kinds {
		assert.Equal(t, CallbackKind(i), k)
		assert.True(t, k.Valid())
	}
	assert.Equal(t, "par_for_each", CallbackParForEach.String())
	assert.False(t, CallbackKind(6).Valid())
}

// table is a tiny host: every entity has a position and some have a velocity.
type table struct {
	posID, velID ComponentID
	entities     []EntityID
	pos          map[EntityID]*position
	vel          map[EntityID]*velocity
}

func newTable() *table {
	return &table{
		posID: 1,
		velID: 2,
		pos:   map[EntityID]*position{},
		vel:   map[EntityID]*velocity{},
	}
}

func (tb *table) add(e EntityID, p position, v *velocity) {
	tb.entities = append(tb.entities, e)
	tb.pos[e] = &p
	if v != nil {
		tb.vel[e] = v
	}
}

func (tb *table) lookup(e EntityID, id ComponentID) unsafe.Pointer {
	switch id {
	case tb.posID:
		if p, ok := tb.pos[e]; ok {
			return unsafe.Pointer(p)
		}
	case tb.velID:
		if v, ok := tb.vel[e]; ok {
			return unsafe.Pointer(v)
		}
	}
	return nil
}

// rows yields [position, velocity] rows for entities having both.
func (tb *table) rows() [][2]unsafe.Pointer {
	var out [][2]unsafe.Pointer
	for _, e := range tb.entities {
		if v, ok := tb.vel[e]; ok {
			out = append(out, [2]unsafe.Pointer{unsafe.Pointer(tb.pos[e]), unsafe.Pointer(v)})
		}
	}
	return out
}

func (tb *table) context(t *testing.T) *Context {
	t.Helper()
	reg := NewRegistry(NameOf[position](), NameOf[velocity]())
	reg.Set(NameOf[position](), tb.posID)
	reg.Set(NameOf[velocity](), tb.velID)
	ctx := NewContext(reg)

	cb := ctx.Callbacks()
	get := func(_ unsafe.Pointer, e EntityID, id ComponentID) unsafe.Pointer { return tb.lookup(e, id) }
	firstFn := func(_ unsafe.Pointer, id ComponentID) unsafe.Pointer {
		for _, e := range tb.entities {
			if p := tb.lookup(e, id); p != nil {
				return p
			}
		}
		return nil
	}
	each := func(_ unsafe.Pointer, row RowFunc) {
		for _, r := range tb.rows() {
			if row(unsafe.Pointer(&r[0])) != boundary.StatusOK {
				return
			}
		}
	}
	parEach := func(_ unsafe.Pointer, row RowFunc) {
		rows := tb.rows()
		var wg sync.WaitGroup
		for i := range rows {
			wg.Add(1)
			go func(r *[2]unsafe.Pointer) {
				defer wg.Done()
				row(unsafe.Pointer(&r[0]))
			}(&rows[i])
		}
		wg.Wait()
	}
	require.NoError(t, cb.Set(CallbackGet, get))
	require.NoError(t, cb.Set(CallbackGetMut, get))
	require.NoError(t, cb.Set(CallbackGetFirst, firstFn))
	require.NoError(t, cb.Set(CallbackGetFirstMut, firstFn))
	require.NoError(t, cb.Set(CallbackForEach, each))
	require.NoError(t, cb.Set(CallbackParForEach, parEach))
	return ctx
}

type moving struct {
	P *position
	V Ref[velocity]
}

func TestQuery_Lookups(t *testing.T) {
	tb := newTable()
	tb.add(10, position{X: 1}, &velocity{DX: 2})
	tb.add(11, position{X: 5}, nil)
	ctx := tb.context(t)
	q := NewQuery[moving](ctx, nil)

	v, ok := Get[velocity](q, 10)
	require.True(t, ok)
	assert.Equal(t, float32(2), v.Get().DX)

	_, ok = Get[velocity](q, 11)
	assert.False(t, ok, "entity without velocity is outside the query")

	p, ok := GetMut[position](q, 11)
	require.True(t, ok)
	p.Y = 3
	assert.Equal(t, float32(3), tb.pos[11].Y)

	first, ok := First[position](q)
	require.True(t, ok)
	assert.Equal(t, float32(1), first.Value().X)

	firstMut, ok := FirstMut[velocity](q)
	require.True(t, ok)
	firstMut.DY = 8
	assert.Equal(t, float32(8), tb.vel[10].DY)
}

func TestQuery_ForEach(t *testing.T) {
	tb := newTable()
	tb.add(1, position{X: 1}, &velocity{DX: 1})
	tb.add(2, position{X: 2}, &velocity{DX: 2})
	tb.add(3, position{X: 3}, nil)
	ctx := tb.context(t)

	q := NewQuery[moving](ctx, nil)
	visited := 0
	q.ForEach(func(row moving) {
		visited++
		row.P.X += row.V.Get().DX
	})

	assert.Equal(t, 2, visited)
	assert.Equal(t, float32(2), tb.pos[1].X)
	assert.Equal(t, float32(4), tb.pos[2].X)
	assert.Equal(t, float32(3), tb.pos[3].X)
}

func TestQuery_SingleComponentRow(t *testing.T) {
	tb := newTable()
	tb.add(1, position{X: 1}, &velocity{DX: 1})
	ctx := tb.context(t)

	q := NewQuery[*position](ctx, nil)
	q.ForEach(func(p *position) { p.Y = 9 })
	assert.Equal(t, float32(9), tb.pos[1].Y)
}

func TestQuery_ForEachFault(t *testing.T) {
	tb := newTable()
	tb.add(1, position{}, &velocity{})
	tb.add(2, position{}, &velocity{})
	ctx := tb.context(t)

	var statuses []boundary.Status
	each := func(_ unsafe.Pointer, row RowFunc) {
		for _, r := range tb.rows() {
			statuses = append(statuses, row(unsafe.Pointer(&r[0])))
		}
	}
	require.NoError(t, ctx.Callbacks().Set(CallbackForEach, each))

	q := NewQuery[moving](ctx, nil)
	status, fault := boundary.Guard(func() {
		q.ForEach(func(moving) { panic("boom") })
	})

	assert.Equal(t, boundary.StatusFault, status)
	require.NotNil(t, fault)
	assert.Equal(t, "boom", fault.Value)
	assert.Equal(t, []boundary.Status{boundary.StatusFault, boundary.StatusFault}, statuses)

	// The module keeps working after a contained fault.
	visited := 0
	q.ForEach(func(moving) { visited++ })
	assert.Equal(t, 2, visited)
}

func TestQuery_ParForEach(t *testing.T) {
	tb := newTable()
	for i := range 16 {
		tb.add(EntityID(i), position{}, &velocity{DX: 1})
	}
	ctx := tb.context(t)

	q := NewQuery[moving](ctx, nil)
	var visited atomic.Int32
	q.ParForEach(func(row moving) {
		visited.Add(1)
		row.P.X = row.V.Get().DX
	})
	assert.Equal(t, int32(16), visited.Load())
	for _, p := range tb.pos {
		assert.Equal(t, float32(1), p.X)
	}

	status, fault := boundary.Guard(func() {
		q.ParForEach(func(row moving) { panic("par") })
	})
	assert.Equal(t, boundary.StatusFault, status)
	require.NotNil(t, fault)
	assert.Equal(t, "par", fault.Value)
}

func TestQuery_MissingCallback(t *testing.T) {
	reg := NewRegistry(NameOf[position]())
	reg.Set(NameOf[position](), 1)
	q := NewQuery[*position](NewContext(reg), nil)

	_, fault := boundary.Guard(func() { First[position](q) })
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindNotInitialized})
}

type recordingHost struct {
	spawned   [][]ComponentRef
	despawned []EntityID
	values    map[EntityID]ComponentRef
	assets    map[string]AssetID
}

func (h *recordingHost) Spawn(components []ComponentRef) EntityID {
	h.spawned = append(h.spawned, components)
	return EntityID(100 + len(h.spawned))
}

func (h *recordingHost) Despawn(entity EntityID) { h.despawned = append(h.despawned, entity) }

func (h *recordingHost) SetComponentValue(entity EntityID, c ComponentRef) {
	if h.values == nil {
		h.values = map[EntityID]ComponentRef{}
	}
	h.values[entity] = c
}

func (h *recordingHost) LoadAsset(path string) AssetID {
	if h.assets == nil {
		h.assets = map[string]AssetID{}
	}
	if id, ok := h.assets[path]; ok {
		return id
	}
	id := AssetID(len(h.assets) + 1)
	h.assets[path] = id
	return id
}

func TestEngine(t *testing.T) {
	reg := NewRegistry(NameOf[position](), NameOf[velocity]())
	reg.Set(NameOf[position](), 4)
	reg.Set(NameOf[velocity](), 5)
	ctx := NewContext(reg)

	host := &recordingHost{}
	var gotSlot unsafe.Pointer
	ctx.SetEngineResolver(func(slot unsafe.Pointer) EngineHost {
		gotSlot = slot
		return host
	})

	marker := new(int)
	engine := ctx.Engine(unsafe.Pointer(marker))
	assert.Equal(t, unsafe.Pointer(marker), gotSlot)
	assert.Same(t, ctx, engine.Context())

	p := position{X: 1}
	v := velocity{DX: 2}
	id := engine.Spawn(Component(engine, &p), Component(engine, &v))
	assert.Equal(t, EntityID(101), id)
	require.Len(t, host.spawned, 1)
	refs := host.spawned[0]
	require.Len(t, refs, 2)
	assert.Equal(t, ComponentID(4), refs[0].ID)
	assert.Equal(t, unsafe.Sizeof(p), refs[0].Size)
	assert.Equal(t, unsafe.Pointer(&p), refs[0].Ptr)
	assert.Equal(t, ComponentID(5), refs[1].ID)

	engine.SetComponentValue(id, Component(engine, &v))
	assert.Equal(t, ComponentID(5), host.values[id].ID)

	engine.Despawn(id)
	assert.Equal(t, []EntityID{id}, host.despawned)

	a := engine.LoadAsset("meshes/tank.glb")
	b := engine.LoadAsset("meshes/tank.glb")
	c := engine.LoadAsset("meshes/floor.glb")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEngine_NoResolver(t *testing.T) {
	ctx := NewContext(NewRegistry())
	_, fault := boundary.Guard(func() { ctx.Engine(nil) })
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindNotInitialized})

	_, fault = boundary.Guard(func() { Engine{}.Despawn(1) })
	require.NotNil(t, fault)
}

func TestParamOf(t *testing.T) {
	info, ok := ParamOf(reflectTypeOf[Ref[position]]())
	require.True(t, ok)
	assert.Equal(t, ParamRef, info.Kind)
	assert.Equal(t, reflectTypeOf[position](), info.Type)

	info, ok = ParamOf(reflectTypeOf[Query[moving]]())
	require.True(t, ok)
	assert.Equal(t, ParamQuery, info.Kind)
	assert.Equal(t, reflectTypeOf[moving](), info.Type)

	info, ok = ParamOf(reflectTypeOf[Engine]())
	require.True(t, ok)
	assert.Equal(t, ParamEngine, info.Kind)

	_, ok = ParamOf(reflectTypeOf[*Query[moving]]())
	assert.False(t, ok, "pointers to handles are not handles")
	_, ok = ParamOf(reflectTypeOf[*position]())
	assert.False(t, ok)
}

func TestParam_FromSlot(t *testing.T) {
	p := position{X: 3}
	r := Ref[position]{}.FromSlot(nil, unsafe.Pointer(&p)).(Ref[position])
	assert.Same(t, &p, r.Get())
	assert.False(t, r.IsNil())
	assert.True(t, Ref[position]{}.IsNil())

	ctx := NewContext(NewRegistry())
	q := Query[moving]{}.FromSlot(ctx, unsafe.Pointer(&p)).(Query[moving])
	assert.Equal(t, unsafe.Pointer(&p), q.Handle())
}

func TestNewDefault(t *testing.T) {
	assert.Equal(t, float32(4), NewDefault[settings]().Speed)
	assert.Equal(t, position{}, NewDefault[position]())
}

func reflectTypeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }
