package inspect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/builtin"
	"github.com/wippyai/gamebind/schema"
)

type Tank struct {
	Speed float32
}

type Spawner struct {
	Count int32
}

type TankRow struct {
	Transform *builtin.Transform
	Tank      bind.Ref[Tank]
}

func SpawnTanks(engine bind.Engine, s *Spawner) {}

func MoveTanks(q bind.Query[TankRow], frame bind.Ref[builtin.FrameConstants]) {}

func manifest(t *testing.T) *Manifest {
	t.Helper()
	b := schema.NewBuilder()
	schema.Component[Tank](b)
	schema.Resource[Spawner](b)
	b.SystemOnce(SpawnTanks).System(MoveTanks)
	m, err := b.Build()
	require.NoError(t, err)
	return Read(abi.New(m))
}

func TestRead(t *testing.T) {
	m := manifest(t)

	assert.Equal(t, "0.1.0", m.Protocol)
	assert.Len(t, m.Fingerprint, 16)
	assert.True(t, m.Compatible())

	require.Len(t, m.Types, 2)
	assert.Equal(t, Type{Name: bind.NameOf[Tank](), Kind: "component", Size: 4, Align: 4}, m.Types[0])
	assert.Equal(t, "resource", m.Types[1].Kind)
	assert.Len(t, m.Components(), 1)
	assert.Len(t, m.Resources(), 1)

	require.Len(t, m.Systems, 2)
	spawn := m.Systems[0]
	assert.Equal(t, "once", spawn.Order)
	assert.Equal(t, []Arg{
		{Access: "ref", Component: bind.NameOf[bind.Engine]()},
		{Access: "mut", Component: bind.NameOf[Spawner]()},
	}, spawn.Args)

	move := m.Systems[1]
	assert.Equal(t, "per_frame", move.Order)
	require.Len(t, move.Args, 2)
	assert.Equal(t, "query", move.Args[0].Access)
	assert.Equal(t, []Arg{
		{Access: "mut", Component: bind.NameOf[builtin.Transform]()},
		{Access: "ref", Component: bind.NameOf[Tank]()},
	}, move.Args[0].Elems)
}

func TestSignature(t *testing.T) {
	m := manifest(t)
	assert.Equal(t, "inspect.SpawnTanks(ref bind.Engine, mut inspect.Spawner)", m.Systems[0].Signature())
	assert.Equal(t,
		"inspect.MoveTanks(query(mut builtin.Transform, ref inspect.Tank), ref builtin.FrameConstants)",
		m.Systems[1].Signature())
}

func TestYAML(t *testing.T) {
	m := manifest(t)
	data, err := m.YAML()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "0.1.0", back["protocol"])
	assert.Len(t, back["systems"], 2)
	assert.NotContains(t, string(data), "version:")
}

func TestRender(t *testing.T) {
	out := manifest(t).Render()
	for _, want := range []string{"gamebind module", "Types (2)", "Systems (2)", "inspect.Tank", "MoveTanks", "once", "size 4"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "not compatible")

	m := manifest(t)
	m.Version = abi.MakeVersion(2, 0, 0)
	assert.Contains(t, m.Render(), "not compatible")
}

func TestColumns(t *testing.T) {
	out := columns([][]string{{"a", "long"}, {"longer", "b"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "long"), strings.Index(lines[1], "b"))
}
