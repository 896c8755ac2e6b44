// Package builtin declares the component and resource types every host
// provides. Modules use them like their own types; the host assigns their ids
// and owns their storage.
//
// Vector math comes from mgl32. Note that mgl32.Quat stores W before the
// vector part.
package builtin

import (
	"math"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/gamebind/bind"
)

type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Quat = mgl32.Quat
)

// Transform places an entity in the world.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

func (t *Transform) SetDefaults() {
	t.Rotation = mgl32.QuatIdent()
	t.Scale = Vec3{1, 1, 1}
}

// Camera is a perspective camera. FOV is vertical, in radians.
type Camera struct {
	FOV       float32
	NearPlane float32
}

func (c *Camera) SetDefaults() {
	c.FOV = 1.0
	c.NearPlane = 0.1
}

// Color is a linear RGB color. Channels may exceed 1.
type Color struct {
	Val Vec3
}

func (c *Color) SetDefaults() { c.Val = Vec3{1, 0, 1} }

// DirectionalLight is a sun light. The first one spawned casts shadows.
type DirectionalLight struct {
	Direction Vec3
	Intensity Vec3
}

type PointLight struct {
	Position  Vec3
	Intensity Vec3
}

// DynamicStaticMesh renders a loaded mesh asset at the entity's transform.
type DynamicStaticMesh struct {
	AssetID bind.AssetID
}

// FrameConstants holds values fixed for the whole frame.
type FrameConstants struct {
	DeltaTime float32
}

// GlobalLighting is the ambient light level.
type GlobalLighting struct {
	AmbientIntensity Vec3
}

func (g *GlobalLighting) SetDefaults() { g.AmbientIntensity = Vec3{0.1, 0.1, 0.1} }

// Aspect is the window size in pixels.
type Aspect struct {
	X, Y float32
}

// Ratio returns width over height, or 1 for an empty window.
func (a Aspect) Ratio() float32 {
	if a.Y == 0 {
		return 1
	}
	return a.X / a.Y
}

// FrameRateSettings limits the frame rate. The default is unlimited.
type FrameRateSettings struct {
	FrameRateLimit float64
}

func (f *FrameRateSettings) SetDefaults() { f.FrameRateLimit = math.Inf(1) }

// Components lists the builtin component types, sorted by name.
func Components() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[Camera](),
		reflect.TypeFor[Color](),
		reflect.TypeFor[DirectionalLight](),
		reflect.TypeFor[DynamicStaticMesh](),
		reflect.TypeFor[PointLight](),
		reflect.TypeFor[Transform](),
	}
}

// Resource pairs a builtin resource type with its default constructor.
type Resource struct {
	Type reflect.Type
	New  func() any
}

func resource[T any]() Resource {
	return Resource{
		Type: reflect.TypeFor[T](),
		New:  func() any { v := bind.NewDefault[T](); return &v },
	}
}

// Resources lists the builtin resources a host keeps in addition to Engine.
func Resources() []Resource {
	return []Resource{
		resource[Aspect](),
		resource[FrameConstants](),
		resource[FrameRateSettings](),
		resource[GlobalLighting](),
		resource[InputState](),
	}
}

// Names returns the identities of the builtin components. Together with
// EntityID and Engine they are always accepted by id assignment, whether or
// not a system names them.
func Names() []string {
	types := Components()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = bind.TypeName(t)
	}
	return names
}
