package builtin

import (
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gamebind/bind"
)

func TestDefaults(t *testing.T) {
	tr := bind.NewDefault[Transform]()
	assert.Equal(t, Vec3{1, 1, 1}, tr.Scale)
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation)
	assert.Equal(t, Vec3{}, tr.Position)

	cam := bind.NewDefault[Camera]()
	assert.Equal(t, float32(1.0), cam.FOV)
	assert.Equal(t, float32(0.1), cam.NearPlane)

	assert.Equal(t, Vec3{1, 0, 1}, bind.NewDefault[Color]().Val)
	assert.Equal(t, Vec3{0.1, 0.1, 0.1}, bind.NewDefault[GlobalLighting]().AmbientIntensity)
	assert.True(t, math.IsInf(bind.NewDefault[FrameRateSettings]().FrameRateLimit, 1))
	assert.Equal(t, FrameConstants{}, bind.NewDefault[FrameConstants]())
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 6)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "github.com/wippyai/gamebind/builtin.Transform")
	assert.Contains(t, names, "github.com/wippyai/gamebind/builtin.DynamicStaticMesh")
}

func TestResources(t *testing.T) {
	for _, r := range Resources() {
		v := r.New()
		require.NotNil(t, v, r.Type.Name())
		assert.Equal(t, r.Type, reflectElem(v), r.Type.Name())
	}

	lighting := Resources()[3]
	require.Equal(t, "GlobalLighting", lighting.Type.Name())
	assert.Equal(t, Vec3{0.1, 0.1, 0.1}, lighting.New().(*GlobalLighting).AmbientIntensity)
}

func TestInputState_Keys(t *testing.T) {
	var s InputState
	s.KeyMut('w').Pressed = true
	s.KeyMut('7').PressedThisFrame = true
	s.KeyMut(' ').ReleasedThisFrame = true

	assert.True(t, s.Key('w').Pressed)
	assert.True(t, s.Key('W').Pressed)
	assert.True(t, s.Key('7').PressedThisFrame)
	assert.True(t, s.Key(' ').ReleasedThisFrame)
	assert.False(t, s.Key('a').Pressed)
	assert.Equal(t, ButtonState{}, s.Key('#'))
	assert.Nil(t, s.KeyMut('#'))
}

func TestInputState_Touches(t *testing.T) {
	var s InputState
	s.TouchList[0] = TouchInput{TouchID: 1, Phase: TouchBegan}
	s.TouchList[1] = TouchInput{TouchID: 2, Phase: TouchMoved}
	s.TouchList[2] = TouchInput{TouchID: 3, Phase: TouchEnded}
	s.TouchList[3] = TouchInput{TouchID: 4, Phase: TouchBegan}
	s.TouchesLen = 3

	assert.Len(t, s.Touches(), 3)
	require.Len(t, s.TouchesBegan(), 1, "touches past TouchesLen are ignored")
	assert.Equal(t, uintptr(1), s.TouchesBegan()[0].TouchID)
	assert.Equal(t, uintptr(2), s.TouchesMoved()[0].TouchID)
	assert.Equal(t, uintptr(3), s.TouchesEnded()[0].TouchID)

	s.TouchesLen = 99
	assert.Len(t, s.Touches(), MaxTouches)
}

func TestAspect_Ratio(t *testing.T) {
	assert.Equal(t, float32(2), Aspect{X: 800, Y: 400}.Ratio())
	assert.Equal(t, float32(1), Aspect{}.Ratio())
}

func reflectElem(v any) reflect.Type { return reflect.TypeOf(v).Elem() }
