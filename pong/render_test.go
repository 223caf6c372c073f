package pong

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rectsPerFrame counts the rectangles drawn without bullets: four walls,
// four per paddle face, one charge bar and one HP bar per side.
const rectsPerFrame = 4 + 2*4 + 2 + 2

func TestRenderVertexCount(t *testing.T) {
	g := NewGame()
	f := g.Frame(800, 600)
	assert.Len(t, f.Vertices, 6*rectsPerFrame)

	g.Update(1.5)
	g.Fire(Left)
	g.Fire(Right)
	f = g.Frame(800, 600)
	assert.Len(t, f.Vertices, 6*(rectsPerFrame+2))
	assert.Equal(t, 800, f.Width)
	assert.Equal(t, 600, f.Height)
	assert.Equal(t, color.NRGBA{R: 0x85, G: 0xc7, B: 0x6d, A: 0x11}, f.Clear)
}

func TestRenderTrianglesAreCounterClockwise(t *testing.T) {
	g := NewGame()
	g.Update(4.5)
	g.Fire(Left)
	f := g.Frame(640, 480)

	require.Zero(t, len(f.Vertices)%3)
	for i := 0; i < len(f.Vertices); i += 3 {
		a := f.Vertices[i].Position.Vec2()
		b := f.Vertices[i+1].Position.Vec2()
		c := f.Vertices[i+2].Position.Vec2()
		ab, ac := b.Sub(a), c.Sub(a)
		cross := ab.X()*ac.Y() - ab.Y()*ac.X()
		assert.GreaterOrEqual(t, cross, float32(0), "triangle %d", i/3)
	}
	for _, v := range f.Vertices {
		assert.Equal(t, mgl32.Vec2{0.5, 0.5}, v.TexCoord)
		assert.Zero(t, v.Position.Z())
	}
}

// rectAt returns the bounds and colour of the n-th rectangle in the draw list.
func rectAt(f Frame, n int) (mgl32.Vec2, mgl32.Vec2, color.NRGBA) {
	lo := f.Vertices[6*n].Position.Vec2()
	hi := f.Vertices[6*n+2].Position.Vec2()
	return lo, hi, f.Vertices[6*n].Color
}

func assertRect(t *testing.T, f Frame, n int, lo, hi mgl32.Vec2, c color.NRGBA) {
	t.Helper()
	gotLo, gotHi, gotC := rectAt(f, n)
	assert.InDelta(t, lo.X(), gotLo.X(), 1e-5, "rect %d min x", n)
	assert.InDelta(t, lo.Y(), gotLo.Y(), 1e-5, "rect %d min y", n)
	assert.InDelta(t, hi.X(), gotHi.X(), 1e-5, "rect %d max x", n)
	assert.InDelta(t, hi.Y(), gotHi.Y(), 1e-5, "rect %d max y", n)
	assert.Equal(t, c, gotC, "rect %d colour", n)
}

func TestRenderLayout(t *testing.T) {
	f := NewGame().Frame(800, 600)

	// Walls.
	assertRect(t, f, 0, mgl32.Vec2{-7.1, -5.1}, mgl32.Vec2{-7, 5.1}, wallColor)
	assertRect(t, f, 1, mgl32.Vec2{7, -5.1}, mgl32.Vec2{7.1, 5.1}, wallColor)
	assertRect(t, f, 2, mgl32.Vec2{-7, -5.1}, mgl32.Vec2{7, -5}, wallColor)
	assertRect(t, f, 3, mgl32.Vec2{-7, 5}, mgl32.Vec2{7, 5.1}, wallColor)

	// Left paddle and face.
	assertRect(t, f, 4, mgl32.Vec2{-7, -1}, mgl32.Vec2{-6, 1}, paddleColors[Left])
	assertRect(t, f, 5, mgl32.Vec2{-6.0, -0.6}, mgl32.Vec2{-5.6, 0}, mouthColor)
	assertRect(t, f, 6, mgl32.Vec2{-6.4, 0.35}, mgl32.Vec2{-6.1, 0.65}, eyeColor)
	assertRect(t, f, 7, mgl32.Vec2{-6.65, 0.6}, mgl32.Vec2{-6.05, 0.8}, eyebrowColor)

	// Right paddle and mirrored face.
	assertRect(t, f, 8, mgl32.Vec2{6, -1}, mgl32.Vec2{7, 1}, paddleColors[Right])
	assertRect(t, f, 9, mgl32.Vec2{5.6, -0.6}, mgl32.Vec2{6.0, 0}, mouthColor)
	assertRect(t, f, 10, mgl32.Vec2{6.1, 0.35}, mgl32.Vec2{6.4, 0.65}, eyeColor)

	// Empty charge bars.
	assertRect(t, f, 12, mgl32.Vec2{-7.15, 5.2}, mgl32.Vec2{-6.45, 5.8}, bulletColors[0])
	assertRect(t, f, 13, mgl32.Vec2{6.45, 5.2}, mgl32.Vec2{7.15, 5.8}, bulletColors[0])

	// Full HP bars.
	assertRect(t, f, 14, mgl32.Vec2{-7.1, -5.8}, mgl32.Vec2{-2.1, -5.2}, hitColor)
	assertRect(t, f, 15, mgl32.Vec2{2.1, -5.8}, mgl32.Vec2{7.1, -5.2}, hitColor)
}

func TestRenderReflectsState(t *testing.T) {
	s := NewGame().State()
	s.Paddles[Right].Hit = true
	s.Paddles[Right].HP = 50
	s.Paddles[Left].Level = 2
	s.Bullets = []BulletState{{Shooter: Left, Position: mgl32.Vec2{1, 2}, Level: 3, Radius: 0.8}}

	f := Render(s, 800, 600)

	assertRect(t, f, 0, mgl32.Vec2{0.2, 1.2}, mgl32.Vec2{1.8, 2.8}, bulletColors[3])
	_, _, body := rectAt(f, 1+8)
	assert.Equal(t, hitColor, body, "hit paddle drawn in hit colour")
	assertRect(t, f, 1+12, mgl32.Vec2{-7.15, 5.2}, mgl32.Vec2{-4.05, 5.8}, bulletColors[2])
	assertRect(t, f, 1+15, mgl32.Vec2{4.6, -5.8}, mgl32.Vec2{7.1, -5.2}, hitColor)
}

func TestSceneTransformsFitScene(t *testing.T) {
	for _, size := range [][2]int{{800, 600}, {600, 800}, {1000, 1000}, {1920, 1080}} {
		f := Render(NewGame().State(), size[0], size[1])

		corner := f.ToClip(mgl32.Vec2{7.24, 6.04})
		assert.LessOrEqual(t, corner.X(), float32(1.0001), "%v", size)
		assert.LessOrEqual(t, corner.Y(), float32(1.0001), "%v", size)
		assert.True(t, mgl32.Abs(corner.X()-1) < 1e-4 || mgl32.Abs(corner.Y()-1) < 1e-4,
			"scene touches one edge: %v at %v", corner, size)

		centre := f.ToClip(mgl32.Vec2{0, 0})
		assert.InDelta(t, 0, centre.X(), 1e-6)
		assert.InDelta(t, 0, centre.Y(), 1e-6)
	}
}

func TestSceneTransformsAreInverse(t *testing.T) {
	f := Render(NewGame().State(), 1280, 720)

	for _, p := range []mgl32.Vec2{{0, 0}, {7, 5}, {-6.5, 0.3}, {3.2, -4.9}} {
		back := f.ToCourt(f.ToClip(p))
		assert.InDelta(t, p.X(), back.X(), 1e-4)
		assert.InDelta(t, p.Y(), back.Y(), 1e-4)

		px, py := f.ToPixels(p)
		again := f.PixelsToCourt(px, py)
		assert.InDelta(t, p.X(), again.X(), 1e-3)
		assert.InDelta(t, p.Y(), again.Y(), 1e-3)
	}

	x, y := f.ToPixels(mgl32.Vec2{0, 0})
	assert.InDelta(t, 640, x, 1e-3)
	assert.InDelta(t, 360, y, 1e-3)

	_, top := f.ToPixels(mgl32.Vec2{0, 5})
	assert.Less(t, top, y, "court y up is pixel y down")
}

func TestSceneTransformsDegenerateSize(t *testing.T) {
	toClip, toCourt := SceneTransforms(CourtRadius, 0, 0)
	assert.False(t, toClip.ApproxEqual(mgl32.Mat4{}))
	assert.False(t, toCourt.ApproxEqual(mgl32.Mat3{}))
}

func TestOpaqueClear(t *testing.T) {
	f := Render(NewGame().State(), 100, 100)
	assert.Equal(t, uint8(0x11), f.Clear.A)
	assert.Equal(t, color.NRGBA{R: 0x85, G: 0xc7, B: 0x6d, A: 0xff}, f.OpaqueClear())
}
