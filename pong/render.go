package pong

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of a draw-list triangle. Colours are straight alpha.
type Vertex struct {
	Position mgl32.Vec3
	Color    color.NRGBA
	TexCoord mgl32.Vec2
}

// Frame is everything a host needs to draw one frame: a triangle list in
// court space plus the transforms between court and clip space.
type Frame struct {
	Width, Height int
	Clear         color.NRGBA
	Vertices      []Vertex
	CourtToClip   mgl32.Mat4
	ClipToCourt   mgl32.Mat3
}

const (
	wallRadius   = 0.05
	scenePadding = 0.14
	barRoom      = 0.8
	barHalfH     = 0.3
	hpBarWidth   = 2.5
)

func hexColor(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

var (
	backgroundColor = hexColor(0x85c76d11)
	paddleColors    = [2]color.NRGBA{Left: hexColor(0xf29dfaff), Right: hexColor(0xa1a5ffff)}
	mouthColor      = hexColor(0xcf5d4eff)
	eyeColor        = hexColor(0x403837ff)
	eyebrowColor    = hexColor(0xfae7c8ff)
	hitColor        = hexColor(0xff3e1cff)
	wallColor       = hexColor(0xd9d36fff)
	bulletColors    = [MaxLevel + 1]color.NRGBA{
		hexColor(0x666666ff),
		hexColor(0x95ddfcff),
		hexColor(0x0593ffff),
		hexColor(0x2d40cfff),
	}
)

// BackgroundColor is the clear colour of every frame.
func BackgroundColor() color.NRGBA {
	return backgroundColor
}

type drawList []Vertex

// rect appends an axis-aligned rectangle as two counter-clockwise triangles.
func (d *drawList) rect(center, radius mgl32.Vec2, c color.NRGBA) {
	v := func(x, y float32) Vertex {
		return Vertex{Position: mgl32.Vec3{x, y, 0}, Color: c, TexCoord: mgl32.Vec2{0.5, 0.5}}
	}
	x0, y0 := center.X()-radius.X(), center.Y()-radius.Y()
	x1, y1 := center.X()+radius.X(), center.Y()+radius.Y()
	*d = append(*d,
		v(x0, y0), v(x1, y0), v(x1, y1),
		v(x0, y0), v(x1, y1), v(x0, y1),
	)
}

// mirror flips an offset horizontally for the right paddle.
func mirror(side Side, offset mgl32.Vec2) mgl32.Vec2 {
	if side == Right {
		return mgl32.Vec2{-offset.X(), offset.Y()}
	}
	return offset
}

// Render builds the draw list for state on a w by h drawable. Back to front:
// bullets, walls, paddles with faces, charge bars, HP bars.
func Render(state State, w, h int) Frame {
	court := state.Court
	cr, pr := court.Radius, court.PaddleRadius

	var d drawList
	for _, b := range state.Bullets {
		d.rect(b.Position, mgl32.Vec2{b.Radius, b.Radius}, bulletColors[min(max(b.Level, 0), MaxLevel)])
	}

	d.rect(mgl32.Vec2{-cr.X() - wallRadius, 0}, mgl32.Vec2{wallRadius, cr.Y() + 2*wallRadius}, wallColor)
	d.rect(mgl32.Vec2{cr.X() + wallRadius, 0}, mgl32.Vec2{wallRadius, cr.Y() + 2*wallRadius}, wallColor)
	d.rect(mgl32.Vec2{0, -cr.Y() - wallRadius}, mgl32.Vec2{cr.X(), wallRadius}, wallColor)
	d.rect(mgl32.Vec2{0, cr.Y() + wallRadius}, mgl32.Vec2{cr.X(), wallRadius}, wallColor)

	for _, p := range state.Paddles {
		body := paddleColors[p.Side]
		if p.Hit {
			body = hitColor
		}
		d.rect(p.Position, pr, body)
		d.rect(p.Position.Add(MuzzleOffset(p.Side, pr)), mgl32.Vec2{0.2, 0.3}, mouthColor)
		d.rect(p.Position.Add(mirror(p.Side, mgl32.Vec2{0.25, 0.5})), mgl32.Vec2{0.15, 0.15}, eyeColor)
		d.rect(p.Position.Add(mirror(p.Side, mgl32.Vec2{0.15, 0.7})), mgl32.Vec2{0.3, 0.1}, eyebrowColor)
	}

	for _, p := range state.Paddles {
		level := min(max(p.Level, 0), MaxLevel)
		grow := 0.6 * float32(level)
		center := mgl32.Vec2{-cr.X() + 0.2 + grow, cr.Y() + 0.5}
		d.rect(mirror(p.Side, center), mgl32.Vec2{0.35 + grow, barHalfH}, bulletColors[level])
	}

	for _, p := range state.Paddles {
		var fill float32
		if p.MaxHP > 0 {
			fill = hpBarWidth * float32(p.HP) / float32(p.MaxHP)
		}
		center := mgl32.Vec2{-cr.X() - 2*wallRadius + fill, -cr.Y() - 0.5}
		d.rect(mirror(p.Side, center), mgl32.Vec2{fill, barHalfH}, hitColor)
	}

	courtToClip, clipToCourt := SceneTransforms(cr, w, h)
	return Frame{
		Width:       w,
		Height:      h,
		Clear:       backgroundColor,
		Vertices:    d,
		CourtToClip: courtToClip,
		ClipToCourt: clipToCourt,
	}
}

// SceneTransforms fits the court, its walls and the bars into a w by h
// drawable, preserving aspect ratio and centring the scene.
func SceneTransforms(courtRadius mgl32.Vec2, w, h int) (mgl32.Mat4, mgl32.Mat3) {
	w, h = max(w, 1), max(h, 1)
	aspect := float32(w) / float32(h)

	margin := 2*wallRadius + scenePadding
	sceneMin := mgl32.Vec2{-courtRadius.X() - margin, -courtRadius.Y() - barRoom - margin}
	sceneMax := mgl32.Vec2{courtRadius.X() + margin, courtRadius.Y() + barRoom + margin}
	size := sceneMax.Sub(sceneMin)

	scale := min(2*aspect/size.X(), 2/size.Y())
	center := sceneMax.Add(sceneMin).Mul(0.5)

	courtToClip := mgl32.Mat4{
		scale / aspect, 0, 0, 0,
		0, scale, 0, 0,
		0, 0, 1, 0,
		-center.X() * scale / aspect, -center.Y() * scale, 0, 1,
	}
	clipToCourt := mgl32.Mat3{
		aspect / scale, 0, 0,
		0, 1 / scale, 0,
		center.X(), center.Y(), 1,
	}
	return courtToClip, clipToCourt
}

// ToClip maps a court-space point to clip space.
func (f *Frame) ToClip(p mgl32.Vec2) mgl32.Vec2 {
	return f.CourtToClip.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1}).Vec2()
}

// ToCourt maps a clip-space point back to court space.
func (f *Frame) ToCourt(clip mgl32.Vec2) mgl32.Vec2 {
	return f.ClipToCourt.Mul3x1(mgl32.Vec3{clip.X(), clip.Y(), 1}).Vec2()
}

// ToPixels maps a court-space point to drawable pixels, y pointing down.
func (f *Frame) ToPixels(p mgl32.Vec2) (float32, float32) {
	c := f.ToClip(p)
	return (c.X() + 1) * 0.5 * float32(f.Width), (1 - c.Y()) * 0.5 * float32(f.Height)
}

// PixelsToCourt maps a drawable pixel back to court space.
func (f *Frame) PixelsToCourt(x, y float32) mgl32.Vec2 {
	clip := mgl32.Vec2{2*x/float32(max(f.Width, 1)) - 1, 1 - 2*y/float32(max(f.Height, 1))}
	return f.ToCourt(clip)
}

// OpaqueClear is the clear colour with full alpha. A window framebuffer has no
// alpha of its own, so hosts clear with this rather than Clear.
func (f *Frame) OpaqueClear() color.NRGBA {
	c := f.Clear
	c.A = 0xff
	return c
}
