package tui

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/chargepong/pong"
)

// Raster samples f at every pixel centre and returns f.Width*f.Height
// colours in row-major order. Triangles are painted in list order with
// straight-alpha blending over an opaque clear colour.
func Raster(f *pong.Frame) []color.NRGBA {
	if f.Width <= 0 || f.Height <= 0 {
		return nil
	}

	bg := f.OpaqueClear()
	pixels := make([]color.NRGBA, f.Width*f.Height)
	for i := range pixels {
		pixels[i] = bg
	}

	for i := 0; i+3 <= len(f.Vertices); i += 3 {
		tri := f.Vertices[i : i+3]
		var a, b, c mgl32.Vec2
		a[0], a[1] = f.ToPixels(tri[0].Position.Vec2())
		b[0], b[1] = f.ToPixels(tri[1].Position.Vec2())
		c[0], c[1] = f.ToPixels(tri[2].Position.Vec2())
		if cross(a, b, c) == 0 {
			continue
		}

		minX := max(0, int(min(a.X(), b.X(), c.X())))
		maxX := min(f.Width-1, int(max(a.X(), b.X(), c.X())))
		minY := max(0, int(min(a.Y(), b.Y(), c.Y())))
		maxY := min(f.Height-1, int(max(a.Y(), b.Y(), c.Y())))

		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
				if inTriangle(p, a, b, c) {
					idx := y*f.Width + x
					pixels[idx] = blend(pixels[idx], tri[0].Color)
				}
			}
		}
	}
	return pixels
}

// inTriangle accepts either winding; points on an edge are inside.
func inTriangle(p, a, b, c mgl32.Vec2) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

func cross(a, b, p mgl32.Vec2) float32 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

func blend(dst, src color.NRGBA) color.NRGBA {
	if src.A == 0xff {
		return src
	}
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(0xff-a)) / 0xff)
	}
	return color.NRGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 0xff}
}
