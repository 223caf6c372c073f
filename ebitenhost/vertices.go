package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/chargepong/pong"
)

// appendVertices converts a frame's court-space triangle list to screen-space
// ebiten vertices sampling the centre of a 1x1 white source image.
func appendVertices(vs []ebiten.Vertex, is []uint16, f *pong.Frame) ([]ebiten.Vertex, []uint16) {
	for _, v := range f.Vertices {
		x, y := f.ToPixels(v.Position.Vec2())
		vs = append(vs, ebiten.Vertex{
			DstX:   x,
			DstY:   y,
			SrcX:   v.TexCoord.X(),
			SrcY:   v.TexCoord.Y(),
			ColorR: float32(v.Color.R) / 0xff,
			ColorG: float32(v.Color.G) / 0xff,
			ColorB: float32(v.Color.B) / 0xff,
			ColorA: float32(v.Color.A) / 0xff,
		})
		is = append(is, uint16(len(is)))
	}
	return vs, is
}
