// Package snapshot rasterises a pong.Frame into a PNG image without a window.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/gogpu/gg"
	"github.com/plus3/chargepong/pong"
)

// Render draws f onto a new image of f.Width by f.Height pixels. The clear
// colour is drawn opaque, the way a window shows it.
func Render(f pong.Frame) (image.Image, error) {
	var img *image.NRGBA
	err := withContext(f, func(dc *gg.Context) error {
		src := dc.Image()
		img = image.NewNRGBA(src.Bounds())
		draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
		return nil
	})
	return img, err
}

// Write encodes f as PNG to w.
func Write(w io.Writer, f pong.Frame) error {
	return withContext(f, func(dc *gg.Context) error {
		return dc.EncodePNG(w)
	})
}

// Save writes f as a PNG file at path.
func Save(path string, f pong.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Write(file, f); err != nil {
		file.Close()
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	return file.Close()
}

func withContext(f pong.Frame, use func(*gg.Context) error) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("snapshot size %dx%d must be positive", f.Width, f.Height)
	}

	dc := gg.NewContext(f.Width, f.Height)
	defer dc.Close()

	dc.ClearWithColor(toRGBA(f.OpaqueClear()))

	if err := fill(dc, &f); err != nil {
		return err
	}
	return use(dc)
}

// fill draws the triangle list. Consecutive triangles of one colour share a
// path so that the diagonal of each rectangle leaves no anti-aliasing seam.
func fill(dc *gg.Context, f *pong.Frame) error {
	vertices := f.Vertices
	for start := 0; start+3 <= len(vertices); {
		c := vertices[start].Color
		end := start
		for end+3 <= len(vertices) && vertices[end].Color == c {
			end += 3
		}

		for i := start; i < end; i += 3 {
			for j := 0; j < 3; j++ {
				x, y := f.ToPixels(vertices[i+j].Position.Vec2())
				if j == 0 {
					dc.MoveTo(float64(x), float64(y))
				} else {
					dc.LineTo(float64(x), float64(y))
				}
			}
			dc.ClosePath()
		}

		dc.SetRGBA(rgba(c))
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill triangles %d-%d: %w", start/3, end/3, err)
		}
		start = end
	}
	return nil
}

func rgba(c color.NRGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func toRGBA(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(rgba(c))
}
