package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/chargepong/pong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertColorNear(t *testing.T, want color.NRGBA, got color.Color, msg string) {
	t.Helper()
	c := color.NRGBAModel.Convert(got).(color.NRGBA)
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -3 && d <= 3
	}
	assert.True(t, near(want.R, c.R) && near(want.G, c.G) && near(want.B, c.B) && near(want.A, c.A),
		"%s: want %v, got %v", msg, want, c)
}

func pixel(img image.Image, f pong.Frame, p mgl32.Vec2) color.Color {
	x, y := f.ToPixels(p)
	return img.At(int(x), int(y))
}

func TestRenderDrawsScene(t *testing.T) {
	g := pong.NewGame()
	f := g.Frame(560, 400)

	img, err := Render(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 560, 400), img.Bounds())

	background := pong.BackgroundColor()
	background.A = 0xff
	assertColorNear(t, background, pixel(img, f, mgl32.Vec2{0, 2}), "court")
	assertColorNear(t, color.NRGBA{R: 0xf2, G: 0x9d, B: 0xfa, A: 0xff}, pixel(img, f, mgl32.Vec2{-6.5, -0.8}), "left paddle")
	assertColorNear(t, color.NRGBA{R: 0xa1, G: 0xa5, B: 0xff, A: 0xff}, pixel(img, f, mgl32.Vec2{6.5, -0.8}), "right paddle")
	assertColorNear(t, color.NRGBA{R: 0xd9, G: 0xd3, B: 0x6f, A: 0xff}, pixel(img, f, mgl32.Vec2{0, 5.05}), "top wall")
	assertColorNear(t, color.NRGBA{R: 0xff, G: 0x3e, B: 0x1c, A: 0xff}, pixel(img, f, mgl32.Vec2{-4.6, -5.5}), "hp bar")
}

func TestWriteProducesPNG(t *testing.T) {
	f := pong.NewGame().Frame(140, 100)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 140, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, Save(path, pong.NewGame().Frame(70, 50)))

	err := Save(filepath.Join(t.TempDir(), "missing", "frame.png"), pong.NewGame().Frame(70, 50))
	assert.Error(t, err)
}

func TestRejectsEmptyFrame(t *testing.T) {
	_, err := Render(pong.Frame{})
	assert.Error(t, err)
}
