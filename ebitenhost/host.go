// Package ebitenhost runs a pong.Game in an Ebiten window.
package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/chargepong/ecs/debugui"
	debugui_ebiten "github.com/plus3/chargepong/ecs/debugui/ebiten"
	"github.com/plus3/chargepong/pong"
)

var keyMap = map[ebiten.Key]pong.Key{
	ebiten.KeyW:         pong.KeyW,
	ebiten.KeyS:         pong.KeyS,
	ebiten.KeyD:         pong.KeyD,
	ebiten.KeyArrowUp:   pong.KeyUp,
	ebiten.KeyArrowDown: pong.KeyDown,
	ebiten.KeyArrowLeft: pong.KeyLeft,
	ebiten.KeyR:         pong.KeyR,
}

// Host implements ebiten.Game around a pong.Game.
type Host struct {
	game      *pong.Game
	logger    *slog.Logger
	tps       int
	imgui     *debugui_ebiten.ImguiBackend
	panel     *matchPanel
	listeners []func(pong.Event)

	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	width    int
	height   int
	loser    bool
}

type Option func(*Host)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithTPS sets the tick rate; each Update advances the game by 1/tps seconds.
func WithTPS(tps int) Option {
	return func(h *Host) {
		h.tps = tps
	}
}

// WithImgui draws the Dear ImGui overlay from backend on top of the game.
// The game must be built with DebugOptions.
func WithImgui(backend *debugui_ebiten.ImguiBackend) Option {
	return func(h *Host) {
		h.imgui = backend
	}
}

// WithEventListener receives every game event after each Update.
func WithEventListener(fn func(pong.Event)) Option {
	return func(h *Host) {
		h.listeners = append(h.listeners, fn)
	}
}

func New(game *pong.Game, opts ...Option) *Host {
	h := &Host{
		game:   game,
		logger: slog.New(slog.DiscardHandler),
		tps:    ebiten.DefaultTPS,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.imgui != nil {
		h.panel = &matchPanel{game: game}
		debugui.SpawnDebugUI(game.Scheduler())
		game.Storage().Spawn(debugui.ImguiItem{Title: "Match", Render: h.panel.Render})
	}
	return h
}

// Run opens the window and blocks until it is closed or Escape is pressed.
func (h *Host) Run(title string, width, height int) error {
	if h.imgui != nil {
		h.imgui.CreateWindow(title, width, height)
		imgui.CurrentIO().SetIniFilename("")
	} else {
		ebiten.SetWindowTitle(title)
		ebiten.SetWindowSize(width, height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(h.tps)

	h.white = ebiten.NewImage(1, 1)
	h.white.Fill(color.White)
	defer func() {
		h.white.Deallocate()
		h.white = nil
	}()

	h.logger.Info("window open", "title", title, "width", width, "height", height, "tps", h.tps)
	err := ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	h.logger.Info("window closed")
	return nil
}

func (h *Host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if h.imgui != nil {
		h.imgui.BeginFrame()
		defer h.imgui.EndFrame()
	}

	if h.imgui == nil || !imgui.CurrentIO().WantCaptureKeyboard() {
		h.forwardKeys()
	}

	h.game.Update(1 / float64(h.tps))
	if h.panel != nil {
		h.panel.apply()
	}

	for _, ev := range h.game.DrainEvents() {
		for _, fn := range h.listeners {
			fn(ev)
		}
	}

	if side, lost := h.game.Loser(); lost != h.loser {
		h.loser = lost
		if lost {
			h.logger.Info("match decided", "loser", side)
		}
	}
	return nil
}

func (h *Host) forwardKeys() {
	for ek, pk := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			h.game.HandleKey(pk, true)
		}
		if inpututil.IsKeyJustReleased(ek) {
			h.game.HandleKey(pk, false)
		}
	}
}

func (h *Host) Draw(screen *ebiten.Image) {
	frame := h.game.Frame(h.width, h.height)
	screen.Fill(frame.OpaqueClear())

	h.vertices, h.indices = appendVertices(h.vertices[:0], h.indices[:0], &frame)
	screen.DrawTriangles(h.vertices, h.indices, h.white, &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
	})

	if h.imgui != nil {
		h.imgui.Draw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.imgui != nil {
		h.imgui.Layout(outsideWidth, outsideHeight)
	}
	h.width, h.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
