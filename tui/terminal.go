// Package tui plays a pong.Game in a terminal through tcell. Each cell shows
// two pixels with an upper half block, so the court keeps its proportions.
package tui

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/chargepong/pong"
)

const halfBlock = '▀'

// holdable keys steer a paddle and are released by timeout.
var holdable = map[pong.Key]pong.Key{
	pong.KeyW:    pong.KeyS,
	pong.KeyS:    pong.KeyW,
	pong.KeyUp:   pong.KeyDown,
	pong.KeyDown: pong.KeyUp,
}

// Terminal drives a game from a tcell screen.
type Terminal struct {
	screen    tcell.Screen
	game      *pong.Game
	logger    *slog.Logger
	tps       int
	hold      time.Duration
	listeners []func(pong.Event)

	held  map[pong.Key]time.Time
	now   func() time.Time
	loser bool
}

type Option func(*Terminal)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Terminal) {
		t.logger = logger
	}
}

// WithTPS sets how many game updates and redraws run per second.
func WithTPS(tps int) Option {
	return func(t *Terminal) {
		t.tps = tps
	}
}

// WithHold sets how long a steering key stays down after its last press or
// repeat. Terminals report no key releases.
func WithHold(hold time.Duration) Option {
	return func(t *Terminal) {
		t.hold = hold
	}
}

// WithEventListener receives every game event after each update.
func WithEventListener(fn func(pong.Event)) Option {
	return func(t *Terminal) {
		t.listeners = append(t.listeners, fn)
	}
}

func New(screen tcell.Screen, game *pong.Game, opts ...Option) *Terminal {
	t := &Terminal{
		screen: screen,
		game:   game,
		logger: slog.New(slog.DiscardHandler),
		tps:    30,
		hold:   150 * time.Millisecond,
		held:   map[pong.Key]time.Time{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run initialises the screen and plays until ctx is done or the player quits
// with Escape or Ctrl-C. The screen is finalised on return.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()
	t.screen.HideCursor()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(t.screen, events, done)

	interval := time.Second / time.Duration(t.tps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.logger.Info("terminal open", "tps", t.tps, "hold", t.hold)
	t.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if t.HandleEvent(ev) {
				t.logger.Info("terminal closed")
				return nil
			}
		case <-ticker.C:
			t.Step(interval.Seconds())
			t.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed, whichever comes first.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent applies one terminal event and reports whether the player quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if key := translate(ev); key != pong.KeyUnknown {
			t.press(key)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

func translate(ev *tcell.EventKey) pong.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return pong.KeyUp
	case tcell.KeyDown:
		return pong.KeyDown
	case tcell.KeyLeft:
		return pong.KeyLeft
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return pong.KeyW
		case 's', 'S':
			return pong.KeyS
		case 'd', 'D':
			return pong.KeyD
		case 'r', 'R':
			return pong.KeyR
		}
	}
	return pong.KeyUnknown
}

func (t *Terminal) press(key pong.Key) {
	other, ok := holdable[key]
	if !ok {
		t.game.HandleKey(key, true)
		t.game.HandleKey(key, false)
		if key == pong.KeyR {
			// Reset stops both paddles; held keys must press again.
			clear(t.held)
		}
		return
	}

	// The opposite key of the same paddle is superseded, not released, so
	// its timeout cannot stop the new direction.
	delete(t.held, other)
	if _, down := t.held[key]; !down {
		t.game.HandleKey(key, true)
	}
	t.held[key] = t.now().Add(t.hold)
}

// Step releases expired steering keys, advances the game by dt seconds and
// dispatches the resulting events.
func (t *Terminal) Step(dt float64) {
	now := t.now()
	for key, deadline := range t.held {
		if now.After(deadline) {
			delete(t.held, key)
			t.game.HandleKey(key, false)
		}
	}

	t.game.Update(dt)

	for _, ev := range t.game.DrainEvents() {
		for _, fn := range t.listeners {
			fn(ev)
		}
	}

	if side, lost := t.game.Loser(); lost != t.loser {
		t.loser = lost
		if lost {
			t.logger.Info("match decided", "loser", side)
		}
	}
}

// Draw renders the current frame onto the whole screen.
func (t *Terminal) Draw() {
	cols, rows := t.screen.Size()
	frame := t.game.Frame(cols, rows*2)
	pixels := Raster(&frame)
	if pixels == nil {
		return
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := pixels[(2*y)*cols+x]
			bottom := pixels[(2*y+1)*cols+x]
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	t.screen.Show()
}

func cellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
