// Package pong implements a two-paddle shooting variant of Pong on top of the
// ecs package. Paddles charge bullets over time; a bullet's level decides its
// size, speed and damage. The host feeds key events and elapsed time, then asks
// for a Frame to draw.
package pong

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/chargepong/ecs"
)

// Key is a host-independent key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyR
)

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyR:
		return "R"
	}
	return "Unknown"
}

type paddleEntity struct {
	Id ecs.EntityId
	*Paddle
	*Position
	*Movement
	*Charge
	*Health
	*HitFlash
}

type bulletEntity struct {
	Id ecs.EntityId
	*Bullet
	*Position
}

type options struct {
	logger     *slog.Logger
	components []func(*ecs.ComponentRegistry)
	systems    []ecs.System
}

// Option configures NewGame.
type Option func(*options)

// WithLogger sets the logger used for shot and hit debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithComponents registers extra component types in the game's world, for
// hosts that attach their own entities (debug overlays, for instance).
func WithComponents(register func(*ecs.ComponentRegistry)) Option {
	return func(o *options) {
		o.components = append(o.components, register)
	}
}

// WithSystems appends systems that run after the game systems every Update.
func WithSystems(systems ...ecs.System) Option {
	return func(o *options) {
		o.systems = append(o.systems, systems...)
	}
}

// Game owns the ECS world of one match.
type Game struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	logger    *slog.Logger

	court  *ecs.Singleton[Court]
	clock  *ecs.Singleton[Clock]
	events *ecs.Singleton[Events]

	paddles [2]ecs.EntityId
	fired   uint64
	paddleV *ecs.View[paddleEntity]
	bulletV *ecs.View[bulletEntity]
}

// NewGame builds the world, spawns both paddles and registers the systems in
// frame order.
func NewGame(opts ...Option) *Game {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, register := range o.components {
		register(registry)
	}
	storage := ecs.NewStorage(registry)

	g := &Game{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		logger:    o.logger,
		court:     ecs.NewSingleton(storage, Court{Radius: CourtRadius, PaddleRadius: PaddleRadius}),
		clock:     ecs.NewSingleton[Clock](storage),
		events:    ecs.NewSingleton[Events](storage),
		paddleV:   ecs.NewView[paddleEntity](storage),
		bulletV:   ecs.NewView[bulletEntity](storage),
	}

	for _, side := range []Side{Left, Right} {
		g.paddles[side] = storage.Spawn(
			Paddle{Side: side},
			Position{StartPosition(side)},
			Movement{},
			Charge{},
			Health{HP: MaxHP, Max: MaxHP},
			HitFlash{},
		)
	}

	g.scheduler.Register(&ChargeSystem{})
	g.scheduler.Register(&MovementSystem{})
	g.scheduler.Register(&BulletSystem{})
	g.scheduler.Register(&ClampSystem{})
	g.scheduler.Register(&HitFlashSystem{})
	g.scheduler.Register(&CollisionSystem{})
	for _, system := range o.systems {
		g.scheduler.Register(system)
	}

	return g
}

// Storage exposes the world for debug tooling.
func (g *Game) Storage() *ecs.Storage {
	return g.storage
}

// Scheduler exposes the system scheduler for debug tooling.
func (g *Game) Scheduler() *ecs.Scheduler {
	return g.scheduler
}

func (g *Game) paddle(side Side) *paddleEntity {
	return g.paddleV.Get(g.paddles[side])
}

// HandleKey applies one key press or release.
func (g *Game) HandleKey(key Key, pressed bool) {
	switch key {
	case KeyW:
		g.steer(Left, Up, pressed)
	case KeyS:
		g.steer(Left, Down, pressed)
	case KeyUp:
		g.steer(Right, Up, pressed)
	case KeyDown:
		g.steer(Right, Down, pressed)
	case KeyD:
		if pressed {
			g.Fire(Left)
		}
	case KeyLeft:
		if pressed {
			g.Fire(Right)
		}
	case KeyR:
		if pressed {
			g.Reset()
		}
	}
}

// steer sets the direction on press. Releasing either movement key of a side stops it.
func (g *Game) steer(side Side, dir Dir, pressed bool) {
	p := g.paddle(side)
	if p == nil {
		return
	}
	if pressed {
		p.Movement.Dir = dir
	} else {
		p.Movement.Dir = Still
	}
}

// Fire launches a bullet from side's muzzle when its charge level is at least
// one, then empties the charge. It reports whether a bullet was spawned.
func (g *Game) Fire(side Side) bool {
	p := g.paddle(side)
	if p == nil || p.Charge.Level < 1 {
		return false
	}

	level := p.Charge.Level
	origin := p.Position.Add(MuzzleOffset(side, g.court.Get().PaddleRadius))
	p.Charge.reset()
	g.fired++

	g.storage.Spawn(
		Bullet{
			Shooter: side,
			Speed:   BulletSpeed(level),
			Radius:  BulletRadius(level),
			Level:   level,
			Seq:     g.fired,
		},
		Position{origin},
	)

	now := g.clock.Get().Now
	g.events.Get().push(Event{Kind: EventShot, Side: side, Level: level, Time: now})
	g.logger.Debug("shot", "side", side, "level", level, "time", now)
	return true
}

// Update advances the match by elapsed seconds. Negative values are treated as zero.
func (g *Game) Update(elapsed float64) {
	elapsed = max(elapsed, 0)

	events := g.events.Get()
	before := len(events.List)
	g.scheduler.Once(elapsed)

	for _, ev := range events.List[before:] {
		if ev.Kind == EventHit {
			g.logger.Debug("hit", "side", ev.Side, "level", ev.Level, "damage", ev.Damage, "hp", ev.HP)
		}
	}
}

// Reset restores both paddles to their starting state, removes all bullets
// and rewinds the clock. Entities owned by the host are left alone.
func (g *Game) Reset() {
	for id := range g.bulletV.All() {
		g.storage.Delete(id)
	}

	for side, id := range g.paddles {
		p := g.paddleV.Get(id)
		if p == nil {
			continue
		}
		p.Position.Vec2 = StartPosition(Side(side))
		*p.Movement = Movement{}
		*p.Charge = Charge{}
		*p.Health = Health{HP: MaxHP, Max: MaxHP}
		*p.HitFlash = HitFlash{}
	}

	*g.clock.Get() = Clock{}
	g.events.Get().List = nil
	g.logger.Info("match reset")
}

// Events returns the events recorded since the last DrainEvents.
func (g *Game) Events() []Event {
	return g.events.Get().List
}

// DrainEvents returns the pending events and clears the buffer.
func (g *Game) DrainEvents() []Event {
	events := g.events.Get()
	list := events.List
	events.List = nil
	return list
}

// Loser returns the first side whose HP has reached zero. The match keeps
// running either way; hosts decide what to do with a finished match.
func (g *Game) Loser() (Side, bool) {
	for _, side := range []Side{Left, Right} {
		if p := g.paddle(side); p != nil && p.Health.HP == 0 {
			return side, true
		}
	}
	return Left, false
}

// PaddleState is the read-only view of one paddle.
type PaddleState struct {
	Side      Side
	Position  mgl32.Vec2
	Dir       Dir
	HP        int
	MaxHP     int
	Level     int
	StoreTime float64
	Hit       bool
	LastHit   float64
}

// BulletState is the read-only view of one bullet.
type BulletState struct {
	Shooter  Side
	Position mgl32.Vec2
	Level    int
	Speed    float32
	Radius   float32
}

// State is a flat snapshot of a match, detached from the world. Bullets are
// listed in firing order.
type State struct {
	Court   Court
	Clock   float64
	Paddles [2]PaddleState
	Bullets []BulletState
}

// State copies the current match out of the world.
func (g *Game) State() State {
	s := State{
		Court: *g.court.Get(),
		Clock: g.clock.Get().Now,
	}

	for side, id := range g.paddles {
		p := g.paddleV.Get(id)
		if p == nil {
			continue
		}
		s.Paddles[side] = PaddleState{
			Side:      p.Paddle.Side,
			Position:  p.Position.Vec2,
			Dir:       p.Movement.Dir,
			HP:        p.Health.HP,
			MaxHP:     p.Health.Max,
			Level:     p.Charge.Level,
			StoreTime: p.Charge.StoreTime,
			Hit:       p.HitFlash.Active,
			LastHit:   p.HitFlash.LastHit,
		}
	}

	bullets := make([]bulletEntity, 0, g.bulletV.Count())
	for _, b := range g.bulletV.All() {
		if !b.Bullet.Spent {
			bullets = append(bullets, b)
		}
	}
	slices.SortFunc(bullets, func(a, b bulletEntity) int {
		return cmp.Compare(a.Bullet.Seq, b.Bullet.Seq)
	})
	for _, b := range bullets {
		s.Bullets = append(s.Bullets, BulletState{
			Shooter:  b.Bullet.Shooter,
			Position: b.Position.Vec2,
			Level:    b.Bullet.Level,
			Speed:    b.Bullet.Speed,
			Radius:   b.Bullet.Radius,
		})
	}

	return s
}

// Frame renders the current state for a drawable of w by h pixels.
func (g *Game) Frame(w, h int) Frame {
	return Render(g.State(), w, h)
}
