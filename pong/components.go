package pong

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/chargepong/ecs"
)

// Paddle tags a paddle entity.
type Paddle struct {
	Side Side
}

// Position is the centre of a paddle or bullet in court units.
type Position struct {
	mgl32.Vec2
}

// Movement holds the direction the paddle's keys currently ask for.
type Movement struct {
	Dir Dir
}

// Charge accumulates time since the paddle last fired.
type Charge struct {
	StoreTime float64
	Level     int
}

func (c *Charge) advance(dt float64) {
	c.StoreTime += dt
	c.Level = ChargeLevel(c.StoreTime)
}

func (c *Charge) reset() {
	c.StoreTime = 0
	c.Level = 0
}

type Health struct {
	HP  int
	Max int
}

// Damage subtracts amount, flooring at zero.
func (h *Health) Damage(amount int) {
	h.HP = max(0, h.HP-amount)
}

// HitFlash is set while the paddle is drawn in the hit colour.
type HitFlash struct {
	Active  bool
	LastHit float64
}

// Bullet is a projectile in flight. Spent bullets have been culled or have hit
// something and are waiting for the end-of-frame delete.
type Bullet struct {
	Shooter Side
	Speed   float32
	Radius  float32
	Level   int
	Spent   bool
	// Seq orders bullets by firing time; storage slots are reused.
	Seq uint64
}

// Court is a world singleton with the playfield dimensions.
type Court struct {
	Radius       mgl32.Vec2
	PaddleRadius mgl32.Vec2
}

// Clock is game time, advanced by Update. Hit flashes are timed against it.
type Clock struct {
	Now float64
}

type EventKind int

const (
	EventShot EventKind = iota
	EventHit
)

func (k EventKind) String() string {
	if k == EventHit {
		return "hit"
	}
	return "shot"
}

// Event reports a shot or a hit. Side is the shooter for shots and the
// damaged paddle for hits.
type Event struct {
	Kind   EventKind
	Side   Side
	Level  int
	Damage int
	HP     int
	Time   float64
}

// Events buffers events until the host drains them.
type Events struct {
	List []Event
}

func (e *Events) push(ev Event) {
	e.List = append(e.List, ev)
}

// RegisterComponents adds every pong component type to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Paddle](registry)
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Movement](registry)
	ecs.RegisterComponent[Charge](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[HitFlash](registry)
	ecs.RegisterComponent[Bullet](registry)
}
