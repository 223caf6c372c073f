package pong

import (
	"github.com/plus3/chargepong/ecs"
)

// ChargeSystem accumulates charge time and derives bullet levels.
type ChargeSystem struct {
	Chargers ecs.Query[struct{ *Charge }]
}

func (s *ChargeSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Chargers.Iter() {
		item.Charge.advance(frame.DeltaTime)
	}
}

// MovementSystem moves paddles vertically according to their direction.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Movement
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	step := float32(PaddleSpeed * frame.DeltaTime)
	for item := range s.Movers.Iter() {
		switch item.Movement.Dir {
		case Up:
			item.Position.Vec2[1] += step
		case Down:
			item.Position.Vec2[1] -= step
		}
	}
}

// BulletSystem advances bullets towards the opposing side and removes those
// that leave the court horizontally.
type BulletSystem struct {
	Bullets ecs.Query[struct {
		Id ecs.EntityId
		*Bullet
		*Position
	}]
	Court ecs.Singleton[Court]
}

func (s *BulletSystem) Execute(frame *ecs.UpdateFrame) {
	limit := s.Court.Get().Radius.X()
	for item := range s.Bullets.Iter() {
		if item.Bullet.Spent {
			continue
		}

		step := item.Bullet.Speed * float32(frame.DeltaTime)
		if item.Bullet.Shooter == Right {
			step = -step
		}
		item.Position.Vec2[0] += step

		if x := item.Position.X(); x < -limit || x > limit {
			item.Bullet.Spent = true
			frame.Commands.Delete(item.Id)
		}
	}
}

// ClampSystem keeps paddles inside the court vertically.
type ClampSystem struct {
	Paddles ecs.Query[struct {
		*Paddle
		*Position
	}]
	Court ecs.Singleton[Court]
}

func (s *ClampSystem) Execute(frame *ecs.UpdateFrame) {
	court := s.Court.Get()
	limit := court.Radius.Y() - court.PaddleRadius.Y()
	for item := range s.Paddles.Iter() {
		item.Position.Vec2[1] = min(max(item.Position.Y(), -limit), limit)
	}
}

// HitFlashSystem advances the game clock and ends expired hit flashes.
type HitFlashSystem struct {
	Flashes ecs.Query[struct{ *HitFlash }]
	Clock   ecs.Singleton[Clock]
}

func (s *HitFlashSystem) Execute(frame *ecs.UpdateFrame) {
	clock := s.Clock.Get()
	clock.Now += frame.DeltaTime
	for item := range s.Flashes.Iter() {
		if item.HitFlash.Active && clock.Now-item.HitFlash.LastHit > HitFlashTime {
			item.HitFlash.Active = false
		}
	}
}

// CollisionSystem applies bullet hits to the opposing paddle.
type CollisionSystem struct {
	Bullets ecs.Query[struct {
		Id ecs.EntityId
		*Bullet
		*Position
	}]
	Paddles ecs.Query[struct {
		*Paddle
		*Position
		*Health
		*HitFlash
	}]
	Court  ecs.Singleton[Court]
	Clock  ecs.Singleton[Clock]
	Events ecs.Singleton[Events]
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	type target struct {
		pos   *Position
		hp    *Health
		flash *HitFlash
	}
	var targets [2]*target
	for item := range s.Paddles.Iter() {
		targets[item.Paddle.Side] = &target{pos: item.Position, hp: item.Health, flash: item.HitFlash}
	}

	paddleRadius := s.Court.Get().PaddleRadius
	now := s.Clock.Get().Now
	events := s.Events.Get()

	for item := range s.Bullets.Iter() {
		b := item.Bullet
		if b.Spent {
			continue
		}

		victim := b.Shooter.Opponent()
		t := targets[victim]
		if t == nil || !Hits(b.Shooter, item.Position.Vec2, b.Radius, t.pos.Vec2, paddleRadius) {
			continue
		}

		t.hp.Damage(Damage[b.Level])
		t.flash.Active = true
		t.flash.LastHit = now
		b.Spent = true
		frame.Commands.Delete(item.Id)

		events.push(Event{
			Kind:   EventHit,
			Side:   victim,
			Level:  b.Level,
			Damage: Damage[b.Level],
			HP:     t.hp.HP,
			Time:   now,
		})
	}
}
