package pong

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/chargepong/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTime = 1.0 / 60.0

// stepUntil advances the game in frameTime steps until cond holds or the frame budget runs out.
func stepUntil(g *Game, frames int, cond func() bool) bool {
	for i := 0; i < frames; i++ {
		g.Update(frameTime)
		if cond() {
			return true
		}
	}
	return false
}

func TestNewGameInitialState(t *testing.T) {
	g := NewGame()
	s := g.State()

	assert.Equal(t, CourtRadius, s.Court.Radius)
	assert.Equal(t, PaddleRadius, s.Court.PaddleRadius)
	assert.Zero(t, s.Clock)
	assert.Empty(t, s.Bullets)

	for _, side := range []Side{Left, Right} {
		p := s.Paddles[side]
		assert.Equal(t, side, p.Side)
		assert.Equal(t, StartPosition(side), p.Position)
		assert.Equal(t, Still, p.Dir)
		assert.Equal(t, MaxHP, p.HP)
		assert.Equal(t, MaxHP, p.MaxHP)
		assert.Zero(t, p.Level)
		assert.False(t, p.Hit)
	}

	_, lost := g.Loser()
	assert.False(t, lost)
}

func TestChargeAccumulates(t *testing.T) {
	g := NewGame()

	g.Update(1.0)
	assert.Equal(t, 0, g.State().Paddles[Left].Level)

	g.Update(0.5)
	s := g.State()
	assert.Equal(t, 1, s.Paddles[Left].Level)
	assert.Equal(t, 1, s.Paddles[Right].Level)
	assert.InDelta(t, 1.5, s.Paddles[Left].StoreTime, 1e-9)

	g.Update(10)
	assert.Equal(t, MaxLevel, g.State().Paddles[Left].Level)
}

func TestPaddleMovement(t *testing.T) {
	g := NewGame()

	g.HandleKey(KeyW, true)
	g.Update(0.1)
	assert.InDelta(t, 1.0, g.State().Paddles[Left].Position.Y(), 1e-5)

	g.HandleKey(KeyS, true)
	g.Update(0.1)
	assert.InDelta(t, 0.0, g.State().Paddles[Left].Position.Y(), 1e-5)

	// Releasing either key stops the paddle even while the other is held.
	g.HandleKey(KeyW, false)
	assert.Equal(t, Still, g.State().Paddles[Left].Dir)
	g.Update(0.1)
	assert.InDelta(t, 0.0, g.State().Paddles[Left].Position.Y(), 1e-5)

	g.HandleKey(KeyDown, true)
	g.Update(0.2)
	s := g.State()
	assert.InDelta(t, -2.0, s.Paddles[Right].Position.Y(), 1e-5)
	assert.Equal(t, Down, s.Paddles[Right].Dir)
	assert.Zero(t, s.Paddles[Left].Position.Y())

	g.HandleKey(KeyUp, false)
	assert.Equal(t, Still, g.State().Paddles[Right].Dir)
}

func TestPaddlesClampToCourt(t *testing.T) {
	g := NewGame()

	g.HandleKey(KeyW, true)
	g.HandleKey(KeyDown, true)
	g.Update(3)

	s := g.State()
	assert.InDelta(t, 4.0, s.Paddles[Left].Position.Y(), 1e-6)
	assert.InDelta(t, -4.0, s.Paddles[Right].Position.Y(), 1e-6)
	assert.Equal(t, StartPosition(Left).X(), s.Paddles[Left].Position.X())
}

func TestFireRequiresCharge(t *testing.T) {
	g := NewGame()

	assert.False(t, g.Fire(Left))
	g.HandleKey(KeyD, true)
	assert.Empty(t, g.State().Bullets)
	assert.Empty(t, g.Events())

	g.Update(1.4)
	assert.False(t, g.Fire(Right))
	assert.Empty(t, g.State().Bullets)
}

func TestFireSpawnsBulletAndResetsCharge(t *testing.T) {
	g := NewGame()
	g.Update(3.2)

	g.HandleKey(KeyD, true)

	s := g.State()
	require.Len(t, s.Bullets, 1)
	b := s.Bullets[0]
	assert.Equal(t, Left, b.Shooter)
	assert.Equal(t, 2, b.Level)
	assert.Equal(t, BulletSpeed(2), b.Speed)
	assert.Equal(t, BulletRadius(2), b.Radius)
	assert.InDelta(t, -5.8, b.Position.X(), 1e-5)
	assert.InDelta(t, -0.3, b.Position.Y(), 1e-5)

	assert.Zero(t, s.Paddles[Left].Level)
	assert.Zero(t, s.Paddles[Left].StoreTime)
	assert.Equal(t, 2, s.Paddles[Right].Level, "other side keeps its charge")

	events := g.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventShot, Side: Left, Level: 2, Time: 3.2}, events[0])
	assert.Empty(t, g.Events())

	assert.False(t, g.Fire(Left), "charge is spent")
}

func TestBulletsListedInFiringOrder(t *testing.T) {
	g := NewGame()
	charge := func(side Side, level int) {
		g.paddle(side).Charge.Level = level
	}

	charge(Left, 1)
	require.True(t, g.Fire(Left))
	charge(Right, 1)
	require.True(t, g.Fire(Right))

	// Free the first bullet's slot so the next spawn reuses it.
	for id, b := range g.bulletV.All() {
		if b.Bullet.Shooter == Left {
			require.True(t, g.storage.Delete(id))
		}
	}
	charge(Left, 3)
	require.True(t, g.Fire(Left))

	bullets := g.State().Bullets
	require.Len(t, bullets, 2)
	assert.Equal(t, Right, bullets[0].Shooter)
	assert.Equal(t, Left, bullets[1].Shooter)
	assert.Equal(t, 3, bullets[1].Level)

	// The draw list follows the same order: the later bullet comes second.
	f := Render(g.State(), 800, 600)
	assert.Equal(t, bulletColors[1], f.Vertices[0].Color)
	assert.Equal(t, bulletColors[3], f.Vertices[6].Color)
}

func TestBulletsTravelAwayFromShooter(t *testing.T) {
	g := NewGame()
	g.Update(1.5)
	g.HandleKey(KeyD, true)
	g.HandleKey(KeyLeft, true)

	g.Update(0.1)
	s := g.State()
	require.Len(t, s.Bullets, 2)
	for _, b := range s.Bullets {
		if b.Shooter == Left {
			assert.InDelta(t, -5.8+2.9, b.Position.X(), 1e-4)
		} else {
			assert.InDelta(t, 5.8-2.9, b.Position.X(), 1e-4)
		}
		assert.InDelta(t, -0.3, b.Position.Y(), 1e-6)
	}
}

func TestBulletLeavingCourtIsRemoved(t *testing.T) {
	g := NewGame()

	// Park the right paddle at the top so the bullet passes below it.
	g.HandleKey(KeyUp, true)
	g.Update(1.5)
	require.True(t, g.Fire(Left))

	g.Update(0.1)
	require.Len(t, g.State().Bullets, 1)

	g.Update(0.5)
	assert.Empty(t, g.State().Bullets)
	assert.Equal(t, 2, g.Storage().Count(), "only paddles remain")
	assert.Equal(t, MaxHP, g.State().Paddles[Right].HP)
}

func TestBulletHitsOpposingPaddle(t *testing.T) {
	g := NewGame()
	g.Update(1.5)
	require.True(t, g.Fire(Left))
	g.DrainEvents()

	hit := stepUntil(g, 60, func() bool { return len(g.Events()) > 0 })
	require.True(t, hit)

	s := g.State()
	assert.Equal(t, MaxHP-Damage[1], s.Paddles[Right].HP)
	assert.True(t, s.Paddles[Right].Hit)
	assert.InDelta(t, s.Clock, s.Paddles[Right].LastHit, 1e-9)
	assert.Equal(t, MaxHP, s.Paddles[Left].HP)
	assert.Empty(t, s.Bullets)
	assert.Equal(t, 2, g.Storage().Count())

	events := g.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventHit, events[0].Kind)
	assert.Equal(t, Right, events[0].Side)
	assert.Equal(t, Damage[1], events[0].Damage)
	assert.Equal(t, MaxHP-Damage[1], events[0].HP)
}

func TestHitFlashExpires(t *testing.T) {
	g := NewGame()
	g.Update(1.5)
	g.HandleKey(KeyLeft, true)

	require.True(t, stepUntil(g, 60, func() bool { return g.State().Paddles[Left].Hit }))

	g.Update(0.05)
	assert.True(t, g.State().Paddles[Left].Hit, "still flashing")

	g.Update(0.06)
	assert.False(t, g.State().Paddles[Left].Hit)
	assert.Equal(t, MaxHP-Damage[1], g.State().Paddles[Left].HP, "damage stays")
}

func TestSpentBulletNeverHits(t *testing.T) {
	g := NewGame()

	// A bullet that leaves the court in the same frame it would overlap the paddle.
	g.Storage().Spawn(
		Bullet{Shooter: Left, Speed: 10, Radius: 0.1, Level: 3},
		Position{mgl32.Vec2{6.95, 0}},
	)
	g.Update(0.1)

	s := g.State()
	assert.Equal(t, MaxHP, s.Paddles[Right].HP)
	assert.False(t, s.Paddles[Right].Hit)
	assert.Empty(t, s.Bullets)
	assert.Empty(t, g.Events())
}

func TestHPFloorsAtZeroAndLoserReported(t *testing.T) {
	g := NewGame()
	g.paddle(Right).Health.HP = 15

	g.Update(4.5)
	require.True(t, g.Fire(Left))
	require.True(t, stepUntil(g, 60, func() bool { return g.State().Paddles[Right].Hit }))

	assert.Equal(t, 0, g.State().Paddles[Right].HP)
	side, lost := g.Loser()
	assert.True(t, lost)
	assert.Equal(t, Right, side)

	// The match keeps running.
	g.HandleKey(KeyW, true)
	g.Update(0.1)
	assert.Greater(t, g.State().Paddles[Left].Position.Y(), float32(0))
}

func TestResetRestoresInitialState(t *testing.T) {
	g := NewGame()
	initial := g.State()

	g.Update(1.5)
	g.HandleKey(KeyLeft, true)
	require.True(t, stepUntil(g, 60, func() bool { return g.State().Paddles[Left].Hit }))
	g.HandleKey(KeyW, true)
	g.Update(1.5)
	g.HandleKey(KeyD, true)
	require.NotEqual(t, initial, g.State())

	g.HandleKey(KeyR, true)

	assert.Equal(t, initial, g.State())
	assert.Empty(t, g.Events())
	assert.Equal(t, 2, g.Storage().Count())
}

func TestUpdateIgnoresNegativeElapsed(t *testing.T) {
	g := NewGame()
	g.HandleKey(KeyW, true)
	g.Update(-1)

	s := g.State()
	assert.Zero(t, s.Clock)
	assert.Zero(t, s.Paddles[Left].Position.Y())
	assert.Zero(t, s.Paddles[Left].StoreTime)
}

func TestUnknownKeysAreIgnored(t *testing.T) {
	g := NewGame()
	before := g.State()
	g.HandleKey(KeyUnknown, true)
	g.HandleKey(Key(99), false)
	assert.Equal(t, before, g.State())
}

type frameCounter struct {
	frames int
}

func (f *frameCounter) Execute(frame *ecs.UpdateFrame) {
	f.frames++
}

func TestExtraSystemsRunAfterGameSystems(t *testing.T) {
	counter := &frameCounter{}
	g := NewGame(WithSystems(counter))

	g.Update(frameTime)
	g.Update(frameTime)

	assert.Equal(t, 2, counter.frames)
	stats := g.Scheduler().GetStats()
	require.Equal(t, 7, stats.SystemCount)
	assert.Equal(t, "ChargeSystem", stats.Systems[0].Name)
	assert.Equal(t, "CollisionSystem", stats.Systems[5].Name)
	assert.Equal(t, "frameCounter", stats.Systems[6].Name)
}
