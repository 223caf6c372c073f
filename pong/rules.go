package pong

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Side identifies a paddle. Its value doubles as an index into per-side arrays.
type Side int

const (
	Left Side = iota
	Right
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Dir is a paddle's current movement intent.
type Dir int

const (
	Still Dir = iota
	Up
	Down
	// DirLeft and DirRight exist for completeness; no input produces them
	// and paddles ignore them.
	DirLeft
	DirRight
)

func (d Dir) String() string {
	switch d {
	case Still:
		return "still"
	case Up:
		return "up"
	case Down:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "unknown"
}

// Fixed game rules.
const (
	PaddleSpeed  = 10
	MaxHP        = 100
	LevelUpTime  = 1.5
	MaxLevel     = 3
	HitFlashTime = 0.1

	muzzleGap  = 0.2
	muzzleDrop = 0.3
)

var (
	CourtRadius  = mgl32.Vec2{7, 5}
	PaddleRadius = mgl32.Vec2{0.5, 1}

	// Damage is indexed by bullet level. Level 0 bullets are never fired.
	Damage = [MaxLevel + 1]int{0, 10, 25, 40}

	startPositions = [2]mgl32.Vec2{
		Left:  {-CourtRadius.X() + PaddleRadius.X(), 0},
		Right: {CourtRadius.X() - PaddleRadius.X(), 0},
	}
)

// StartPosition returns where the paddle of side s begins a match.
func StartPosition(s Side) mgl32.Vec2 {
	return startPositions[s]
}

// MuzzleOffset is where bullets leave a paddle, relative to its centre.
// The mouth is drawn at the same spot.
func MuzzleOffset(s Side, paddleRadius mgl32.Vec2) mgl32.Vec2 {
	if s == Left {
		return mgl32.Vec2{paddleRadius.X() + muzzleGap, -muzzleDrop}
	}
	return mgl32.Vec2{-paddleRadius.X() - muzzleGap, -muzzleDrop}
}

// ChargeLevel converts accumulated charge time into a bullet level.
func ChargeLevel(storeTime float64) int {
	if storeTime <= 0 {
		return 0
	}
	return min(int(math.Floor(storeTime/LevelUpTime)), MaxLevel)
}

// BulletSpeed returns the horizontal speed of a bullet. Bigger bullets are slower.
func BulletSpeed(level int) float32 {
	return 20 + 3*float32(4-level)
}

// BulletRadius returns the half extent of a bullet: 0.1 doubled per level.
func BulletRadius(level int) float32 {
	return 0.1 * float32(int(1)<<level)
}

// Hits reports whether a bullet fired by shooter overlaps the opposing paddle.
// Only the paddle face towards the shooter is tested on the x axis.
func Hits(shooter Side, bullet mgl32.Vec2, radius float32, paddle, paddleRadius mgl32.Vec2) bool {
	if bullet.Y()-radius > paddle.Y()+paddleRadius.Y() || bullet.Y()+radius < paddle.Y()-paddleRadius.Y() {
		return false
	}
	if shooter == Left {
		return bullet.X()+radius >= paddle.X()-paddleRadius.X()
	}
	return bullet.X()-radius <= paddle.X()+paddleRadius.X()
}
