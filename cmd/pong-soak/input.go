package main

import (
	"math/rand/v2"

	"github.com/plus3/chargepong/pong"
)

// randomInput presses and releases game keys the way an erratic player would.
type randomInput struct {
	rng   *rand.Rand
	steer [2]pong.Key
}

func newRandomInput(rng *rand.Rand) *randomInput {
	return &randomInput{rng: rng}
}

var steerKeys = [2][2]pong.Key{
	pong.Left:  {pong.KeyW, pong.KeyS},
	pong.Right: {pong.KeyUp, pong.KeyDown},
}

var fireKeys = [2]pong.Key{pong.Left: pong.KeyD, pong.Right: pong.KeyLeft}

// drive sends this frame's key events to game.
func (in *randomInput) drive(game *pong.Game) {
	for side := range steerKeys {
		if in.rng.Float64() < 0.05 {
			if held := in.steer[side]; held != pong.KeyUnknown {
				game.HandleKey(held, false)
				in.steer[side] = pong.KeyUnknown
			} else {
				key := steerKeys[side][in.rng.IntN(2)]
				game.HandleKey(key, true)
				in.steer[side] = key
			}
		}

		if in.rng.Float64() < 0.02 {
			game.HandleKey(fireKeys[side], true)
			game.HandleKey(fireKeys[side], false)
		}
	}
}
