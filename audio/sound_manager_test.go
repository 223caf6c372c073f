package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/plus3/chargepong/pong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain streams s to completion and returns its samples.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func peak(samples [][2]float64) float64 {
	var p float64
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

// fakeSpeaker replaces the device with a counter.
func fakeSpeaker(sm *SoundManager, err error) *int {
	opened := 0
	sm.open = func(*beep.Mixer) error {
		if err != nil {
			return err
		}
		opened++
		return nil
	}
	return &opened
}

func TestSoundManagerWithoutSpeaker(t *testing.T) {
	sm := NewSoundManager(0.5, true)
	opened := fakeSpeaker(sm, nil)

	assert.NotPanics(t, func() {
		sm.Handle(pong.Event{Kind: pong.EventShot, Level: 2})
		sm.Handle(pong.Event{Kind: pong.EventHit, Damage: 40})
		assert.NoError(t, sm.SetMuted(false), "unmuting before Initialize opens nothing")
		sm.Handle(pong.Event{Kind: pong.EventShot, Level: 1})
		sm.Cleanup()
	})
	assert.Zero(t, *opened)
}

func TestMutedManagerOpensDeviceOnUnmute(t *testing.T) {
	sm := NewSoundManager(0.5, true)
	opened := fakeSpeaker(sm, nil)

	require.NoError(t, sm.Initialize())
	assert.Zero(t, *opened, "muted managers do not open the device")
	assert.False(t, sm.initialized)

	require.NoError(t, sm.SetMuted(false))
	assert.Equal(t, 1, *opened)
	assert.True(t, sm.initialized)

	require.NoError(t, sm.SetMuted(true))
	require.NoError(t, sm.SetMuted(false))
	assert.Equal(t, 1, *opened, "the device is opened once")

	sm.Handle(pong.Event{Kind: pong.EventShot, Level: 1})
	sm.Cleanup()
	assert.False(t, sm.initialized)
}

func TestUnmuteReportsDeviceError(t *testing.T) {
	sm := NewSoundManager(0.5, true)
	fakeSpeaker(sm, errors.New("no device"))

	require.NoError(t, sm.Initialize())
	assert.EqualError(t, sm.SetMuted(false), "no device")
	assert.False(t, sm.initialized)
}

func TestShotSoundLengthAndPitch(t *testing.T) {
	rate := beep.SampleRate(44100)

	low := drain(ShotSound(3, rate))
	high := drain(ShotSound(1, rate))

	assert.Len(t, low, rate.N(shotLength))
	assert.Len(t, high, rate.N(shotLength))
	assert.Greater(t, peak(high), 0.1)
	assert.LessOrEqual(t, peak(high), 0.3)

	// Count zero crossings as a pitch proxy.
	crossings := func(samples [][2]float64) int {
		n := 0
		for i := 1; i < len(samples); i++ {
			if (samples[i-1][0] < 0) != (samples[i][0] < 0) {
				n++
			}
		}
		return n
	}
	assert.Greater(t, crossings(high), crossings(low))
}

func TestHitSoundIsBounded(t *testing.T) {
	rate := beep.SampleRate(44100)

	samples := drain(HitSound(25, rate))
	assert.Len(t, samples, rate.N(hitLength))
	assert.Greater(t, peak(samples), 0.05)
	assert.Less(t, peak(samples), 0.6)

	for _, s := range samples {
		assert.Equal(t, s[0], s[1], "mono")
	}
}

func TestWithVolume(t *testing.T) {
	rate := beep.SampleRate(44100)

	full := peak(drain(withVolume(HitSound(10, rate), 1)))
	half := peak(drain(withVolume(HitSound(10, rate), 0.5)))
	silent := peak(drain(withVolume(HitSound(10, rate), 0)))

	assert.InDelta(t, full/2, half, 1e-9)
	assert.Zero(t, silent)
}
