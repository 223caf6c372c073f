// Package audio plays the match's sound effects through the system speaker.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/chargepong/pong"
)

const (
	sampleRate = beep.SampleRate(48000)

	shotLength = 90 * time.Millisecond
	hitLength  = 160 * time.Millisecond
)

// SoundManager turns game events into short synthesized sounds. Every method
// is safe to call before Initialize or after a failed Initialize; sounds are
// then dropped.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
	// requested is set by Initialize; a muted manager opens the device on unmute.
	requested bool
	open      func(*beep.Mixer) error
}

// NewSoundManager creates a sound manager. volume is linear in [0, 1].
func NewSoundManager(volume float64, muted bool) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
		muted:  muted,
		open:   openSpeaker,
	}
}

func openSpeaker(mixer *beep.Mixer) error {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(mixer)
	return nil
}

// Initialize opens the speaker. A muted manager defers opening the device
// until it is unmuted.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.requested = true
	if sm.muted {
		return nil
	}
	return sm.openLocked()
}

func (sm *SoundManager) openLocked() error {
	if sm.initialized {
		return nil
	}
	if err := sm.open(sm.mixer); err != nil {
		return err
	}
	sm.initialized = true
	return nil
}

// Cleanup silences everything still playing.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
	sm.requested = false
}

// SetMuted toggles output without closing the device. Unmuting an
// initialized manager that started muted opens the device then.
func (sm *SoundManager) SetMuted(muted bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = muted
	if muted || !sm.requested {
		return nil
	}
	return sm.openLocked()
}

// Handle plays the sound for one game event.
func (sm *SoundManager) Handle(ev pong.Event) {
	switch ev.Kind {
	case pong.EventShot:
		sm.play(ShotSound(ev.Level, sampleRate))
	case pong.EventHit:
		sm.play(HitSound(ev.Damage, sampleRate))
	}
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}

	speaker.Lock()
	sm.mixer.Add(withVolume(s, sm.volume))
	speaker.Unlock()
}

func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}
}

// ShotSound is a short downward chirp. Higher levels start lower, matching
// their bigger, slower bullets.
func ShotSound(level int, sr beep.SampleRate) beep.Streamer {
	start := 1400 / math.Pow(1.5, float64(max(level, 1)-1))
	return beep.Take(sr.N(shotLength), &sweep{sr: sr, from: start, to: start / 2, length: sr.N(shotLength)})
}

// HitSound is a harsh buzz whose pitch drops as damage grows.
func HitSound(damage int, sr beep.SampleRate) beep.Streamer {
	freq := 220 - 2*float64(min(max(damage, 0), 80))
	return beep.Take(sr.N(hitLength), &buzz{sr: sr, freq: freq, length: sr.N(hitLength)})
}

// sweep glides linearly from one frequency to another with a linear fade out.
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	pos      int
	phase    float64
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.length {
			return i, i > 0
		}
		progress := float64(g.pos) / float64(g.length)
		freq := g.from + (g.to-g.from)*progress
		g.phase += freq / float64(g.sr)

		sample := 0.3 * math.Sin(2*math.Pi*g.phase) * (1 - progress)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error {
	return nil
}

// buzz is a fundamental plus two harmonics with a short attack.
type buzz struct {
	sr     beep.SampleRate
	freq   float64
	length int
	pos    int
}

func (g *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.length {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		attack := math.Min(t/0.01, 1)
		release := 1 - float64(g.pos)/float64(g.length)
		sample *= attack * release

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *buzz) Err() error {
	return nil
}
