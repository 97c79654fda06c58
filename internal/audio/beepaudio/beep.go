// Package beepaudio plays game cues on the system speaker.
package beepaudio

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/audio"
)

const sampleRate = beep.SampleRate(44100)

// ErrUnknownCue is returned by Synth for names it has no sound for.
var ErrUnknownCue = errors.New("unknown cue")

// Beep synthesises cues and mixes them onto the system speaker.
type Beep struct {
	mixer  *beep.Mixer
	volume float64
	logger *zap.Logger
}

// New initialises the speaker. volume is linear, 1 is full scale.
func New(logger *zap.Logger, volume float64) (*Beep, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	b := &Beep{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
	}
	speaker.Play(b.mixer)
	return b, nil
}

func (b *Beep) PlayCue(name string) {
	s, err := Synth(sampleRate, name)
	if err != nil {
		b.logger.Debug("cue not played", zap.String("cue", name), zap.Error(err))
		return
	}
	speaker.Lock()
	b.mixer.Add(withVolume(s, b.volume))
	speaker.Unlock()
}

// Close silences everything that is still playing.
func (b *Beep) Close() {
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synth returns a finite streamer for the named cue.
func Synth(sr beep.SampleRate, name string) (beep.Streamer, error) {
	switch name {
	case audio.CueExplosion:
		return fade(sr, 600*time.Millisecond, noise(rand.New(rand.NewPCG(1, 7)))), nil
	case audio.CueFire:
		tone, err := generators.SquareTone(sr, 880)
		if err != nil {
			return nil, err
		}
		return fade(sr, 80*time.Millisecond, scale(tone, 0.3)), nil
	case audio.CueHyperspace:
		tone, err := generators.SineTone(sr, 660)
		if err != nil {
			return nil, err
		}
		return fade(sr, 250*time.Millisecond, tone), nil
	case audio.CueEngine:
		tone, err := generators.SawtoothTone(sr, 70)
		if err != nil {
			return nil, err
		}
		return fade(sr, 120*time.Millisecond, scale(tone, 0.2)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCue, name)
}

func noise(rng *rand.Rand) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rng.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	})
}

func scale(s beep.Streamer, k float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] *= k
			samples[i][1] *= k
		}
		return n, ok
	})
}

// fade cuts s to d and ramps it linearly down to silence.
func fade(sr beep.SampleRate, d time.Duration, s beep.Streamer) beep.Streamer {
	total := sr.N(d)
	pos := 0
	src := beep.Take(total, s)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := src.Stream(samples)
		for i := range samples[:n] {
			g := 1 - float64(pos)/float64(total)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}
