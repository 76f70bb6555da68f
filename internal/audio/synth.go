package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/invaders/internal/game"
)

// synth describes one procedurally generated effect.
type synth struct {
	duration time.Duration
	streamer func(sr beep.SampleRate) beep.Streamer
}

var synths = map[string]synth{
	game.SoundShoot:     {duration: 150 * time.Millisecond, streamer: newShoot},
	game.SoundBang:      {duration: 200 * time.Millisecond, streamer: newBang},
	game.SoundExplosion: {duration: 600 * time.Millisecond, streamer: newExplosion},
}

// newShoot is a square wave sweeping down from 880Hz to 220Hz.
func newShoot(sr beep.SampleRate) beep.Streamer {
	total := sr.N(150 * time.Millisecond)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			progress := float64(pos) / float64(total)
			freq := 880 - 660*progress
			phase += freq / float64(sr)
			v := 0.2
			if math.Mod(phase, 1) >= 0.5 {
				v = -0.2
			}
			v *= 1 - progress
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}

// newBang is a short burst of white noise with an exponential decay.
func newBang(sr beep.SampleRate) beep.Streamer {
	rng := rand.New(rand.NewSource(1))
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			t := float64(pos) / float64(sr)
			v := (rng.Float64()*2 - 1) * 0.35 * math.Exp(-t*18)
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}

// newExplosion is low-passed noise over a falling 60Hz rumble.
func newExplosion(sr beep.SampleRate) beep.Streamer {
	rng := rand.New(rand.NewSource(2))
	pos := 0
	lp := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			t := float64(pos) / float64(sr)
			lp += 0.08 * ((rng.Float64()*2 - 1) - lp)
			rumble := math.Sin(2 * math.Pi * (60 - 30*t) * t)
			v := (lp*0.8 + rumble*0.3) * 0.5 * math.Exp(-t*5)
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}
