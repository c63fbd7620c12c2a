// Package audio turns the buzzer pin into sound. The pin only ever toggles
// at compare matches, so the waveform is rebuilt from timestamped edges.
package audio

import (
	"github.com/faiface/beep"

	"github.com/dimfu/metronome/board"
)

const (
	SAMPLE_RATE beep.SampleRate = 44100

	volume = 0.3
)

// Wave is a beep.Streamer playing back pin edges as a square wave. It goes
// quiet when the pin has not moved for a couple of milliseconds, since a
// piezo buzzer makes no sound from a steady level.
type Wave struct {
	cyclesPerSample float64
	silence         uint64
	pos             float64 // cycle of the next sample
	queue           []board.Edge
	level           bool
	last            uint64
	seen            bool
}

func NewWave(cpuHz uint64, sr beep.SampleRate) *Wave {
	return &Wave{
		cyclesPerSample: float64(cpuHz) / float64(sr),
		silence:         cpuHz / 500,
	}
}

func (w *Wave) Push(e board.Edge) {
	w.queue = append(w.queue, e)
}

// Follow keeps playback latency cycles behind the producer, jumping when
// the two have drifted apart.
func (w *Wave) Follow(e board.Edge, latency uint64) {
	at := float64(e.At)
	if w.pos <= at && at-w.pos <= float64(2*latency) {
		return
	}
	target := uint64(0)
	if e.At > latency {
		target = e.At - latency
	}
	w.pos = float64(target)
}

func (w *Wave) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		for len(w.queue) > 0 && float64(w.queue[0].At) <= w.pos {
			w.level = w.queue[0].High
			w.last = w.queue[0].At
			w.seen = true
			w.queue = w.queue[1:]
		}

		v := 0.0
		if w.seen && w.pos-float64(w.last) <= float64(w.silence) {
			v = -volume
			if w.level {
				v = volume
			}
		}
		samples[i][0], samples[i][1] = v, v
		w.pos += w.cyclesPerSample
	}
	return len(samples), true
}

func (w *Wave) Err() error {
	return nil
}
