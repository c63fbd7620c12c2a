package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	qt "github.com/frankban/quicktest"

	"github.com/dimfu/metronome/board"
)

func TestWaveSquare(t *testing.T) {
	c := qt.New(t)
	// one cycle per sample keeps the arithmetic obvious
	w := NewWave(44100, 44100)
	w.Push(board.Edge{At: 10, High: true})
	w.Push(board.Edge{At: 20, High: false})
	w.Push(board.Edge{At: 30, High: true})

	samples := make([][2]float64, 200)
	n, ok := w.Stream(samples)
	c.Assert(n, qt.Equals, 200)
	c.Assert(ok, qt.IsTrue)

	c.Assert(samples[5][0], qt.Equals, 0.0)
	c.Assert(samples[10][0], qt.Equals, volume)
	c.Assert(samples[25][0], qt.Equals, -volume)
	c.Assert(samples[25][1], qt.Equals, -volume)
	c.Assert(samples[100][0], qt.Equals, volume)
	// 88 cycles after the last edge the buzzer is considered still
	c.Assert(samples[150][0], qt.Equals, 0.0)
	c.Assert(w.Err(), qt.IsNil)
}

func TestWaveSilentWithoutEdges(t *testing.T) {
	c := qt.New(t)
	w := NewWave(1000000, SAMPLE_RATE)
	samples := make([][2]float64, 512)
	w.Stream(samples)
	for _, s := range samples {
		c.Assert(s, qt.Equals, [2]float64{})
	}
}

func TestWaveFollow(t *testing.T) {
	c := qt.New(t)
	w := NewWave(1000000, SAMPLE_RATE)

	w.Follow(board.Edge{At: 1000000}, 500)
	c.Assert(w.pos, qt.Equals, 999500.0)

	// close enough, no jump
	w.Follow(board.Edge{At: 1000400}, 500)
	c.Assert(w.pos, qt.Equals, 999500.0)

	// playback ran past the producer
	w.pos = 2000000
	w.Follow(board.Edge{At: 1500000}, 500)
	c.Assert(w.pos, qt.Equals, 1499500.0)

	w.Follow(board.Edge{At: 100}, 500)
	c.Assert(w.pos, qt.Equals, 0.0)
}

func TestEncode(t *testing.T) {
	c := qt.New(t)
	const hz = 1000000

	var tape Tape
	// a 1kHz square burst 500ms in
	for i := 0; i < 40; i++ {
		tape.Edge(board.Edge{At: hz/2 + uint64(i)*500, High: i%2 == 0})
	}
	c.Assert(tape.Edges(), qt.HasLen, 40)

	path := filepath.Join(c.TempDir(), "click.wav")
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	c.Assert(Encode(f, &tape, hz, time.Second), qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	f, err = os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	s, format, err := wav.Decode(f)
	c.Assert(err, qt.IsNil)
	c.Assert(format.SampleRate, qt.Equals, SAMPLE_RATE)
	c.Assert(s.Len(), qt.Equals, SAMPLE_RATE.N(time.Second))

	buf := beep.NewBuffer(format)
	buf.Append(s)
	all := buf.Streamer(0, buf.Len())
	samples := make([][2]float64, buf.Len())
	all.Stream(samples)

	loud := 0
	for i, smp := range samples {
		if smp[0] != 0 {
			loud++
			at := time.Duration(i) * time.Second / time.Duration(SAMPLE_RATE)
			c.Assert(at >= 490*time.Millisecond && at < 525*time.Millisecond, qt.IsTrue, qt.Commentf("sound at %v", at))
		}
	}
	c.Assert(loud > 0, qt.IsTrue)
}
