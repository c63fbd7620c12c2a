package audio

import (
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/dimfu/metronome/board"
)

var FORMAT = beep.Format{
	SampleRate:  SAMPLE_RATE,
	NumChannels: 2,
	Precision:   2,
}

// Tape collects edges for offline rendering.
type Tape struct {
	edges []board.Edge
}

func (t *Tape) Edge(e board.Edge) {
	t.edges = append(t.edges, e)
}

func (t *Tape) Edges() []board.Edge {
	return t.edges
}

// Encode renders length of the taped pin as a WAV stream.
func Encode(w io.WriteSeeker, t *Tape, cpuHz uint64, length time.Duration) error {
	wave := NewWave(cpuHz, FORMAT.SampleRate)
	for _, e := range t.edges {
		wave.Push(e)
	}
	n := FORMAT.SampleRate.N(length)
	if err := wav.Encode(w, beep.Take(n, wave), FORMAT); err != nil {
		return errors.Wrap(err, "encoding wav")
	}
	return nil
}
