package audio

import (
	"time"

	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"

	"github.com/dimfu/metronome/board"
)

// Speaker plays the buzzer pin through the default audio device. It is an
// edge sink; edges are handed over under the speaker lock.
type Speaker struct {
	wave    *Wave
	latency uint64
}

func OpenSpeaker(cpuHz uint64, latency time.Duration) (*Speaker, error) {
	err := speaker.Init(SAMPLE_RATE, SAMPLE_RATE.N(latency/2))
	if err != nil {
		return nil, errors.Wrap(err, "error while initializing speaker")
	}

	s := &Speaker{
		wave:    NewWave(cpuHz, SAMPLE_RATE),
		latency: uint64(latency) * cpuHz / uint64(time.Second),
	}
	speaker.Play(s.wave)
	return s, nil
}

func (s *Speaker) Edge(e board.Edge) {
	speaker.Lock()
	s.wave.Follow(e, s.latency)
	s.wave.Push(e)
	speaker.Unlock()
}

func (s *Speaker) Close() {
	speaker.Clear()
}
