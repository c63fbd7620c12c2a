package config

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/dimfu/metronome/debounce"
	"github.com/dimfu/metronome/display"
	"github.com/dimfu/metronome/tempo"
)

// Settings describe the emulated board and the power-on state of the
// metronome.
type Settings struct {
	CPUHz            uint64 // core clock
	TonePrescaler    uint16 // tone timer clock divider
	DisplayPrescaler uint16 // display timer clock divider
	DisplayCompare   uint16 // display timer compare value, ~400Hz

	DebounceCount uint16        // polls a press must last
	PollCycles    uint64        // cycles spent per poll of the buttons
	RepeatDelay   time.Duration // speed step while a button is held

	TimesigDisplayLength int           // passes of the time signature flash
	TimesigStep          time.Duration // time spent per pass

	Speed          int
	TimeSignature  string
	UnifiedCompare bool

	// Persistence is how long a digit stays visible after its anode drops.
	Persistence time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		CPUHz:                1000000,
		TonePrescaler:        8,
		DisplayPrescaler:     64,
		DisplayCompare:       38,
		DebounceCount:        debounce.DEBOUNCE_COUNT_MAX,
		PollCycles:           20,
		RepeatDelay:          50 * time.Millisecond,
		TimesigDisplayLength: display.TIMESIG_DISPLAY_LENGTH,
		TimesigStep:          time.Millisecond,
		Speed:                tempo.DEFAULT_SPEED,
		TimeSignature:        tempo.FourFour.String(),
		Persistence:          10 * time.Millisecond,
	}
}

func (s Settings) Validate() error {
	if s.CPUHz == 0 {
		return errors.New("cpu clock must be positive")
	}
	if s.TonePrescaler == 0 || s.DisplayPrescaler == 0 {
		return errors.New("timer prescalers must be positive")
	}
	// the accent voice needs at least one timer tick per period
	if s.CPUHz/uint64(s.TonePrescaler) < 2000 {
		return errors.Errorf("cpu clock %dHz with prescaler %d cannot produce a 2kHz tone", s.CPUHz, s.TonePrescaler)
	}
	// the 1kHz accent voice has the largest compare value
	if s.CPUHz/uint64(s.TonePrescaler)/1000 > math.MaxUint16 {
		return errors.Errorf("cpu clock %dHz with prescaler %d overflows the tone compare register", s.CPUHz, s.TonePrescaler)
	}
	if s.PollCycles == 0 {
		return errors.New("poll cycles must be positive")
	}
	if s.RepeatDelay <= 0 {
		return errors.New("repeat delay must be positive")
	}
	if s.TimesigDisplayLength < 0 || s.TimesigStep < 0 {
		return errors.New("time signature flash must not be negative")
	}
	if !tempo.ValidSpeed(s.Speed) {
		return errors.Errorf("tempo %d is not valid make sure it is between %d and %d", s.Speed, tempo.MIN_SPEED, tempo.MAX_SPEED)
	}
	if _, err := tempo.ParseTimeSignature(s.TimeSignature); err != nil {
		return err
	}
	return nil
}

// Apply copies a preset over the power-on state.
func (s *Settings) Apply(p Preset) error {
	if !tempo.ValidSpeed(int(p.Tempo)) {
		return errors.Errorf("preset %q: tempo %d out of range", p.Key, p.Tempo)
	}
	if _, err := tempo.ParseTimeSignature(p.Timesig); err != nil {
		return errors.Wrapf(err, "preset %q", p.Key)
	}
	s.Speed = int(p.Tempo)
	s.TimeSignature = p.Timesig
	return nil
}
