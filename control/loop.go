// Package control is the foreground of the firmware: it polls the buttons,
// debounces them and applies confirmed presses to the tempo model.
package control

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/debounce"
	"github.com/dimfu/metronome/tempo"
)

type Buttons interface {
	Pressed(btn board.Button) bool
}

// ToneTimer is the interrupt gate and counter of the tone timer.
type ToneTimer interface {
	Enable()
	Disable()
	Reset()
}

// Tone is the foreground side of the tone handler.
type Tone interface {
	Restart()
	Mute()
}

type Display interface {
	Show(ts tempo.TimeSignature)
}

// Clock is foreground time. Every poll costs a fixed number of cycles.
type Clock interface {
	Advance(cycles uint64)
	Delay(d time.Duration)
}

type Config struct {
	DebounceCount uint16
	RepeatDelay   time.Duration
	PollCycles    uint64
}

func DefaultConfig() Config {
	return Config{
		DebounceCount: debounce.DEBOUNCE_COUNT_MAX,
		RepeatDelay:   50 * time.Millisecond,
		PollCycles:    20,
	}
}

type Loop struct {
	model    *tempo.Model
	buttons  Buttons
	timer    ToneTimer
	tone     Tone
	display  Display
	clock    Clock
	cfg      Config
	debounce [board.NUM_BUTTONS]*debounce.Button
	log      logrus.FieldLogger
}

func New(model *tempo.Model, buttons Buttons, timer ToneTimer, tone Tone,
	display Display, clock Clock, cfg Config, log logrus.FieldLogger) *Loop {

	l := &Loop{
		model:   model,
		buttons: buttons,
		timer:   timer,
		tone:    tone,
		display: display,
		clock:   clock,
		cfg:     cfg,
		log:     log,
	}
	for i := range l.debounce {
		l.debounce[i] = debounce.NewButton(cfg.DebounceCount)
	}
	return l
}

// Run polls until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.log.WithFields(logrus.Fields{
		"speed":   l.model.Speed(),
		"timesig": l.model.TimeSignature(),
	}).Info("metronome running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		l.Step()
	}
}

// Step is one pass of the polling loop. At most one action runs per pass, in
// the order up, down, time signature.
func (l *Loop) Step() {
	l.clock.Advance(l.cfg.PollCycles)

	var fired [board.NUM_BUTTONS]bool
	for btn := board.BUTTON_UP; btn < board.NUM_BUTTONS; btn++ {
		fired[btn] = l.debounce[btn].Update(l.buttons.Pressed(btn))
	}

	switch {
	case fired[board.BUTTON_UP]:
		l.adjustSpeed(board.BUTTON_UP, l.model.IncreaseSpeed)
	case fired[board.BUTTON_DOWN]:
		l.adjustSpeed(board.BUTTON_DOWN, l.model.DecreaseSpeed)
	case fired[board.BUTTON_TIMESIG]:
		l.cycleTimeSignature()
	}
}

// adjustSpeed steps the speed every RepeatDelay while btn stays down. The
// tone timer is gated and silenced for the whole window and restarts from
// zero after.
func (l *Loop) adjustSpeed(btn board.Button, step func() bool) {
	from := l.model.Speed()

	l.timer.Disable()
	l.tone.Mute()
	for l.buttons.Pressed(btn) {
		l.timer.Disable()
		if !step() {
			l.log.WithField("speed", l.model.Speed()).Debug("speed at limit")
		}
		l.clock.Delay(l.cfg.RepeatDelay)
	}
	l.timer.Reset()
	l.tone.Restart()
	l.timer.Enable()

	l.log.WithFields(logrus.Fields{
		"button": btn,
		"from":   from,
		"speed":  l.model.Speed(),
	}).Info("speed changed")
}

func (l *Loop) cycleTimeSignature() {
	ts := l.model.CycleTimeSignature()
	l.log.WithFields(logrus.Fields{
		"timesig": ts,
		"divisor": ts.Divisor(),
	}).Info("time signature changed")

	l.timer.Disable()
	l.tone.Mute()
	l.display.Show(ts)
	l.timer.Enable()
}

// Debounce exposes the per-button state machine.
func (l *Loop) Debounce(btn board.Button) debounce.State {
	return l.debounce[btn].State()
}
