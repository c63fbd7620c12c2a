// Package firmware assembles the metronome on a virtual board: two compare
// timers, the tone and display handlers and the polling loop.
package firmware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/config"
	"github.com/dimfu/metronome/control"
	"github.com/dimfu/metronome/display"
	"github.com/dimfu/metronome/tempo"
	"github.com/dimfu/metronome/tone"
)

type Device struct {
	Machine      *board.Machine
	Model        *tempo.Model
	ToneTimer    *board.Timer
	DisplayTimer *board.Timer
	Scheduler    *tone.Scheduler
	Multiplexer  *display.Multiplexer
	Override     *display.Override
	Loop         *control.Loop

	persistence uint64
}

// New builds the device. The tone timer is registered first so it wins
// a same-cycle match, like the higher priority vector on the chip.
func New(s config.Settings, sink board.EdgeSink, log logrus.FieldLogger) (*Device, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ts, err := tempo.ParseTimeSignature(s.TimeSignature)
	if err != nil {
		return nil, err
	}

	d := &Device{
		Machine: board.NewMachine(s.CPUHz),
		Model:   tempo.NewModel(),
	}
	d.Model.SetSpeed(s.Speed)
	d.Model.SetTimeSignature(ts)
	d.persistence = d.Machine.Cycles(s.Persistence)

	m := d.Machine
	if sink != nil {
		m.Ports.SetEdgeSink(sink)
	}

	d.ToneTimer = m.NewTimer("tone", s.TonePrescaler, 0)
	d.DisplayTimer = m.NewTimer("display", s.DisplayPrescaler, s.DisplayCompare)
	m.ConnectTone(d.ToneTimer)

	d.Scheduler = tone.NewScheduler(d.Model, m.Ports, d.ToneTimer, tone.Config{
		ClockHz:        s.CPUHz,
		Prescaler:      uint64(s.TonePrescaler),
		UnifiedCompare: s.UnifiedCompare,
	})
	// the compare value written at setup applies from the first period
	d.ToneTimer.Reset()
	d.ToneTimer.Attach(d.Scheduler.Tick)

	d.Multiplexer = display.NewMultiplexer(d.Model, m.Ports)
	d.DisplayTimer.Attach(d.Multiplexer.Tick)

	d.Override = display.NewOverride(m.Ports, m, s.TimesigDisplayLength, s.TimesigStep,
		d.DisplayTimer, d.ToneTimer)

	d.Loop = control.New(d.Model, m.Buttons, d.ToneTimer, d.Scheduler, d.Override, m, control.Config{
		DebounceCount: s.DebounceCount,
		RepeatDelay:   s.RepeatDelay,
		PollCycles:    s.PollCycles,
	}, log)

	d.DisplayTimer.Enable()
	d.ToneTimer.Enable()
	return d, nil
}

// Run executes the polling loop until ctx is done.
func (d *Device) Run(ctx context.Context) error {
	return d.Loop.Run(ctx)
}

// RunFor polls for a span of virtual time.
func (d *Device) RunFor(dur time.Duration) {
	end := d.Machine.Now() + d.Machine.Cycles(dur)
	for d.Machine.Now() < end {
		d.Loop.Step()
	}
}

// Press holds a button for dur of virtual time.
func (d *Device) Press(btn board.Button, dur time.Duration) {
	d.Machine.Buttons.Hold(btn, d.Machine.Cycles(dur))
}

// Digits is what the display shows right now.
func (d *Device) Digits() [board.NUM_DIGITS]uint8 {
	return d.Machine.Ports.Snapshot(d.persistence)
}

func (d *Device) LED() bool {
	return d.Machine.Ports.LED()
}
