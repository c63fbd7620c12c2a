package firmware

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/config"
	"github.com/dimfu/metronome/display"
	"github.com/dimfu/metronome/tempo"
)

type tape struct {
	edges []board.Edge
}

func (t *tape) Edge(e board.Edge) { t.edges = append(t.edges, e) }

// bursts groups edges separated by less than gap cycles.
func (t *tape) bursts(gap uint64) []int {
	var out []int
	for i, e := range t.edges {
		if i == 0 || e.At-t.edges[i-1].At > gap {
			out = append(out, 0)
		}
		out[len(out)-1]++
	}
	return out
}

func newDevice(c *qt.C, speed int, ts string) (*Device, *tape) {
	s := config.DefaultSettings()
	s.Speed = speed
	s.TimeSignature = ts
	rec := &tape{}
	logger, _ := logtest.NewNullLogger()
	d, err := New(s, rec, logger)
	c.Assert(err, qt.IsNil)
	return d, rec
}

func TestNewRejectsBadSettings(t *testing.T) {
	c := qt.New(t)
	s := config.DefaultSettings()
	s.Speed = 10
	logger, _ := logtest.NewNullLogger()
	_, err := New(s, nil, logger)
	c.Assert(err, qt.ErrorMatches, "tempo 10 is not valid .*")
}

func TestBootDisplay(t *testing.T) {
	c := qt.New(t)
	d, _ := newDevice(c, 60, "4/4")
	d.RunFor(50 * time.Millisecond)
	c.Assert(display.Text(d.Digits()), qt.Equals, " 60")
	c.Assert(d.ToneTimer.Compare(), qt.Equals, uint16(61))
}

func TestClicksFollowMeter(t *testing.T) {
	c := qt.New(t)
	d, rec := newDevice(c, 240, "4/4")
	d.RunFor(3 * time.Second)

	// a normal click leaves the buzzer connected for 41 matches, an accent
	// for 21; the first click is normal
	got := rec.bursts(d.Machine.Cycles(10 * time.Millisecond))
	c.Assert(len(got) >= 9, qt.IsTrue)
	c.Assert(got[:9], qt.DeepEquals, []int{41, 21, 41, 41, 41, 21, 41, 41, 41})
}

func TestClicksInThreeEight(t *testing.T) {
	c := qt.New(t)
	d, rec := newDevice(c, 240, "3/8")
	d.RunFor(3 * time.Second)

	got := rec.bursts(d.Machine.Cycles(10 * time.Millisecond))
	c.Assert(got[:7], qt.DeepEquals, []int{41, 21, 41, 41, 21, 41, 41})
}

func TestBeatSpacing(t *testing.T) {
	c := qt.New(t)
	d, _ := newDevice(c, 120, "4/4")

	var beats []uint64
	last := d.Scheduler.State().Beat
	for len(beats) < 4 {
		d.Loop.Step()
		if b := d.Scheduler.State().Beat; b != last {
			beats = append(beats, d.Machine.Now())
			last = b
		}
	}
	// 120 BPM is a beat every 0.5s, plus the 20ms click
	for i := 1; i < len(beats); i++ {
		gap := d.Machine.Duration(beats[i] - beats[i-1])
		c.Assert(gap > 500*time.Millisecond && gap < 540*time.Millisecond, qt.IsTrue, qt.Commentf("gap %v", gap))
	}
}

func TestSpeedButton(t *testing.T) {
	c := qt.New(t)
	d, _ := newDevice(c, 240, "4/4")

	d.Press(board.BUTTON_UP, 10*time.Millisecond)
	d.RunFor(200 * time.Millisecond)
	c.Assert(d.Model.Speed(), qt.Equals, uint8(241))
	c.Assert(display.Text(d.Digits()), qt.Equals, "241")
	c.Assert(d.ToneTimer.Enabled(), qt.IsTrue)

	d.Press(board.BUTTON_UP, 2*time.Second)
	d.RunFor(3 * time.Second)
	c.Assert(d.Model.Speed(), qt.Equals, uint8(tempo.MAX_SPEED))
	c.Assert(display.Text(d.Digits()), qt.Equals, "250")
}

func TestTimeSignatureFlash(t *testing.T) {
	c := qt.New(t)
	d, rec := newDevice(c, 240, "4/4")

	d.Press(board.BUTTON_TIMESIG, 10*time.Millisecond)
	d.RunFor(20 * time.Millisecond)

	c.Assert(d.Model.TimeSignature(), qt.Equals, tempo.TwoFour)
	c.Assert(display.Text(d.Digits()), qt.Equals, "2 4")
	c.Assert(d.ToneTimer.Enabled(), qt.IsTrue)
	c.Assert(d.DisplayTimer.Enabled(), qt.IsTrue)
	// the first click was due 250ms in, inside the flash
	c.Assert(rec.edges, qt.HasLen, 0)

	d.RunFor(50 * time.Millisecond)
	c.Assert(display.Text(d.Digits()), qt.Equals, "240")
}

// stepUntil polls until cond holds or a second of virtual time passes.
func stepUntil(c *qt.C, d *Device, cond func() bool) {
	end := d.Machine.Now() + d.Machine.Cycles(time.Second)
	for !cond() {
		c.Assert(d.Machine.Now() < end, qt.IsTrue, qt.Commentf("condition never held"))
		d.Loop.Step()
	}
}

// edgesAfter counts edges later than at.
func (t *tape) edgesAfter(at uint64) int {
	n := 0
	for _, e := range t.edges {
		if e.At > at {
			n++
		}
	}
	return n
}

func TestTimeSignatureFlashDuringClick(t *testing.T) {
	c := qt.New(t)
	d, rec := newDevice(c, 240, "4/4")

	stepUntil(c, d, func() bool { return d.Scheduler.State().Active })
	d.Press(board.BUTTON_TIMESIG, 10*time.Millisecond)

	// poll up to the pass that confirms the press and runs the whole flash
	var start uint64
	for d.Model.TimeSignature() == tempo.FourFour {
		c.Assert(d.Scheduler.State().Active, qt.IsTrue)
		start = d.Machine.Now() + config.DefaultSettings().PollCycles
		d.Loop.Step()
	}
	c.Assert(d.Machine.Duration(d.Machine.Now()-start) >= d.Override.Duration(), qt.IsTrue)
	c.Assert(rec.edgesAfter(start), qt.Equals, 0)
	c.Assert(d.Scheduler.State().Active, qt.IsFalse)
	c.Assert(d.Machine.Ports.ToneOutput(), qt.IsFalse)
	c.Assert(d.ToneTimer.Enabled(), qt.IsTrue)

	// clicks come back on the next beat
	d.RunFor(time.Second)
	c.Assert(rec.edgesAfter(start) > 0, qt.IsTrue)
}

func TestSpeedHoldDuringClick(t *testing.T) {
	c := qt.New(t)
	d, rec := newDevice(c, 240, "4/4")

	stepUntil(c, d, func() bool { return d.Scheduler.State().Active })
	d.Press(board.BUTTON_UP, 120*time.Millisecond)

	var start uint64
	for d.Model.Speed() == 240 {
		start = d.Machine.Now() + config.DefaultSettings().PollCycles
		d.Loop.Step()
	}
	// the pass that confirmed the press held the tone timer until release
	c.Assert(d.Model.Speed(), qt.Equals, uint8(243))
	c.Assert(rec.edgesAfter(start), qt.Equals, 0)
	c.Assert(d.Scheduler.State().Active, qt.IsFalse)
	c.Assert(d.ToneTimer.Enabled(), qt.IsTrue)
}
