package display

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/tempo"
)

func TestDigit(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		speed uint8
		want  string
	}{
		{7, "  7"},
		{42, " 42"},
		{100, "100"},
		{250, "250"},
	}
	for _, test := range tests {
		var got []byte
		for d := board.DIGIT1; d <= board.DIGIT3; d++ {
			v, show := Digit(test.speed, d)
			if show {
				got = append(got, byte('0'+v))
			} else {
				got = append(got, ' ')
			}
		}
		c.Assert(string(got), qt.Equals, test.want)
	}
	_, show := Digit(99, 3)
	c.Assert(show, qt.IsFalse)
}

func TestMultiplexerRendersSpeed(t *testing.T) {
	c := qt.New(t)
	for speed, want := range map[int]string{7: "  7", 42: " 42", 250: "250"} {
		m := board.NewMachine(1000000)
		model := tempo.NewModel()
		// speeds below MIN_SPEED are unreachable through the model, so
		// drive the handler with a fixed reader instead
		mux := NewMultiplexer(fixedSpeed(speed), m.Ports)
		if tempo.ValidSpeed(speed) {
			model.SetSpeed(speed)
			mux = NewMultiplexer(model, m.Ports)
		}
		for i := 0; i < board.NUM_DIGITS; i++ {
			mux.Tick()
		}
		c.Assert(Text(m.Ports.Snapshot(1000)), qt.Equals, want, qt.Commentf("speed %d", speed))
	}
}

type fixedSpeed uint8

func (s fixedSpeed) Speed() uint8 { return uint8(s) }

func TestMultiplexerLightsOneDigitAtATime(t *testing.T) {
	c := qt.New(t)
	m := board.NewMachine(1000000)
	mux := NewMultiplexer(fixedSpeed(42), m.Ports)

	var anodes []uint8
	var cathodes []uint8
	for i := 0; i < 6; i++ {
		c.Assert(mux.Current(), qt.Equals, i%3)
		mux.Tick()
		anodes = append(anodes, m.Ports.Anodes())
		cathodes = append(cathodes, m.Ports.Cathodes())
	}
	c.Assert(anodes, qt.DeepEquals, []uint8{0, 0b010, 0b100, 0, 0b010, 0b100})
	c.Assert(cathodes[1], qt.Equals, PATTERNS[4])
	c.Assert(cathodes[2], qt.Equals, PATTERNS[2])
}

func TestMultiplexerAtHandlerRate(t *testing.T) {
	c := qt.New(t)
	m := board.NewMachine(1000000)
	model := tempo.NewModel()
	model.SetSpeed(123)
	timer := m.NewTimer("display", 64, 38)
	timer.Attach(NewMultiplexer(model, m.Ports).Tick)
	timer.Enable()

	m.Advance(m.Hz() / 10)
	// a full refresh takes three matches, about 7.5ms
	c.Assert(Text(m.Ports.Snapshot(m.Hz()/100)), qt.Equals, "123")
}
