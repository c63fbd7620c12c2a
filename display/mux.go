// Package display drives the 3-digit common-anode LED display. The
// multiplexer is the handler of the display timer and lights one digit per
// match; Override takes the display over for the time-signature flash.
package display

import "github.com/dimfu/metronome/board"

type Digits interface {
	SetCathodes(pattern uint8)
	EnableDigit(digit int)
	DisableDigits(mask uint8)
}

type Speed interface {
	Speed() uint8
}

type Multiplexer struct {
	tempo   Speed
	out     Digits
	current int
}

func NewMultiplexer(tempo Speed, out Digits) *Multiplexer {
	return &Multiplexer{tempo: tempo, out: out, current: board.DIGIT1}
}

// Tick is the display timer handler.
func (m *Multiplexer) Tick() {
	digit := m.current
	m.current = (digit + 1) % board.NUM_DIGITS

	// speed is read once without locking; a concurrent adjustment shows up
	// on the next refresh
	value, show := Digit(m.tempo.Speed(), digit)

	m.out.DisableDigits(board.ALL_DIGITS)
	if !show {
		return
	}
	m.out.EnableDigit(digit)
	m.out.SetCathodes(PATTERNS[value])
}

// Current is the digit the next Tick lights.
func (m *Multiplexer) Current() int {
	return m.current
}

// Digit returns the decimal digit of speed at a display position and whether
// that position is lit. Leading zeros stay dark.
func Digit(speed uint8, digit int) (uint8, bool) {
	switch digit {
	case board.DIGIT1:
		return speed / 100, speed >= 100
	case board.DIGIT2:
		return (speed % 100) / 10, speed >= 10
	case board.DIGIT3:
		return speed % 10, true
	}
	return 0, false
}
