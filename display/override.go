package display

import (
	"time"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/tempo"
)

const TIMESIG_DISPLAY_LENGTH = 500

type Gate interface {
	Enable()
	Disable()
}

type Delayer interface {
	Delay(d time.Duration)
}

// Override flashes the time signature: numerator on the leftmost digit,
// denominator on the rightmost, alternating every pass. It busy-waits with
// both periodic handlers gated off, so the metronome is silent meanwhile.
type Override struct {
	out    Digits
	clock  Delayer
	gates  []Gate
	length int
	step   time.Duration
}

// NewOverride runs length+1 passes of step each.
func NewOverride(out Digits, clock Delayer, length int, step time.Duration, gates ...Gate) *Override {
	return &Override{
		out:    out,
		clock:  clock,
		gates:  gates,
		length: length,
		step:   step,
	}
}

func (o *Override) Show(ts tempo.TimeSignature) {
	for _, g := range o.gates {
		g.Disable()
	}
	defer func() {
		for _, g := range o.gates {
			g.Enable()
		}
	}()

	o.out.DisableDigits(board.ALL_DIGITS)
	o.out.SetCathodes(board.BLANK)

	numerator, denominator := SignatureGlyphs(ts)
	left := true
	for i := 0; i <= o.length; i++ {
		if left {
			o.out.DisableDigits(1 << board.DIGIT3)
			o.out.EnableDigit(board.DIGIT1)
			o.out.SetCathodes(numerator)
		} else {
			o.out.DisableDigits(1 << board.DIGIT1)
			o.out.EnableDigit(board.DIGIT3)
			o.out.SetCathodes(denominator)
		}
		left = !left
		o.clock.Delay(o.step)
	}
}

// Duration is how long Show blocks.
func (o *Override) Duration() time.Duration {
	return time.Duration(o.length+1) * o.step
}
