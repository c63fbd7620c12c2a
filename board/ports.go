package board

import "sync/atomic"

const (
	DIGIT1     = 0 // hundreds, leftmost
	DIGIT2     = 1 // tens
	DIGIT3     = 2 // ones, rightmost
	NUM_DIGITS = 3

	ALL_DIGITS uint8 = 1<<DIGIT1 | 1<<DIGIT2 | 1<<DIGIT3

	// BLANK drives every cathode high. The display is common anode, so a
	// segment lights only when its cathode is low.
	BLANK uint8 = 0xFF
)

// Edge is one transition of the audio pin, stamped in CPU cycles.
type Edge struct {
	At   uint64
	High bool
}

type EdgeSink interface {
	Edge(Edge)
}

type latch struct {
	pattern atomic.Uint32
	at      atomic.Uint64 // cycle+1 of the last write, 0 when never lit
}

// Ports are the output lines of the board: 7 cathodes, 3 digit anodes, the
// LED and the compare output driving the buzzer. Every line is a single
// atomic word so handlers and observers never block each other.
type Ports struct {
	clock    func() uint64
	cathodes atomic.Uint32
	anodes   atomic.Uint32
	led      atomic.Bool
	toneOut  atomic.Bool
	tonePin  atomic.Bool
	latches  [NUM_DIGITS]latch
	sink     EdgeSink
}

func NewPorts(clock func() uint64) *Ports {
	p := &Ports{clock: clock}
	p.cathodes.Store(uint32(BLANK))
	return p
}

// SetEdgeSink must be called before the machine starts running.
func (p *Ports) SetEdgeSink(sink EdgeSink) {
	p.sink = sink
}

func (p *Ports) SetCathodes(pattern uint8) {
	p.cathodes.Store(uint32(pattern))
	p.latch()
}

func (p *Ports) Cathodes() uint8 {
	return uint8(p.cathodes.Load())
}

func (p *Ports) EnableDigit(digit int) {
	for {
		old := p.anodes.Load()
		if p.anodes.CompareAndSwap(old, old|1<<digit) {
			break
		}
	}
	p.latch()
}

func (p *Ports) DisableDigits(mask uint8) {
	for {
		old := p.anodes.Load()
		if p.anodes.CompareAndSwap(old, old&^uint32(mask)) {
			return
		}
	}
}

func (p *Ports) Anodes() uint8 {
	return uint8(p.anodes.Load())
}

func (p *Ports) ToggleLED() {
	for {
		old := p.led.Load()
		if p.led.CompareAndSwap(old, !old) {
			return
		}
	}
}

func (p *Ports) SetLED(on bool) {
	p.led.Store(on)
}

func (p *Ports) LED() bool {
	return p.led.Load()
}

// SetToneOutput connects or disconnects the buzzer pin from the compare
// unit of the tone timer.
func (p *Ports) SetToneOutput(on bool) {
	p.toneOut.Store(on)
}

func (p *Ports) ToneOutput() bool {
	return p.toneOut.Load()
}

func (p *Ports) TonePin() bool {
	return p.tonePin.Load()
}

// compareMatch is the hardware side of a tone timer match: the buzzer pin
// toggles when the compare output is connected.
func (p *Ports) compareMatch(at uint64) {
	if !p.toneOut.Load() {
		return
	}
	high := !p.tonePin.Load()
	p.tonePin.Store(high)
	if p.sink != nil {
		p.sink.Edge(Edge{At: at, High: high})
	}
}

func (p *Ports) latch() {
	anodes := p.anodes.Load()
	pattern := p.cathodes.Load()
	now := p.clock() + 1
	for d := 0; d < NUM_DIGITS; d++ {
		if anodes&(1<<d) != 0 {
			p.latches[d].pattern.Store(pattern)
			p.latches[d].at.Store(now)
		}
	}
}

// Snapshot is what an eye sees: a digit counts as lit if its anode is on now
// or it was lit within the last persist cycles.
func (p *Ports) Snapshot(persist uint64) [NUM_DIGITS]uint8 {
	var out [NUM_DIGITS]uint8
	anodes := p.anodes.Load()
	cathodes := uint8(p.cathodes.Load())
	now := p.clock() + 1
	for d := range out {
		out[d] = BLANK
		if anodes&(1<<d) != 0 {
			out[d] = cathodes
			continue
		}
		at := p.latches[d].at.Load()
		if at != 0 && now-at <= persist {
			out[d] = uint8(p.latches[d].pattern.Load())
		}
	}
	return out
}
