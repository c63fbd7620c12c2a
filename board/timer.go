package board

import "sync/atomic"

// Timer is a compare-match timer in clear-on-match mode. The counter keeps
// running while the interrupt is disabled; only the handler call is gated.
type Timer struct {
	name      string
	prescaler uint64
	compare   atomic.Uint32
	enabled   atomic.Bool
	handler   func()
	onMatch   func(at uint64)
	next      uint64 // cycle of the next match
	m         *Machine
}

func (t *Timer) Name() string {
	return t.name
}

// Attach sets the interrupt handler.
func (t *Timer) Attach(handler func()) {
	t.handler = handler
}

// Enable sets the interrupt enable flag. Enabling twice is a no-op.
func (t *Timer) Enable() {
	t.enabled.Store(true)
}

// Disable clears the interrupt enable flag. Disabling twice is a no-op.
func (t *Timer) Disable() {
	t.enabled.Store(false)
}

func (t *Timer) Enabled() bool {
	return t.enabled.Load()
}

// SetCompare takes effect from the period after the current one.
func (t *Timer) SetCompare(v uint16) {
	t.compare.Store(uint32(v))
}

func (t *Timer) Compare() uint16 {
	return uint16(t.compare.Load())
}

func (t *Timer) Prescaler() uint64 {
	return t.prescaler
}

// Reset zeroes the counter so the next match is a full period away.
func (t *Timer) Reset() {
	t.next = t.m.Now() + t.period()
}

// Frequency is the match rate in Hz for the current compare value.
func (t *Timer) Frequency() float64 {
	return float64(t.m.Hz()) / float64(t.period())
}

func (t *Timer) period() uint64 {
	return (uint64(t.compare.Load()) + 1) * t.prescaler
}
