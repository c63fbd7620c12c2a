package tempo

import "sync/atomic"

// Model holds the tempo and meter shared between the foreground loop and the
// periodic handlers. Handlers only read it. Writers must gate the tone timer
// before mutating so the tone scheduler never recomputes its target from a
// half-applied adjustment; the display multiplexer keeps reading without a
// lock and may briefly show a stale digit.
type Model struct {
	speed   atomic.Uint32
	timeSig atomic.Uint32
}

func NewModel() *Model {
	var m Model
	m.speed.Store(DEFAULT_SPEED)
	m.timeSig.Store(uint32(FourFour))
	return &m
}

func (m *Model) Speed() uint8 {
	return uint8(m.speed.Load())
}

// SetSpeed stores bpm clamped to [MIN_SPEED, MAX_SPEED].
func (m *Model) SetSpeed(bpm int) {
	m.speed.Store(uint32(ClampSpeed(bpm)))
}

// IncreaseSpeed reports whether the speed moved.
func (m *Model) IncreaseSpeed() bool {
	return m.adjust(1)
}

// DecreaseSpeed reports whether the speed moved.
func (m *Model) DecreaseSpeed() bool {
	return m.adjust(-1)
}

func (m *Model) adjust(delta int) bool {
	old := m.Speed()
	next := ClampSpeed(int(old) + delta)
	m.speed.Store(uint32(next))
	return next != old
}

func (m *Model) TimeSignature() TimeSignature {
	return TimeSignature(m.timeSig.Load())
}

func (m *Model) SetTimeSignature(ts TimeSignature) {
	if !ts.Valid() {
		ts = FourFour
	}
	m.timeSig.Store(uint32(ts))
}

// CycleTimeSignature advances to the next variant and returns it.
func (m *Model) CycleTimeSignature() TimeSignature {
	next := m.TimeSignature().Next()
	m.timeSig.Store(uint32(next))
	return next
}

func (m *Model) Divisor() uint8 {
	return m.TimeSignature().Divisor()
}

func ClampSpeed(bpm int) uint8 {
	switch {
	case bpm < MIN_SPEED:
		return MIN_SPEED
	case bpm > MAX_SPEED:
		return MAX_SPEED
	}
	return uint8(bpm)
}

func ValidSpeed(bpm int) bool {
	return bpm >= MIN_SPEED && bpm <= MAX_SPEED
}
