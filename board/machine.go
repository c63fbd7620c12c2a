package board

import (
	"sync/atomic"
	"time"
)

// Machine is a virtual microcontroller: a cycle counter, its timers and its
// I/O ports. Time only moves when the foreground calls Advance or Delay, and
// every timer match that falls inside the advanced window is dispatched in
// cycle order. Handlers run to completion and never nest, which mirrors a
// single interrupt priority level.
type Machine struct {
	hz     uint64
	now    atomic.Uint64
	timers []*Timer
	inISR  bool

	Ports   *Ports
	Buttons *Buttons

	realtime   bool
	wallStart  time.Time
	cycleStart uint64
}

func NewMachine(hz uint64) *Machine {
	m := &Machine{hz: hz}
	m.Ports = NewPorts(m.Now)
	m.Buttons = NewButtons(m.Now)
	return m
}

// NewTimer registers a timer. It starts counting immediately with its
// interrupt disabled. When two timers match on the same cycle the one
// registered first is served first.
func (m *Machine) NewTimer(name string, prescaler uint16, compare uint16) *Timer {
	t := &Timer{
		name:      name,
		prescaler: uint64(prescaler),
		m:         m,
	}
	t.compare.Store(uint32(compare))
	t.next = m.Now() + t.period()
	m.timers = append(m.timers, t)
	return t
}

// ConnectTone makes t the timer whose compare unit toggles the buzzer pin.
func (m *Machine) ConnectTone(t *Timer) {
	t.onMatch = m.Ports.compareMatch
}

func (m *Machine) Now() uint64 {
	return m.now.Load()
}

func (m *Machine) Hz() uint64 {
	return m.hz
}

func (m *Machine) Cycles(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d) * m.hz / uint64(time.Second)
}

func (m *Machine) Duration(cycles uint64) time.Duration {
	return time.Duration(cycles * uint64(time.Second) / m.hz)
}

// Realtime paces the virtual clock against the wall clock.
func (m *Machine) Realtime(on bool) {
	m.realtime = on
	m.wallStart = time.Now()
	m.cycleStart = m.Now()
}

// Delay burns d of foreground time, serving interrupts meanwhile.
func (m *Machine) Delay(d time.Duration) {
	m.Advance(m.Cycles(d))
}

// Advance moves the clock forward by cycles. It must only be called from the
// foreground, never from a handler.
func (m *Machine) Advance(cycles uint64) {
	if m.inISR {
		panic("board: Advance called from interrupt handler")
	}
	target := m.Now() + cycles
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now.Store(t.next)
		m.fire(t)
	}
	m.now.Store(target)
	if m.realtime {
		m.pace()
	}
}

func (m *Machine) nextDue(limit uint64) *Timer {
	var due *Timer
	for _, t := range m.timers {
		if t.next > limit {
			continue
		}
		if due == nil || t.next < due.next {
			due = t
		}
	}
	return due
}

func (m *Machine) fire(t *Timer) {
	at := t.next
	if t.onMatch != nil {
		t.onMatch(at)
	}
	if t.enabled.Load() && t.handler != nil {
		m.inISR = true
		t.handler()
		m.inISR = false
	}
	// the handler may have moved the compare value; it applies from here
	t.next = at + t.period()
}

const (
	paceSlack = 2 * time.Millisecond
	paceLag   = 100 * time.Millisecond
)

func (m *Machine) pace() {
	virtual := m.Duration(m.Now() - m.cycleStart)
	ahead := virtual - time.Since(m.wallStart)
	switch {
	case ahead > paceSlack:
		time.Sleep(ahead)
	case ahead < -paceLag:
		// fell far behind (suspended process); do not try to catch up
		m.wallStart = time.Now()
		m.cycleStart = m.Now()
	}
}
