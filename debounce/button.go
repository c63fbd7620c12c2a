// Package debounce confirms button presses by counting consecutive polls in
// the pressed state.
package debounce

const DEBOUNCE_COUNT_MAX = 240

type State uint8

const (
	Idle     State = iota // released
	Counting              // pressed, not yet stable
	Fired                 // reached the threshold on this poll
	Held                  // still pressed after firing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Counting:
		return "counting"
	case Fired:
		return "fired"
	case Held:
		return "held"
	}
	return "unknown"
}

// Button fires once per press, on the poll where the press has been seen
// threshold times in a row. Releasing at any point starts over.
type Button struct {
	threshold uint16
	count     uint16
	state     State
}

func NewButton(threshold uint16) *Button {
	if threshold == 0 {
		threshold = 1
	}
	return &Button{threshold: threshold}
}

// Update feeds one poll and reports whether the press was confirmed on it.
func (b *Button) Update(pressed bool) bool {
	if !pressed {
		b.count = 0
		b.state = Idle
		return false
	}

	// saturate instead of wrapping so a long hold never fires again
	if b.count < b.threshold {
		b.count++
	}

	switch b.state {
	case Idle, Counting:
		if b.count == b.threshold {
			b.state = Fired
			return true
		}
		b.state = Counting
	case Fired:
		b.state = Held
	}
	return false
}

func (b *Button) State() State {
	return b.state
}

func (b *Button) Count() uint16 {
	return b.count
}
