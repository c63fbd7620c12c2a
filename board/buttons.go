package board

import "sync/atomic"

type Button int

const (
	BUTTON_UP Button = iota
	BUTTON_DOWN
	BUTTON_TIMESIG
	NUM_BUTTONS
)

func (b Button) String() string {
	switch b {
	case BUTTON_UP:
		return "up"
	case BUTTON_DOWN:
		return "down"
	case BUTTON_TIMESIG:
		return "timesig"
	}
	return "unknown"
}

// Buttons are three active-low inputs with internal pull-ups. A host can
// either hold a button down explicitly or press it for a window of virtual
// time, which is how key presses without release events are modelled.
type Buttons struct {
	clock     func() uint64
	held      [NUM_BUTTONS]atomic.Bool
	releaseAt [NUM_BUTTONS]atomic.Uint64
}

func NewButtons(clock func() uint64) *Buttons {
	return &Buttons{clock: clock}
}

// Level reads the pin: false while the button is down.
func (b *Buttons) Level(btn Button) bool {
	return !b.Pressed(btn)
}

func (b *Buttons) Pressed(btn Button) bool {
	if btn < 0 || btn >= NUM_BUTTONS {
		return false
	}
	return b.held[btn].Load() || b.clock() < b.releaseAt[btn].Load()
}

// Set holds or releases a button until told otherwise.
func (b *Buttons) Set(btn Button, down bool) {
	if btn < 0 || btn >= NUM_BUTTONS {
		return
	}
	b.held[btn].Store(down)
}

// Hold keeps a button down for the next cycles of virtual time, extending an
// earlier hold.
func (b *Buttons) Hold(btn Button, cycles uint64) {
	if btn < 0 || btn >= NUM_BUTTONS {
		return
	}
	b.releaseAt[btn].Store(b.clock() + cycles)
}
