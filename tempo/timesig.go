package tempo

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TimeSignature is one of the six meters the device can cycle through.
type TimeSignature uint8

const (
	FourFour TimeSignature = iota
	TwoFour
	TwoTwo
	ThreeEight
	FiveEight
	SixEight
	numTimeSignatures
)

type meter struct {
	Beats     uint8 // number of beats per measure
	NoteValue uint8 // note that represent that one beat
}

var TIME_SIGNATURES = [numTimeSignatures]meter{
	FourFour:   {4, 4},
	TwoFour:    {2, 4},
	TwoTwo:     {2, 2},
	ThreeEight: {3, 8},
	FiveEight:  {5, 8},
	SixEight:   {6, 8},
}

// Beats is the numerator.
func (ts TimeSignature) Beats() uint8 {
	return ts.meter().Beats
}

// NoteValue is the denominator.
func (ts TimeSignature) NoteValue() uint8 {
	return ts.meter().NoteValue
}

// Divisor is the number of beats between accents.
func (ts TimeSignature) Divisor() uint8 {
	return ts.meter().Beats
}

// Next returns the following variant, wrapping back to 4/4 after 6/8.
func (ts TimeSignature) Next() TimeSignature {
	if ts+1 >= numTimeSignatures {
		return FourFour
	}
	return ts + 1
}

func (ts TimeSignature) Valid() bool {
	return ts < numTimeSignatures
}

func (ts TimeSignature) String() string {
	m := ts.meter()
	return strconv.Itoa(int(m.Beats)) + "/" + strconv.Itoa(int(m.NoteValue))
}

func (ts TimeSignature) meter() meter {
	if !ts.Valid() {
		return TIME_SIGNATURES[FourFour]
	}
	return TIME_SIGNATURES[ts]
}

// TimeSignatures lists every variant in cycle order.
func TimeSignatures() []TimeSignature {
	all := make([]TimeSignature, 0, numTimeSignatures)
	for ts := FourFour; ts < numTimeSignatures; ts++ {
		all = append(all, ts)
	}
	return all
}

// ParseTimeSignature accepts the "beats/note" form, e.g. "3/8".
func ParseTimeSignature(input string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 {
		return FourFour, errors.Errorf("invalid time signature format %q", input)
	}

	beats, err1 := strconv.ParseUint(parts[0], 10, 8)
	noteValue, err2 := strconv.ParseUint(parts[1], 10, 8)
	if err1 != nil || err2 != nil {
		return FourFour, errors.Errorf("invalid number in time signature %q", input)
	}

	for ts, m := range TIME_SIGNATURES {
		if uint64(m.Beats) == beats && uint64(m.NoteValue) == noteValue {
			return TimeSignature(ts), nil
		}
	}

	return FourFour, errors.Errorf("time signature %q not supported", input)
}
