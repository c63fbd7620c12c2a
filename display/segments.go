package display

import (
	"strings"

	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/tempo"
)

// Segment bits: a=0 through g=6. Cathodes are active low.
const (
	SEG_A = iota
	SEG_B
	SEG_C
	SEG_D
	SEG_E
	SEG_F
	SEG_G
)

var PATTERNS = [10]uint8{
	0b01000000, // 0
	0b01111001, // 1
	0b00100100, // 2
	0b00110000, // 3
	0b00011001, // 4
	0b00010010, // 5
	0b00000010, // 6
	0b01111000, // 7
	0b00000000, // 8
	0b00010000, // 9
}

// numerator and denominator glyphs shown while the meter changes
var signatureGlyphs = map[tempo.TimeSignature][2]uint8{
	tempo.FourFour:   {PATTERNS[4], PATTERNS[4]},
	tempo.TwoFour:    {PATTERNS[2], PATTERNS[4]},
	tempo.TwoTwo:     {PATTERNS[2], PATTERNS[2]},
	tempo.ThreeEight: {PATTERNS[3], PATTERNS[8]},
	tempo.FiveEight:  {PATTERNS[5], PATTERNS[8]},
	tempo.SixEight:   {PATTERNS[6], PATTERNS[8]},
}

func SignatureGlyphs(ts tempo.TimeSignature) (numerator, denominator uint8) {
	g, ok := signatureGlyphs[ts]
	if !ok {
		return board.BLANK, board.BLANK
	}
	return g[0], g[1]
}

// Decode maps a cathode pattern back to its digit.
func Decode(pattern uint8) (int, bool) {
	for d, p := range PATTERNS {
		if p == pattern&0x7F {
			return d, true
		}
	}
	return 0, false
}

func lit(pattern uint8, seg int) bool {
	return pattern&(1<<seg) == 0
}

// Glyph draws one pattern as a 3x3 block of text.
func Glyph(pattern uint8) [3]string {
	pick := func(seg int, on string) string {
		if lit(pattern, seg) {
			return on
		}
		return " "
	}
	return [3]string{
		" " + pick(SEG_A, "_") + " ",
		pick(SEG_F, "|") + pick(SEG_G, "_") + pick(SEG_B, "|"),
		pick(SEG_E, "|") + pick(SEG_D, "_") + pick(SEG_C, "|"),
	}
}

// ASCII draws the three digits side by side.
func ASCII(patterns [board.NUM_DIGITS]uint8) [3]string {
	var rows [3][]string
	for _, p := range patterns {
		g := Glyph(p)
		for r := range rows {
			rows[r] = append(rows[r], g[r])
		}
	}
	var out [3]string
	for r := range rows {
		out[r] = strings.Join(rows[r], " ")
	}
	return out
}

// Text reads the digits as characters, blanks as spaces and anything
// unreadable as '?'.
func Text(patterns [board.NUM_DIGITS]uint8) string {
	var sb strings.Builder
	for _, p := range patterns {
		if p&0x7F == 0x7F {
			sb.WriteByte(' ')
			continue
		}
		d, ok := Decode(p)
		if !ok {
			sb.WriteByte('?')
			continue
		}
		sb.WriteByte(byte('0' + d))
	}
	return sb.String()
}
