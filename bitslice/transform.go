package bitslice

import (
	"github.com/deso-protocol/ternpow/ternhash"
)

// Transform is the bit-sliced form of ternhash.Transform: the same 27 rounds
// and the same cursor schedule, with the substitution box expressed as
// bitwise logic over all lanes at once.
//
// state and scratch must not alias. scratch is overwritten.
func Transform(state *State, scratch *State) {
	cursor := 0
	for round := 0; round < ternhash.NumberOfRounds; round++ {
		*scratch = *state

		for ii := 0; ii < StateLength; ii++ {
			alpha := scratch.Low[cursor]
			beta := scratch.High[cursor]
			if cursor < ternhash.CursorWrap {
				cursor += ternhash.CursorStride
			} else {
				cursor -= ternhash.CursorWrap
			}
			gamma := scratch.High[cursor]
			delta := (alpha | ^gamma) & (scratch.Low[cursor] ^ beta)

			state.Low[ii] = ^delta
			state.High[ii] = (alpha ^ gamma) | delta
		}
	}
}
