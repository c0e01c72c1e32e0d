// Package bitslice evaluates 64 independent ternary sponge states at once.
//
// Each cell of a State is a pair of 64-bit words. Bit b of the pair holds the
// trit of lane b:
//
//	low=1 high=1  ->  0
//	low=0 high=1  -> +1
//	low=1 high=0  -> -1
//
// The fourth pattern (0, 0) is never produced by Transform, Increment or any
// of the loaders in this package.
package bitslice

import (
	"github.com/deso-protocol/ternpow/encoding"
	"github.com/deso-protocol/ternpow/ternhash"
)

const (
	HashLength  = ternhash.HashLength
	StateLength = ternhash.StateLength

	// NumLanes is the number of parallel states packed into one word pair.
	NumLanes = 64

	// AllBits has every lane set.
	AllBits = ^uint64(0)
)

// State is owned by exactly one goroutine at a time. Workers copy it by value
// (*dst = *src) rather than sharing it.
type State struct {
	Low  [StateLength]uint64
	High [StateLength]uint64
}

// NewState returns a state with every lane of every cell at trit 0.
func NewState() *State {
	state := &State{}
	for ii := 0; ii < StateLength; ii++ {
		state.Low[ii] = AllBits
		state.High[ii] = AllBits
	}
	return state
}

func (state *State) Copy() *State {
	cp := *state
	return &cp
}

// Broadcast returns the word pair holding trit tt in every lane. Anything
// that is not 0 or 1 is treated as -1; callers validate their input first.
func Broadcast(tt encoding.Trit) (_low uint64, _high uint64) {
	switch tt {
	case encoding.TritZero:
		return AllBits, AllBits
	case encoding.TritOne:
		return 0, AllBits
	default:
		return AllBits, 0
	}
}

// SetCell writes trit tt into every lane of cell index.
func (state *State) SetCell(index int, tt encoding.Trit) {
	state.Low[index], state.High[index] = Broadcast(tt)
}

// LaneTrit decodes the trit that lane holds at cell index.
func (state *State) LaneTrit(index int, lane uint) encoding.Trit {
	laneMask := uint64(1) << lane
	if state.Low[index]&laneMask == 0 {
		return encoding.TritOne
	}
	if state.High[index]&laneMask == 0 {
		return encoding.TritMinusOne
	}
	return encoding.TritZero
}

// DecodeLane writes lane's trits for cells [from, from+len(out)) into out.
func (state *State) DecodeLane(lane uint, from int, out []encoding.Trit) {
	for ii := range out {
		out[ii] = state.LaneTrit(from+ii, lane)
	}
}

// IsValid reports whether no lane of any cell holds the unused (0, 0) pattern.
func (state *State) IsValid() bool {
	for ii := 0; ii < StateLength; ii++ {
		if state.Low[ii]|state.High[ii] != AllBits {
			return false
		}
	}
	return true
}
