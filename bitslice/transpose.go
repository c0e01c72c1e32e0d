package bitslice

import (
	"github.com/deso-protocol/ternpow/collections/bitset"
)

// ZeroMask returns the lanes whose last minWeightMagnitude rate trits are all
// zero. A lane holds a zero exactly where its low and high bits agree.
func ZeroMask(state *State, minWeightMagnitude int) uint64 {
	mask := AllBits
	for ii := 0; ii < minWeightMagnitude; ii++ {
		index := HashLength - 1 - ii
		mask &= ^(state.Low[index] ^ state.High[index])
		if mask == 0 {
			return 0
		}
	}
	return mask
}

// Transposition holds one low and one high row per lane. Rows are reused
// across calls so a worker allocates them once.
type Transposition struct {
	Low  [NumLanes]*bitset.Bitset
	High [NumLanes]*bitset.Bitset
}

func NewTransposition() *Transposition {
	transposition := &Transposition{}
	for lane := 0; lane < NumLanes; lane++ {
		transposition.Low[lane] = bitset.NewBitset()
		transposition.High[lane] = bitset.NewBitset()
	}
	return transposition
}

// Transpose fills the rows from cells [offset, offset+length): bit ii of
// Low[lane] is bit lane of state.Low[offset+ii], and likewise for High.
func (transposition *Transposition) Transpose(state *State, offset int, length int) {
	for lane := 0; lane < NumLanes; lane++ {
		laneMask := uint64(1) << uint(lane)
		lowRow := transposition.Low[lane].Clear()
		highRow := transposition.High[lane].Clear()
		for ii := 0; ii < length; ii++ {
			if state.Low[offset+ii]&laneMask != 0 {
				lowRow.Set(ii, true)
			}
			if state.High[offset+ii]&laneMask != 0 {
				highRow.Set(ii, true)
			}
		}
	}
}

// BalancedLane returns the first lane, scanning from lane 0, whose trits in
// cells [0, sumLength) contain as many +1s as -1s, or -1 if there is none.
//
// A zero sets both bits, a +1 only the high bit and a -1 only the low bit, so
// the low row counts zeros plus minus-ones and the high row counts zeros plus
// ones. The rows have equal weight exactly when the lane is balanced.
func (transposition *Transposition) BalancedLane(state *State, sumLength int) int {
	transposition.Transpose(state, 0, sumLength)
	for lane := 0; lane < NumLanes; lane++ {
		if transposition.Low[lane].PopCount() == transposition.High[lane].PopCount() {
			return lane
		}
	}
	return -1
}
