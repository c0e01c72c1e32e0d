package bitslice

import (
	"fmt"

	"github.com/deso-protocol/ternpow/encoding"
)

// LaneSeedWidth is the number of cells SeedLanes writes.
const LaneSeedWidth = 4

// laneSeedLow and laneSeedHigh give each of the 64 lanes a distinct
// combination of four trits. These constants are part of the algorithm:
// changing them changes which nonce a given search finds.
var (
	laneSeedLow = [LaneSeedWidth]uint64{
		0b1101101101101101101101101101101101101101101101101101101101101101,
		0b1111000111111000111111000111111000111111000111111000111111000111,
		0b0111111111111111111000000000111111111111111111000000000111111111,
		0b1111111111000000000000000000000000000111111111111111111111111111,
	}
	laneSeedHigh = [LaneSeedWidth]uint64{
		0b1011011011011011011011011011011011011011011011011011011011011011,
		0b1000111111000111111000111111000111111000111111000111111000111111,
		0b1111111111000000000111111111111111111000000000111111111111111111,
		0b0000000000111111111111111111111111111111111111111111111111111111,
	}
)

// LoadBlock writes block into the rate of every lane without transforming.
// Rate cells past the end of a short block are set to zero.
func LoadBlock(state *State, block []encoding.Trit) {
	if len(block) > HashLength {
		panic(fmt.Sprintf("LoadBlock: block of %d trits exceeds %d", len(block), HashLength))
	}
	for ii := 0; ii < HashLength; ii++ {
		if ii < len(block) {
			state.SetCell(ii, block[ii])
		} else {
			state.SetCell(ii, encoding.TritZero)
		}
	}
}

// Absorb feeds trits into every lane one block at a time, transforming after
// each block. It matches ternhash.Sponge.Absorb lane for lane.
func Absorb(state *State, scratch *State, trits []encoding.Trit) {
	for offset := 0; offset < len(trits); offset += HashLength {
		end := offset + HashLength
		if end > len(trits) {
			end = len(trits)
		}
		LoadBlock(state, trits[offset:end])
		Transform(state, scratch)
	}
}

// SeedLanes overwrites cells [offset, offset+LaneSeedWidth) so that each lane
// starts from a different combination of trits there.
func SeedLanes(state *State, offset int) {
	if offset < 0 || offset+LaneSeedWidth > HashLength {
		panic(fmt.Sprintf("SeedLanes: offset %d outside the rate", offset))
	}
	for ii := 0; ii < LaneSeedWidth; ii++ {
		state.Low[offset+ii] = laneSeedLow[ii]
		state.High[offset+ii] = laneSeedHigh[ii]
	}
}

// SearchBlockStart is the offset of the last, possibly partial, block of a
// message of the given length. That block is the one a search rewrites.
func SearchBlockStart(messageLength int) int {
	if messageLength == 0 {
		return 0
	}
	return (messageLength - 1) / HashLength * HashLength
}

// LoadSearchBlock loads block untransformed and seeds the lanes at offset
// within it. state must already hold everything before the block.
func LoadSearchBlock(state *State, block []encoding.Trit, offset int) {
	LoadBlock(state, block)
	SeedLanes(state, offset)
}

// Prepare builds the shared starting state for a search over message. Every
// block but the last is absorbed. The last block is the one being searched:
// it is loaded into the rate untransformed and lanes are seeded at
// nonceOffset within it.
func Prepare(message []encoding.Trit, nonceOffset int) *State {
	state := NewState()
	searchBlockStart := SearchBlockStart(len(message))
	Absorb(state, &State{}, message[:searchBlockStart])
	LoadSearchBlock(state, message[searchBlockStart:], nonceOffset)
	return state
}
