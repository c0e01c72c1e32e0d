package bitset

import (
	"math/big"
	"math/bits"
)

// A Bitset is an ordered list of bits with arbitrary length. It uses
// the built-in big.Int as the underlying storage scheme. The big.Int maintains
// an ordered list of bits and provides an interface where we can flip each bit
// individually. The Bitset type acts as a wrapper and a clean interface on top.
//
// The miner uses Bitsets as the rows of a transposed bit-sliced state: one
// Bitset per lane, bit i set when that lane had the bit set at window
// position i. A Bitset is cleared and refilled on every iteration, so Clear
// keeps the big.Int's backing words to avoid allocating in hot loops.
type Bitset struct {
	store *big.Int
}

// Initializes a new Bitset with zero value for all bits.
func NewBitset() *Bitset {
	return &Bitset{
		store: big.NewInt(0),
	}
}

// Gets the value of the bit at the given index.
func (b *Bitset) Get(index int) bool {
	return b.store.Bit(index) == 1
}

// Set the value of the bit at the given index, and returns the updated Bitset
// for method chaining.
func (b *Bitset) Set(index int, newValue bool) *Bitset {
	booleanValue := uint(0)
	if newValue {
		booleanValue = 1
	}

	b.store.SetBit(b.store, index, booleanValue)
	return b
}

// Returns the total number of bits used by this bitset. This is
// equivalent to the length of the absolute value of the underlying
// big.Int, so the highest index set to true is b.Size() - 1.
func (b *Bitset) Size() int {
	return b.store.BitLen()
}

// PopCount returns the number of bits set to true.
func (b *Bitset) PopCount() int {
	count := 0
	for _, word := range b.store.Bits() {
		count += bits.OnesCount(uint(word))
	}
	return count
}

// Clear sets every bit to false and returns the Bitset for method chaining.
func (b *Bitset) Clear() *Bitset {
	b.store.SetUint64(0)
	return b
}

func (b *Bitset) Eq(other *Bitset) bool {
	if b == nil || other == nil {
		return false
	}
	return b.store.Cmp(other.store) == 0
}
