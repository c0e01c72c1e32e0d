package ternhash

import (
	"github.com/deso-protocol/ternpow/encoding"
)

const (
	// HashLength is the number of trits absorbed or squeezed per block.
	HashLength = 243
	// StateLength is the full sponge state: the rate plus two blocks of capacity.
	StateLength = 3 * HashLength
	// NumberOfRounds is the number of substitution rounds per transform.
	NumberOfRounds = 27

	// The read cursor moves forward by CursorStride while it is below
	// CursorWrap and backwards by CursorWrap otherwise. Both steps are the
	// same residue modulo StateLength, so after StateLength steps the cursor
	// is back at zero.
	CursorStride = 364
	CursorWrap   = 365
)

// truthTable is indexed by a + 4*b + 5 where a is the trit under the read
// cursor and b the trit one stride later. Indices 3 and 7 cannot occur.
var truthTable = [11]encoding.Trit{1, 0, -1, 0, 1, -1, 0, 0, -1, 1, 0}

// Transform runs the permutation over state in place. scratch is overwritten.
func Transform(state *[StateLength]encoding.Trit, scratch *[StateLength]encoding.Trit) {
	cursor := 0
	for round := 0; round < NumberOfRounds; round++ {
		*scratch = *state
		for ii := 0; ii < StateLength; ii++ {
			aa := scratch[cursor]
			if cursor < CursorWrap {
				cursor += CursorStride
			} else {
				cursor -= CursorWrap
			}
			state[ii] = truthTable[aa+(scratch[cursor]<<2)+5]
		}
	}
}

// Sponge is the plain, one-trit-per-cell reference hash. The miner never uses
// it in its hot loops; it exists to verify what the bit-sliced search found.
type Sponge struct {
	state   [StateLength]encoding.Trit
	scratch [StateLength]encoding.Trit
}

func NewSponge() *Sponge {
	return &Sponge{}
}

func (sponge *Sponge) Reset() {
	sponge.state = [StateLength]encoding.Trit{}
}

// Absorb feeds trits into the sponge one block at a time. A short final block
// is padded with zero trits before it is transformed.
func (sponge *Sponge) Absorb(trits []encoding.Trit) {
	for offset := 0; offset < len(trits); offset += HashLength {
		end := offset + HashLength
		if end > len(trits) {
			end = len(trits)
		}
		nn := copy(sponge.state[:HashLength], trits[offset:end])
		for ii := nn; ii < HashLength; ii++ {
			sponge.state[ii] = 0
		}
		Transform(&sponge.state, &sponge.scratch)
	}
}

// Squeeze returns the current rate and advances the state by one transform.
func (sponge *Sponge) Squeeze() [HashLength]encoding.Trit {
	var out [HashLength]encoding.Trit
	copy(out[:], sponge.state[:HashLength])
	Transform(&sponge.state, &sponge.scratch)
	return out
}

func Hash(trits []encoding.Trit) [HashLength]encoding.Trit {
	sponge := NewSponge()
	sponge.Absorb(trits)
	return sponge.Squeeze()
}

// ChecksumDigest hashes a message together with a candidate checksum. The
// message length is absorbed first as its own block so that messages which
// differ only in trailing zero trits do not collide, then the message, then
// the checksum.
func ChecksumDigest(message []encoding.Trit, checksum []encoding.Trit) [HashLength]encoding.Trit {
	sponge := NewSponge()
	sponge.Absorb(encoding.IntToTrits(int64(len(message))))
	sponge.Absorb(message)
	sponge.Absorb(checksum)
	return sponge.Squeeze()
}

// BalancedSum is the balanced sum of the first window trits of hash.
func BalancedSum(hash [HashLength]encoding.Trit, window int) int {
	if window > HashLength {
		window = HashLength
	}
	return encoding.Sum(hash[:window])
}

// TrailingZeros counts the zero trits at the end of hash.
func TrailingZeros(hash [HashLength]encoding.Trit) int {
	count := 0
	for ii := HashLength - 1; ii >= 0 && hash[ii] == 0; ii-- {
		count++
	}
	return count
}
