package encoding

// This file implements balanced ternary digits ("trits") and the small set of
// conversions the miner needs around them.
// The encoding is:
// - a trit is one of -1, 0, 1
// - integers are serialized least significant trit first, each digit chosen so
//   that the remainder is in {-1, 0, 1}
// - zero is serialized as the single trit 0
//
// Any other value stored in a Trit is invalid and is rejected by ValidateTrits
// before it can reach the bit-sliced state.

import (
	"github.com/pkg/errors"
)

type Trit int8

const (
	TritMinusOne Trit = -1
	TritZero     Trit = 0
	TritOne      Trit = 1
)

// MaxTritsLen64 is the number of trits needed to hold any int64.
const MaxTritsLen64 = 41

var ErrInvalidTrit = errors.New("invalid trit value")

func (tt Trit) IsValid() bool {
	return tt >= TritMinusOne && tt <= TritOne
}

// ValidateTrits returns an error naming the first position holding something
// other than -1, 0 or 1.
func ValidateTrits(trits []Trit) error {
	for ii, tt := range trits {
		if !tt.IsValid() {
			return errors.Wrapf(ErrInvalidTrit, "ValidateTrits: value %d at index %d", tt, ii)
		}
	}
	return nil
}

// IntToTrits returns the balanced ternary digits of xx, least significant first.
func IntToTrits(xx int64) []Trit {
	if xx == 0 {
		return []Trit{TritZero}
	}

	trits := make([]Trit, 0, MaxTritsLen64)
	for xx != 0 {
		rem := xx % 3
		xx /= 3
		switch rem {
		case 2:
			rem = -1
			xx++
		case -2:
			rem = 1
			xx--
		}
		trits = append(trits, Trit(rem))
	}
	return trits
}

// TritsToInt is the inverse of IntToTrits. Inputs longer than MaxTritsLen64
// overflow silently.
func TritsToInt(trits []Trit) int64 {
	var xx int64
	for ii := len(trits) - 1; ii >= 0; ii-- {
		xx = xx*3 + int64(trits[ii])
	}
	return xx
}

// Sum returns the balanced sum of the trits, i.e. the count of ones minus the
// count of minus ones.
func Sum(trits []Trit) int {
	sum := 0
	for _, tt := range trits {
		sum += int(tt)
	}
	return sum
}
