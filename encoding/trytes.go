package encoding

import (
	"strings"

	"github.com/pkg/errors"
)

// A tryte packs three trits (t0 + 3*t1 + 9*t2, a value in [-13, 13]) into one
// character of TryteAlphabet. Non-negative values map to their own index and
// negative values wrap around from the end, so '9' is zero, 'M' is 13 and 'N'
// is -13.
const TryteAlphabet = "9ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const TritsPerTryte = 3

var (
	ErrInvalidTryte     = errors.New("invalid tryte character")
	ErrTritsNotAligned  = errors.New("trit count is not a multiple of three")
	tryteAlphabetLookup = func() map[rune]int {
		lookup := make(map[rune]int, len(TryteAlphabet))
		for ii, cc := range TryteAlphabet {
			lookup[cc] = ii
		}
		return lookup
	}()
)

func TrytesToTrits(trytes string) ([]Trit, error) {
	trits := make([]Trit, 0, len(trytes)*TritsPerTryte)
	for ii, cc := range trytes {
		value, exists := tryteAlphabetLookup[cc]
		if !exists {
			return nil, errors.Wrapf(ErrInvalidTryte, "TrytesToTrits: %q at index %d", cc, ii)
		}
		if value > 13 {
			value -= len(TryteAlphabet)
		}
		for jj := 0; jj < TritsPerTryte; jj++ {
			rem := value % 3
			value /= 3
			switch rem {
			case 2:
				rem = -1
				value++
			case -2:
				rem = 1
				value--
			}
			trits = append(trits, Trit(rem))
		}
	}
	return trits, nil
}

func TritsToTrytes(trits []Trit) (string, error) {
	if len(trits)%TritsPerTryte != 0 {
		return "", errors.Wrapf(ErrTritsNotAligned, "TritsToTrytes: got %d trits", len(trits))
	}
	if err := ValidateTrits(trits); err != nil {
		return "", errors.Wrapf(err, "TritsToTrytes: ")
	}

	var builder strings.Builder
	builder.Grow(len(trits) / TritsPerTryte)
	for ii := 0; ii < len(trits); ii += TritsPerTryte {
		value := int(trits[ii]) + 3*int(trits[ii+1]) + 9*int(trits[ii+2])
		if value < 0 {
			value += len(TryteAlphabet)
		}
		builder.WriteByte(TryteAlphabet[value])
	}
	return builder.String(), nil
}
