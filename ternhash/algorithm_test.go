package ternhash

import (
	"testing"

	"github.com/deso-protocol/ternpow/encoding"
	"github.com/stretchr/testify/require"
)

type testVector struct {
	input    []encoding.Trit
	expected string
}

// cyclicTrits returns -1, 0, 1, -1, 0, 1, ... with the given stride between
// consecutive indices.
func cyclicTrits(length int, stride int) []encoding.Trit {
	trits := make([]encoding.Trit, length)
	for ii := range trits {
		trits[ii] = encoding.Trit((ii*stride)%3 - 1)
	}
	return trits
}

var testVectors = []testVector{
	{
		// Two full blocks.
		input:    cyclicTrits(486, 1),
		expected: "LNSVVGMNVZ9DKJNZLGNSYAD9ZACCLQBCVKAYEV9WUAKXUASELUGJOXAUIAKISTZDILDF99YIPMXVJAYNW",
	},
	{
		// One short block, zero padded.
		input:    cyclicTrits(100, 7),
		expected: "LKSDLGMYHWTBHGYBCQYNZMQFVPPEQXZCRFSFPZEPTZKFKAT9TYWGZP9YCAYCUCVESPCKXYJAJEWHDIATK",
	},
}

func TestHashVectors(t *testing.T) {
	require := require.New(t)

	for _, vec := range testVectors {
		hash := Hash(vec.input)
		trytes, err := encoding.TritsToTrytes(hash[:])
		require.NoError(err)
		require.Equal(vec.expected, trytes)
	}
}

func TestTransformZeroState(t *testing.T) {
	require := require.New(t)

	// Zero maps to -1, -1 to 1 and 1 back to 0 when every neighbour agrees, so
	// 27 rounds bring an all-zero state back to itself.
	var state, scratch [StateLength]encoding.Trit
	Transform(&state, &scratch)
	require.Equal([StateLength]encoding.Trit{}, state)
}

func TestTransformDeterministic(t *testing.T) {
	require := require.New(t)

	var first, second, scratch [StateLength]encoding.Trit
	copy(first[:], cyclicTrits(StateLength, 5))
	second = first

	Transform(&first, &scratch)
	Transform(&second, &scratch)
	require.Equal(first, second)
	for _, tt := range first {
		require.True(tt.IsValid())
	}
}

func TestSpongePaddingMatchesExplicitZeros(t *testing.T) {
	require := require.New(t)

	short := cyclicTrits(100, 7)
	padded := make([]encoding.Trit, HashLength)
	copy(padded, short)
	require.Equal(Hash(short), Hash(padded))

	sponge := NewSponge()
	sponge.Absorb(short)
	first := sponge.Squeeze()
	sponge.Reset()
	sponge.Absorb(short)
	require.Equal(first, sponge.Squeeze())
}

func TestChecksumDigest(t *testing.T) {
	require := require.New(t)

	message := cyclicTrits(300, 2)
	checksum := cyclicTrits(27, 1)

	digest := ChecksumDigest(message, checksum)
	require.Equal(digest, ChecksumDigest(message, checksum))

	// The length block makes a message distinct from the same message with
	// an extra trailing zero.
	extended := append(append([]encoding.Trit{}, message...), 0)
	require.NotEqual(digest, ChecksumDigest(extended, checksum))
}

func TestBalancedSumAndTrailingZeros(t *testing.T) {
	require := require.New(t)

	var hash [HashLength]encoding.Trit
	require.Equal(HashLength, TrailingZeros(hash))
	require.Equal(0, BalancedSum(hash, HashLength))

	hash[0] = 1
	hash[1] = 1
	hash[2] = -1
	hash[HashLength-4] = -1
	require.Equal(3, TrailingZeros(hash))
	require.Equal(1, BalancedSum(hash, 3))
	require.Equal(2, BalancedSum(hash, 2))
	require.Equal(0, BalancedSum(hash, HashLength+10))
}

func BenchmarkTransform(b *testing.B) {
	var state, scratch [StateLength]encoding.Trit
	copy(state[:], cyclicTrits(StateLength, 5))
	for ii := 0; ii < b.N; ii++ {
		Transform(&state, &scratch)
	}
}
