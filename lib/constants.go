package lib

import (
	"github.com/deso-protocol/ternpow/bitslice"
	"github.com/deso-protocol/ternpow/ternhash"
)

const (
	// ConfigDirVendorName is the enclosing folder for user data.
	// It's required to created a ConfigDir.
	ConfigDirVendorName = "ternpow"
	// ConfigDirAppName is the folder where we keep logs and other user data.
	ConfigDirAppName = "ternpow"

	HashLength = ternhash.HashLength

	// TransactionLength is the number of trits in a minable transaction. The
	// last HashLength trits are the nonce the miner rewrites.
	TransactionLength = 8019
	NonceStart        = TransactionLength - HashLength

	// Within the nonce block the first cells are the per-lane seed, the
	// middle third is split between threads and the last third is the
	// counter each thread runs through.
	NonceLaneSeedOffset    = 0
	NonceThreadPartitionLo = HashLength / 3
	NonceThreadPartitionHi = 2 * HashLength / 3
	NonceCounterLo         = NonceThreadPartitionHi
	NonceCounterHi         = HashLength

	// The checksum block is seeded at its start. The thread partition runs
	// from the end of the seed to half the requested checksum length.
	ChecksumLaneSeedOffset = 0
	ChecksumPartitionLo    = ChecksumLaneSeedOffset + bitslice.LaneSeedWidth
	// MinChecksumLength leaves at least as many counter cells as seed cells.
	MinChecksumLength = 2 * bitslice.LaneSeedWidth
	// ChecksumGrowth is how many trits a checksum grows by whenever its
	// counter wraps without a balanced lane.
	ChecksumGrowth = 3

	// HashesPerIteration is the number of candidates a single transform tests.
	HashesPerIteration = bitslice.NumLanes

	DefaultMidStateCacheSize = 64
)

// MinerError is returned, wrapped with context, when a search cannot start or
// cannot finish. Callers compare with errors.Is.
type MinerError string

func (e MinerError) Error() string {
	return string(e)
}

const (
	MinerErrorInvalidTransactionLength   MinerError = "MinerErrorInvalidTransactionLength"
	MinerErrorInvalidMinWeightMagnitude  MinerError = "MinerErrorInvalidMinWeightMagnitude"
	MinerErrorInvalidChecksumLength      MinerError = "MinerErrorInvalidChecksumLength"
	MinerErrorInvalidSumLength           MinerError = "MinerErrorInvalidSumLength"
	MinerErrorInvalidTrits               MinerError = "MinerErrorInvalidTrits"
	MinerErrorWorkerFault                MinerError = "MinerErrorWorkerFault"
	MinerErrorInvalidMidStateCacheConfig MinerError = "MinerErrorInvalidMidStateCacheConfig"
)
