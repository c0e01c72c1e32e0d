package lib

import (
	"context"
	"time"

	"github.com/deso-protocol/ternpow/bitslice"
	"github.com/deso-protocol/ternpow/encoding"
	"github.com/deso-protocol/ternpow/ternhash"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FindChecksum looks for checksum trits that, hashed after message with
// ternhash.ChecksumDigest, leave the first sumLength hash trits summing to
// zero. The checksum starts targetLength trits long and grows by
// ChecksumGrowth, up to HashLength, whenever a thread exhausts its counter.
// The returned checksum may therefore be longer than targetLength. It
// returns false if the search was cancelled first.
func (miner *TernaryMiner) FindChecksum(ctx context.Context, message []encoding.Trit, targetLength int,
	sumLength int) (_checksum []encoding.Trit, _found bool, _err error) {

	if targetLength < MinChecksumLength || targetLength > HashLength {
		return nil, false, errors.Wrapf(MinerErrorInvalidChecksumLength,
			"TernaryMiner.FindChecksum: %d is outside [%d, %d]", targetLength, MinChecksumLength, HashLength)
	}
	if sumLength < 1 || sumLength > HashLength {
		return nil, false, errors.Wrapf(MinerErrorInvalidSumLength,
			"TernaryMiner.FindChecksum: %d is outside [1, %d]", sumLength, HashLength)
	}
	if err := encoding.ValidateTrits(message); err != nil {
		return nil, false, errors.Wrapf(MinerErrorInvalidTrits, "TernaryMiner.FindChecksum: %v", err)
	}

	searchID := uuid.New()
	glog.V(1).Infof("TernaryMiner.FindChecksum: Starting search %v for a %d trit checksum balanced over %d trits",
		searchID, targetLength, sumLength)
	timeStart := time.Now()

	var checksum []encoding.Trit
	state, err := miner.runWorkers(ctx, func() *bitslice.State {
		midState := miner.prepareState(encoding.IntToTrits(int64(len(message))), message)
		bitslice.LoadSearchBlock(midState, nil, ChecksumLaneSeedOffset)
		return midState
	}, func(control *searchControl, threadIndex int, midState *bitslice.State) {
		miner.checksumWorker(control, threadIndex, midState, message, targetLength, sumLength, &checksum)
	})

	glog.V(1).Infof("TernaryMiner.FindChecksum: Search %v finished %v after %v", searchID, state, time.Since(timeStart))
	switch state {
	case SearchStateCompleted:
		return checksum, true, nil
	case SearchStateCancelled:
		return nil, false, nil
	default:
		return nil, false, errors.Wrapf(MinerErrorWorkerFault, "TernaryMiner.FindChecksum: Search %v: %v", searchID, err)
	}
}

// checksumWorker splits the checksum block in two. Cells
// [ChecksumPartitionLo, targetLength/2) are fixed per thread and cells
// [targetLength/2, length) are the counter, where length grows when the
// counter wraps.
func (miner *TernaryMiner) checksumWorker(control *searchControl, threadIndex int, midState *bitslice.State,
	message []encoding.Trit, targetLength int, sumLength int, checksumOut *[]encoding.Trit) {

	midLength := targetLength / 2
	length := targetLength

	state := midState.Copy()
	for ii := 0; ii < threadIndex; ii++ {
		bitslice.Increment(state, ChecksumPartitionLo, midLength)
	}
	working := &bitslice.State{}
	scratch := &bitslice.State{}
	transposition := bitslice.NewTransposition()

	for control.IsRunning() {
		if miner.workerHook != nil {
			miner.workerHook(threadIndex)
		}

		if newLength := advanceChecksumCounter(state, midLength, length); newLength != length {
			length = newLength
			glog.V(2).Infof("TernaryMiner.checksumWorker: Thread %d widened its checksum to %d trits",
				threadIndex, length)
		}
		*working = *state
		bitslice.Transform(working, scratch)
		miner.stats.AddHashes(HashesPerIteration)

		lane := transposition.BalancedLane(working, sumLength)
		if lane < 0 {
			continue
		}
		candidate := make([]encoding.Trit, length)
		state.DecodeLane(uint(lane), 0, candidate)
		digest := ternhash.ChecksumDigest(message, candidate)
		if ternhash.BalancedSum(digest, sumLength) != 0 {
			glog.Warningf("TernaryMiner.checksumWorker: Thread %d lane %d passed the balance test "+
				"but its digest does not balance", threadIndex, lane)
			continue
		}

		if control.Complete(func() {
			*checksumOut = candidate
		}) {
			glog.V(1).Infof("TernaryMiner.checksumWorker: Thread %d found a %d trit checksum in lane %d",
				threadIndex, length, lane)
		}
		return
	}
	glog.V(2).Infof("TernaryMiner.checksumWorker: Stopping thread %d", threadIndex)
}

// advanceChecksumCounter steps the counter in cells [midLength, length) and
// returns the checksum length to search next. When the counter wraps, the
// checksum grows by ChecksumGrowth trits, up to HashLength, and the carry
// moves into the new cells. Every candidate with the new cells at zero was
// covered by the cycle that just ended.
func advanceChecksumCounter(state *bitslice.State, midLength int, length int) int {
	if !bitslice.Increment(state, midLength, length) || length >= HashLength {
		return length
	}
	newLength := MinInt(length+ChecksumGrowth, HashLength)
	bitslice.Increment(state, length, newLength)
	return newLength
}
