package lib

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/deso-protocol/go-deadlock"
	"github.com/deso-protocol/ternpow/bitslice"
	"github.com/deso-protocol/ternpow/encoding"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// miner.go contains the nonce search. The checksum search in
// checksum_finder.go shares its worker pool and control.

// TernaryMiner searches for nonces and checksums using every lane of a
// bit-sliced state on numThreads goroutines. It runs one search at a time;
// concurrent calls queue behind each other.
type TernaryMiner struct {
	numThreads    int
	midStateCache *MidStateCache
	stats         *MinerStats

	// searchMtx serializes searches.
	searchMtx deadlock.Mutex

	// controlMtx guards controls: the search in flight and any queued behind
	// it on searchMtx.
	controlMtx deadlock.Mutex
	controls   map[*searchControl]struct{}

	// workerHook, when set, runs at the top of every worker iteration. Tests
	// use it to make workers fault.
	workerHook func(threadIndex int)
}

// NewTernaryMiner builds a miner. numThreads <= 0 picks one thread per spare
// core. midStateCacheSize <= 0 disables prefix caching. stats may be nil.
func NewTernaryMiner(numThreads int, midStateCacheSize int, stats *MinerStats) (*TernaryMiner, error) {
	var midStateCache *MidStateCache
	if midStateCacheSize > 0 {
		var err error
		midStateCache, err = NewMidStateCache(midStateCacheSize)
		if err != nil {
			return nil, errors.Wrapf(err, "NewTernaryMiner: ")
		}
	}

	return &TernaryMiner{
		numThreads:    GetThreadCount(numThreads),
		midStateCache: midStateCache,
		stats:         stats,
		controls:      make(map[*searchControl]struct{}),
	}, nil
}

func (miner *TernaryMiner) NumThreads() int {
	return miner.numThreads
}

func (miner *TernaryMiner) MidStateCache() *MidStateCache {
	return miner.midStateCache
}

// Cancel stops the search in flight and any searches queued behind it. Each
// returns false once its workers, if it started any, have exited.
func (miner *TernaryMiner) Cancel() {
	miner.controlMtx.Lock()
	defer miner.controlMtx.Unlock()

	cancelled := 0
	for control := range miner.controls {
		if control.Cancel() {
			cancelled++
		}
	}
	if cancelled > 0 {
		glog.V(1).Infof("TernaryMiner.Cancel: Cancelled %d searches", cancelled)
	}
}

func (miner *TernaryMiner) registerControl(control *searchControl) {
	miner.controlMtx.Lock()
	defer miner.controlMtx.Unlock()
	miner.controls[control] = struct{}{}
}

func (miner *TernaryMiner) unregisterControl(control *searchControl) {
	miner.controlMtx.Lock()
	defer miner.controlMtx.Unlock()
	delete(miner.controls, control)
}

// searchStates returns the state of every registered search.
func (miner *TernaryMiner) searchStates() []SearchState {
	miner.controlMtx.Lock()
	defer miner.controlMtx.Unlock()

	states := make([]SearchState, 0, len(miner.controls))
	for control := range miner.controls {
		states = append(states, control.State())
	}
	return states
}

// Search looks for a nonce that gives trits at least minWeightMagnitude
// trailing zero trits in its hash. On success the nonce is written into the
// last HashLength trits of trits and true is returned. It returns false if
// the search was cancelled, through Cancel or ctx, before a nonce was found.
func (miner *TernaryMiner) Search(ctx context.Context, trits []encoding.Trit, minWeightMagnitude int) (
	_found bool, _err error) {

	if len(trits) != TransactionLength {
		return false, errors.Wrapf(MinerErrorInvalidTransactionLength,
			"TernaryMiner.Search: Got %d trits, want %d", len(trits), TransactionLength)
	}
	if minWeightMagnitude < 0 || minWeightMagnitude > HashLength {
		return false, errors.Wrapf(MinerErrorInvalidMinWeightMagnitude,
			"TernaryMiner.Search: %d is outside [0, %d]", minWeightMagnitude, HashLength)
	}
	if err := encoding.ValidateTrits(trits); err != nil {
		return false, errors.Wrapf(MinerErrorInvalidTrits, "TernaryMiner.Search: %v", err)
	}

	searchID := uuid.New()
	glog.V(1).Infof("TernaryMiner.Search: Starting search %v with min weight magnitude %d on %d threads",
		searchID, minWeightMagnitude, miner.numThreads)
	timeStart := time.Now()

	state, err := miner.runWorkers(ctx, func() *bitslice.State {
		return miner.prepareNonceState(trits)
	}, func(control *searchControl, threadIndex int, midState *bitslice.State) {
		miner.nonceWorker(control, threadIndex, midState, minWeightMagnitude, trits)
	})

	glog.V(1).Infof("TernaryMiner.Search: Search %v finished %v after %v", searchID, state, time.Since(timeStart))
	switch state {
	case SearchStateCompleted:
		return true, nil
	case SearchStateCancelled:
		return false, nil
	default:
		return false, errors.Wrapf(MinerErrorWorkerFault, "TernaryMiner.Search: Search %v: %v", searchID, err)
	}
}

// prepareNonceState is bitslice.Prepare for a transaction, with the prefix
// served from the mid-state cache when there is one.
func (miner *TernaryMiner) prepareNonceState(trits []encoding.Trit) *bitslice.State {
	if miner.midStateCache == nil {
		return bitslice.Prepare(trits, NonceLaneSeedOffset)
	}
	searchBlockStart := bitslice.SearchBlockStart(len(trits))
	midState := miner.midStateCache.GetOrAbsorb(trits[:searchBlockStart])
	bitslice.LoadSearchBlock(midState, trits[searchBlockStart:], NonceLaneSeedOffset)
	return midState
}

// prepareState returns a private state with parts absorbed, going through
// the mid-state cache when there is one.
func (miner *TernaryMiner) prepareState(parts ...[]encoding.Trit) *bitslice.State {
	if miner.midStateCache != nil {
		return miner.midStateCache.GetOrAbsorb(parts...)
	}
	return absorbParts(parts)
}

// runWorkers registers a fresh control, waits for its turn, builds the
// mid-state with prepare and runs worker on numThreads goroutines. It returns
// the terminal state once every worker has exited. The control is
// cancellable from the moment it is registered, so a search cancelled while
// queued or while preparing returns without starting any worker. A worker
// that panics is recovered and reported through the returned error.
func (miner *TernaryMiner) runWorkers(ctx context.Context, prepare func() *bitslice.State,
	worker func(control *searchControl, threadIndex int, midState *bitslice.State)) (SearchState, error) {

	control := newSearchControl(miner.numThreads)
	miner.registerControl(control)
	defer miner.unregisterControl(control)

	stopAfterFunc := context.AfterFunc(ctx, func() {
		control.Cancel()
	})
	defer stopAfterFunc()

	miner.searchMtx.Lock()
	defer miner.searchMtx.Unlock()

	if !control.IsRunning() {
		miner.stats.recordOutcome(control.State())
		return control.State(), nil
	}
	midState := prepare()
	if !control.IsRunning() {
		miner.stats.recordOutcome(control.State())
		return control.State(), nil
	}

	var group errgroup.Group
	for ii := 0; ii < miner.numThreads; ii++ {
		threadIndex := ii
		group.Go(func() (_err error) {
			defer control.workerExited()
			defer func() {
				if rr := recover(); rr != nil {
					glog.Errorf(CLog(Red, fmt.Sprintf("TernaryMiner.runWorkers: Thread %d faulted: %v", threadIndex, rr)))
					_err = errors.Wrapf(MinerErrorWorkerFault, "thread %d: %v", threadIndex, rr)
				}
			}()
			worker(control, threadIndex, midState)
			return nil
		})
	}

	state := control.Wait()
	err := group.Wait()
	if err != nil && state != SearchStateFailed {
		glog.Warningf("TernaryMiner.runWorkers: Search ended %v but a thread faulted: %v", state, err)
	}
	miner.stats.recordOutcome(state)
	return state, err
}

func (miner *TernaryMiner) nonceWorker(control *searchControl, threadIndex int, midState *bitslice.State,
	minWeightMagnitude int, trits []encoding.Trit) {

	state := midState.Copy()
	for ii := 0; ii < threadIndex; ii++ {
		bitslice.Increment(state, NonceThreadPartitionLo, NonceThreadPartitionHi)
	}
	working := &bitslice.State{}
	scratch := &bitslice.State{}

	for control.IsRunning() {
		if miner.workerHook != nil {
			miner.workerHook(threadIndex)
		}

		bitslice.Increment(state, NonceCounterLo, NonceCounterHi)
		*working = *state
		bitslice.Transform(working, scratch)
		miner.stats.AddHashes(HashesPerIteration)

		mask := bitslice.ZeroMask(working, minWeightMagnitude)
		if mask == 0 {
			continue
		}
		lane := uint(bits.TrailingZeros64(mask))
		if control.Complete(func() {
			state.DecodeLane(lane, 0, trits[NonceStart:])
		}) {
			glog.V(1).Infof("TernaryMiner.nonceWorker: Thread %d found a nonce in lane %d", threadIndex, lane)
		}
		return
	}
	glog.V(2).Infof("TernaryMiner.nonceWorker: Stopping thread %d", threadIndex)
}
