package lib

import (
	"sync"
	"sync/atomic"

	"github.com/deso-protocol/go-deadlock"
)

type SearchState int32

const (
	SearchStateRunning SearchState = iota
	SearchStateCancelled
	SearchStateCompleted
	// SearchStateFailed is reached only when every worker has exited on a
	// fault while the search was still running.
	SearchStateFailed
)

func (state SearchState) String() string {
	switch state {
	case SearchStateRunning:
		return "RUNNING"
	case SearchStateCancelled:
		return "CANCELLED"
	case SearchStateCompleted:
		return "COMPLETED"
	case SearchStateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// searchControl is the only state a search shares between its workers. The
// state is readable without the lock so the hot loops can poll it, but every
// transition happens under mtx, leaves Running at most once, and wakes the
// waiter. Whatever a winner writes inside Complete is visible to anyone who
// observes the Completed state.
type searchControl struct {
	mtx  deadlock.Mutex
	cond *sync.Cond

	state       atomic.Int32
	liveWorkers int
}

func newSearchControl(numWorkers int) *searchControl {
	control := &searchControl{
		liveWorkers: numWorkers,
	}
	control.cond = sync.NewCond(&control.mtx)
	return control
}

func (control *searchControl) State() SearchState {
	return SearchState(control.state.Load())
}

func (control *searchControl) IsRunning() bool {
	return control.State() == SearchStateRunning
}

// transitionLocked moves a running search to newState. mtx must be held.
func (control *searchControl) transitionLocked(newState SearchState) bool {
	if control.State() != SearchStateRunning {
		return false
	}
	control.state.Store(int32(newState))
	control.cond.Broadcast()
	return true
}

// Cancel moves a running search to Cancelled. It is a no-op once the search
// has finished.
func (control *searchControl) Cancel() bool {
	control.mtx.Lock()
	defer control.mtx.Unlock()

	return control.transitionLocked(SearchStateCancelled)
}

// Complete runs publish and marks the search Completed, but only if the
// search is still running. It reports whether the caller won.
func (control *searchControl) Complete(publish func()) bool {
	control.mtx.Lock()
	defer control.mtx.Unlock()

	if !control.IsRunning() {
		return false
	}
	publish()
	return control.transitionLocked(SearchStateCompleted)
}

// workerExited is called once by every worker on its way out. If the last
// worker leaves while the search is still running, none of them can ever
// finish it, so the search fails instead of leaving Wait blocked forever.
func (control *searchControl) workerExited() {
	control.mtx.Lock()
	defer control.mtx.Unlock()

	control.liveWorkers--
	if control.liveWorkers <= 0 {
		control.transitionLocked(SearchStateFailed)
	}
}

// Wait blocks until the search leaves Running and returns the final state.
func (control *searchControl) Wait() SearchState {
	control.mtx.Lock()
	defer control.mtx.Unlock()

	for control.IsRunning() {
		control.cond.Wait()
	}
	return control.State()
}
