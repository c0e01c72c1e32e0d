package lib

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchControlExactlyOneWinner(t *testing.T) {
	require := require.New(t)

	const numWorkers = 16
	control := newSearchControl(numWorkers)
	require.Equal(SearchStateRunning, control.State())

	var winners atomic.Int32
	var published atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for ii := 0; ii < numWorkers; ii++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer control.workerExited()
			<-start
			if control.Complete(func() { published.Add(1) }) {
				winners.Add(1)
			}
		}()
	}
	close(start)

	require.Equal(SearchStateCompleted, control.Wait())
	wg.Wait()
	require.Equal(int32(1), winners.Load())
	require.Equal(int32(1), published.Load())
	require.Equal(SearchStateCompleted, control.State())
}

func TestSearchControlTransitionsAreFinal(t *testing.T) {
	require := require.New(t)

	control := newSearchControl(1)
	require.True(control.Cancel())
	require.False(control.Cancel())
	require.False(control.Complete(func() { t.Fatalf("publish ran after cancel") }))
	control.workerExited()
	require.Equal(SearchStateCancelled, control.Wait())

	control = newSearchControl(1)
	require.True(control.Complete(func() {}))
	require.False(control.Cancel())
	control.workerExited()
	require.Equal(SearchStateCompleted, control.State())
}

func TestSearchControlFailsWhenAllWorkersExit(t *testing.T) {
	require := require.New(t)

	control := newSearchControl(3)
	control.workerExited()
	control.workerExited()
	require.True(control.IsRunning())

	waitResult := make(chan SearchState, 1)
	go func() {
		waitResult <- control.Wait()
	}()
	control.workerExited()

	select {
	case state := <-waitResult:
		require.Equal(SearchStateFailed, state)
	case <-time.After(time.Second):
		t.Fatalf("Wait did not return after the last worker exited")
	}
}

func TestSearchControlWaitWakesOnCancel(t *testing.T) {
	require := require.New(t)

	control := newSearchControl(1)
	waitResult := make(chan SearchState, 1)
	go func() {
		waitResult <- control.Wait()
	}()
	time.Sleep(5 * time.Millisecond)
	control.Cancel()
	require.Equal(SearchStateCancelled, <-waitResult)
}

func TestSearchStateString(t *testing.T) {
	require := require.New(t)

	require.Equal("RUNNING", SearchStateRunning.String())
	require.Equal("CANCELLED", SearchStateCancelled.String())
	require.Equal("COMPLETED", SearchStateCompleted.String())
	require.Equal("FAILED", SearchStateFailed.String())
	require.Equal("UNKNOWN", SearchState(42).String())
}
