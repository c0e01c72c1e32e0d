package repeated_task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRepeatedTask(t *testing.T) {
	require := require.New(t)

	// The task runs repeatedly until stopped.
	var repeatCounter atomic.Int32
	task := func(exitChan <-chan struct{}) bool {
		repeatCounter.Add(1)
		return false
	}
	repeatedTask := NewRepeatedTask(task, time.Millisecond, 100*time.Millisecond)
	repeatedTask.Start()
	require.Eventually(func() bool { return repeatCounter.Load() > 5 }, time.Second, time.Millisecond)
	require.False(repeatedTask.Stop())
	stoppedAt := repeatCounter.Load()
	time.Sleep(10 * time.Millisecond)
	require.Equal(stoppedAt, repeatCounter.Load())
	// A second Stop is a no-op.
	require.False(repeatedTask.Stop())

	// The task can end itself.
	repeatCounter.Store(0)
	task = func(exitChan <-chan struct{}) bool {
		return repeatCounter.Add(1) > 5
	}
	repeatedTask = NewRepeatedTask(task, time.Millisecond, 100*time.Millisecond)
	repeatedTask.Start()
	require.Eventually(func() bool { return repeatCounter.Load() == 6 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	require.Equal(int32(6), repeatCounter.Load())
	require.False(repeatedTask.Stop())

	// A task blocked on the exit channel is released by Stop.
	callbackChan := make(chan struct{}, 10)
	task2 := func(exitChan <-chan struct{}) bool {
		<-exitChan
		callbackChan <- struct{}{}
		return true
	}
	repeatedTask2 := NewRepeatedTask(task2, time.Millisecond, 100*time.Millisecond)
	repeatedTask2.Start()
	time.Sleep(5 * time.Millisecond)
	require.False(repeatedTask2.Stop())
	select {
	case <-callbackChan:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("Task did not exit after Stop() was called")
	}

	// A task that ignores the exit channel is abandoned after the stop timeout.
	task3 := func(exitChan <-chan struct{}) bool {
		time.Sleep(100 * time.Millisecond)
		return true
	}
	repeatedTask3 := NewRepeatedTask(task3, time.Millisecond, 10*time.Millisecond)
	repeatedTask3.Start()
	time.Sleep(5 * time.Millisecond)
	require.True(repeatedTask3.Stop())
}
