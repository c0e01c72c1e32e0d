package repeated_task

import (
	"time"

	"github.com/deso-protocol/go-deadlock"
)

type state int

const (
	stopped state = iota
	running
)

// RepeatedTask runs task every interval on its own goroutine until Stop is
// called or task reports that it is done. The exit channel handed to task is
// closed when Stop begins, so a long-running task can bail out early.
type RepeatedTask struct {
	state
	mtx deadlock.Mutex

	exitChan    chan struct{}
	doneChan    chan struct{}
	task        func(exitChan <-chan struct{}) (_done bool)
	interval    time.Duration
	stopTimeout time.Duration
}

func NewRepeatedTask(task func(exitChan <-chan struct{}) (_done bool), interval time.Duration,
	stopTimeout time.Duration) *RepeatedTask {

	return &RepeatedTask{
		task:        task,
		interval:    interval,
		stopTimeout: stopTimeout,
	}
}

func (rt *RepeatedTask) Start() {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	if rt.state == running {
		return
	}
	exitChan := make(chan struct{})
	doneChan := make(chan struct{})
	rt.exitChan = exitChan
	rt.doneChan = doneChan

	go func() {
		defer close(doneChan)
		ticker := time.NewTicker(rt.interval)
		defer ticker.Stop()
		for {
			select {
			case <-exitChan:
				return
			case <-ticker.C:
				if rt.task(exitChan) {
					return
				}
			}
		}
	}()
	rt.state = running
}

// Stop signals the task to exit and waits up to stopTimeout for it. It
// reports whether the task had to be abandoned.
func (rt *RepeatedTask) Stop() (_killed bool) {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	if rt.state == stopped {
		return false
	}
	close(rt.exitChan)
	rt.state = stopped

	select {
	case <-rt.doneChan:
		return false
	case <-time.After(rt.stopTimeout):
		return true
	}
}
