package sched

import "sync/atomic"

// State is the lifecycle position of a scheduled job.
type State int32

const (
	// StateScheduled means the job is admitted but waiting on
	// dependencies or a worker.
	StateScheduled State = iota
	// StateRunning means the job's payload is executing. For a
	// parallel job this covers all of its batches.
	StateRunning
	// StateCompleted means the job finished, successfully or not.
	// There is no cancelled state: admitted jobs always run out.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// slot is the completion record a handle points at. err is written
// before done is closed, so readers of err after <-done need no lock.
type slot struct {
	state atomic.Int32
	done  chan struct{}
	err   error
}

// Handle is an immutable token for the eventual completion of a
// scheduled job. The zero Handle is already complete with no error,
// which makes it a natural seed for the first tick's dependency chain.
type Handle struct {
	s      *slot
	joined []Handle
}

// Join returns a handle that completes exactly when all argument
// handles have completed. The order of the arguments is irrelevant;
// only the conjunction matters. Join itself schedules nothing.
func Join(handles ...Handle) Handle {
	return Handle{joined: handles}
}

// Complete blocks until the job and, transitively, everything it
// depended on has finished, then returns the job's error if any. It is
// idempotent: calling it on an already-completed handle returns
// immediately. A failed constituent does not short-circuit the wait;
// the first error is returned once everything has settled.
func (h Handle) Complete() error {
	var first error
	if h.s != nil {
		<-h.s.done
		first = h.s.err
	}
	for _, d := range h.joined {
		if err := d.Complete(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IsComplete reports whether the handle has completed. It never blocks
// and has no side effects.
func (h Handle) IsComplete() bool {
	if h.s != nil {
		select {
		case <-h.s.done:
		default:
			return false
		}
	}
	for _, d := range h.joined {
		if !d.IsComplete() {
			return false
		}
	}
	return true
}

// State returns the handle's lifecycle state. For a join handle the
// state is derived: completed when all constituents completed, running
// when any constituent is running, scheduled otherwise.
func (h Handle) State() State {
	if h.s != nil {
		return State(h.s.state.Load())
	}
	if len(h.joined) == 0 {
		return StateCompleted
	}
	completed := true
	for _, d := range h.joined {
		switch d.State() {
		case StateRunning:
			return StateRunning
		case StateCompleted:
		default:
			completed = false
		}
	}
	if completed {
		return StateCompleted
	}
	return StateScheduled
}

// completedHandle builds an already-settled handle carrying err.
func completedHandle(err error) Handle {
	sl := &slot{done: make(chan struct{}), err: err}
	sl.state.Store(int32(StateCompleted))
	close(sl.done)
	return Handle{s: sl}
}
