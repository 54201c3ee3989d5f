package sched

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/FlorianJeanne/job-system-cookbook/internal/resource"
)

var (
	// ErrClosed is returned by handles of jobs scheduled after Close.
	ErrClosed = errors.New("sched: scheduler is closed")
	// ErrInvalidJob is returned by handles of jobs scheduled with a nil
	// payload, a non-positive length or a non-positive batch size.
	ErrInvalidJob = errors.New("sched: invalid job")
	// ErrDependencyFailed wraps the error of a failed dependency; the
	// dependent's payload is not run.
	ErrDependencyFailed = errors.New("sched: dependency failed")
)

// Scheduler admits jobs for asynchronous execution and enforces their
// declared completed-before ordering. Parallel batches across all jobs
// share one bounded worker pool.
type Scheduler struct {
	ctrl   *resource.Controller
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New creates a scheduler with the given number of worker slots.
// workers <= 0 defaults to GOMAXPROCS.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{
		ctrl: resource.NewController(resource.Config{MaxWorkers: int64(workers)}),
	}
}

// Sequential schedules job to run exactly once, no earlier than the
// completion of every handle in deps. Scheduling never blocks; the
// returned handle observes execution and any error.
func (s *Scheduler) Sequential(job SequentialJob, deps ...Handle) Handle {
	if job == nil {
		return completedHandle(fmt.Errorf("%w: nil sequential job", ErrInvalidJob))
	}
	return s.spawn(deps, job.Execute)
}

// Parallel schedules job over indices [0, length) in batches of
// batchSize, no index starting before every handle in deps has
// completed. Batches run concurrently under the shared worker pool; the
// job completes only when every batch has finished.
func (s *Scheduler) Parallel(job ParallelJob, length, batchSize int, deps ...Handle) Handle {
	if job == nil {
		return completedHandle(fmt.Errorf("%w: nil parallel job", ErrInvalidJob))
	}
	if length <= 0 || batchSize <= 0 {
		return completedHandle(fmt.Errorf("%w: length %d, batch size %d", ErrInvalidJob, length, batchSize))
	}
	return s.spawn(deps, func() error {
		return s.runBatches(job, length, batchSize)
	})
}

// spawn admits one job: a goroutine drains the dependency handles,
// then runs the payload. The slot's err is written before done closes.
func (s *Scheduler) spawn(deps []Handle, run func() error) Handle {
	if s.closed.Load() {
		return completedHandle(ErrClosed)
	}

	sl := &slot{done: make(chan struct{})}
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer func() {
			sl.state.Store(int32(StateCompleted))
			close(sl.done)
		}()

		var depErr error
		for _, d := range deps {
			if err := d.Complete(); err != nil && depErr == nil {
				depErr = err
			}
		}
		if depErr != nil {
			sl.err = fmt.Errorf("%w: %w", ErrDependencyFailed, depErr)
			return
		}

		sl.state.Store(int32(StateRunning))
		sl.err = run()
	}()

	return Handle{s: sl}
}

func (s *Scheduler) runBatches(job ParallelJob, length, batchSize int) error {
	var g errgroup.Group

	for start := 0; start < length; start += batchSize {
		end := min(start+batchSize, length)

		if err := s.ctrl.AcquireWorker(context.Background()); err != nil {
			return err
		}
		start, end := start, end
		g.Go(func() error {
			defer s.ctrl.ReleaseWorker()
			for i := start; i < end; i++ {
				if err := job.ExecuteOne(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// Drain blocks until every admitted job has completed.
func (s *Scheduler) Drain() {
	s.wg.Wait()
}

// Close drains all in-flight jobs and rejects further scheduling.
// It is idempotent and safe to call with handles mid-flight.
func (s *Scheduler) Close() {
	s.closed.Store(true)
	s.wg.Wait()
}
