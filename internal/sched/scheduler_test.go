package sched

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_SequentialRunsOnce(t *testing.T) {
	s := New(2)
	defer s.Close()

	var runs atomic.Int32
	h := s.Sequential(SequentialFunc(func() error {
		runs.Add(1)
		return nil
	}))

	require.NoError(t, h.Complete())
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_ParallelCoversAllIndices(t *testing.T) {
	s := New(4)
	defer s.Close()

	const n = 1000
	var hits [n]atomic.Int32

	h := s.Parallel(ParallelFunc(func(i int) error {
		hits[i].Add(1)
		return nil
	}), n, 64)

	require.NoError(t, h.Complete())
	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "index %d", i)
	}
}

func TestScheduler_WorkerCap(t *testing.T) {
	s := New(2)
	defer s.Close()

	var cur, peak atomic.Int32

	h := s.Parallel(ParallelFunc(func(i int) error {
		c := cur.Add(1)
		for {
			p := peak.Load()
			if c <= p || peak.CompareAndSwap(p, c) {
				break
			}
		}
		cur.Add(-1)
		return nil
	}), 512, 1) // batch size 1: every index is its own worker slot

	require.NoError(t, h.Complete())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestScheduler_DependencyOrdering(t *testing.T) {
	s := New(4)
	defer s.Close()

	gate := make(chan struct{})
	var value atomic.Int64

	a := s.Sequential(SequentialFunc(func() error {
		<-gate
		value.Store(42)
		return nil
	}))

	var observed atomic.Int64
	b := s.Sequential(SequentialFunc(func() error {
		observed.Store(value.Load())
		return nil
	}), a)

	// B must not have started while A is blocked.
	assert.NotEqual(t, StateRunning, b.State())
	assert.False(t, b.IsComplete())

	close(gate)
	require.NoError(t, b.Complete())
	assert.Equal(t, int64(42), observed.Load())
	// Completing B transitively completed A.
	assert.True(t, a.IsComplete())
}

func TestScheduler_ParallelWaitsForDependency(t *testing.T) {
	s := New(4)
	defer s.Close()

	gate := make(chan struct{})
	var stamp atomic.Int64

	mut := s.Sequential(SequentialFunc(func() error {
		<-gate
		stamp.Store(7)
		return nil
	}))

	var bad atomic.Int32
	read := s.Parallel(ParallelFunc(func(i int) error {
		if stamp.Load() != 7 {
			bad.Add(1)
		}
		return nil
	}), 256, 16, mut)

	close(gate)
	require.NoError(t, read.Complete())
	// No index may have started before the dependency completed.
	assert.Equal(t, int32(0), bad.Load())
}

func TestScheduler_DependencyFailurePropagates(t *testing.T) {
	s := New(2)
	defer s.Close()

	boom := assert.AnError
	a := s.Sequential(SequentialFunc(func() error { return boom }))

	var ran atomic.Bool
	b := s.Sequential(SequentialFunc(func() error {
		ran.Store(true)
		return nil
	}), a)

	err := b.Complete()
	assert.ErrorIs(t, err, ErrDependencyFailed)
	assert.ErrorIs(t, err, boom)
	// The dependent's payload never ran.
	assert.False(t, ran.Load())
	// But the handle still settled.
	assert.True(t, b.IsComplete())
}

func TestScheduler_InvalidJob(t *testing.T) {
	s := New(2)
	defer s.Close()

	h := s.Parallel(ParallelFunc(func(i int) error { return nil }), 0, 16)
	assert.ErrorIs(t, h.Complete(), ErrInvalidJob)

	h = s.Parallel(ParallelFunc(func(i int) error { return nil }), 16, 0)
	assert.ErrorIs(t, h.Complete(), ErrInvalidJob)

	h = s.Parallel(nil, 16, 4)
	assert.ErrorIs(t, h.Complete(), ErrInvalidJob)

	h = s.Sequential(nil)
	assert.ErrorIs(t, h.Complete(), ErrInvalidJob)
}

func TestScheduler_IndexSkipIsNormal(t *testing.T) {
	s := New(4)
	defer s.Close()

	var skipped, done atomic.Int32
	h := s.Parallel(ParallelFunc(func(i int) error {
		if i%2 == 1 {
			// Data-dependent early return: a normal outcome.
			skipped.Add(1)
			return nil
		}
		done.Add(1)
		return nil
	}), 100, 7)

	require.NoError(t, h.Complete())
	assert.Equal(t, int32(50), skipped.Load())
	assert.Equal(t, int32(50), done.Load())
}

func TestScheduler_CloseRejectsNewJobs(t *testing.T) {
	s := New(2)

	h := s.Sequential(SequentialFunc(func() error { return nil }))
	require.NoError(t, h.Complete())

	s.Close()

	rejected := s.Sequential(SequentialFunc(func() error { return nil }))
	assert.ErrorIs(t, rejected.Complete(), ErrClosed)
}

func TestScheduler_CloseDrainsInFlight(t *testing.T) {
	s := New(2)

	var ran atomic.Bool
	gate := make(chan struct{})
	h := s.Sequential(SequentialFunc(func() error {
		<-gate
		ran.Store(true)
		return nil
	}))

	close(gate)
	s.Close()

	// Close returned only after the in-flight job finished.
	assert.True(t, ran.Load())
	assert.True(t, h.IsComplete())
}
