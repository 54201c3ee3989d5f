package sched

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianJeanne/job-system-cookbook/internal/strided"
)

// TestOrdering_StridedViewsUnderSchedule checks that a write through one
// field view followed by a dependency-ordered read through another view
// of the same slab observes the write, on a real multi-threaded
// schedule.
func TestOrdering_StridedViewsUnderSchedule(t *testing.T) {
	s := New(4)
	defer s.Close()

	const (
		n          = 256
		recordSize = 16
	)
	slab := make([]byte, n*recordSize)

	a, err := strided.NewView[float32](slab, n, recordSize, 0)
	require.NoError(t, err)
	b, err := strided.NewView[float32](slab, n, recordSize, 8)
	require.NoError(t, err)
	c, err := strided.NewView[float32](slab, n, recordSize, 12)
	require.NoError(t, err)

	write := s.Parallel(ParallelFunc(func(i int) error {
		a.Set(i, float32(i))
		b.Set(i, float32(i)*2)
		c.Set(i, float32(i)*3)
		return nil
	}), n, 32)

	read := s.Parallel(ParallelFunc(func(i int) error {
		if a.Get(i) != float32(i) || b.Get(i) != float32(i)*2 || c.Get(i) != float32(i)*3 {
			return fmt.Errorf("record %d: stale read %v %v %v", i, a.Get(i), b.Get(i), c.Get(i))
		}
		return nil
	}), n, 32, write)

	require.NoError(t, read.Complete())
}

// TestOrdering_UnderLoad runs thousands of mutation -> distance ->
// reduction chains back to back. Each mutation stamps a monotonically
// increasing version into every record; the reduction fails if it ever
// observes a distance buffer that does not incorporate its own tick's
// mutation.
func TestOrdering_UnderLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}

	s := New(4)
	defer s.Close()

	const (
		n          = 64
		recordSize = 16
		ticks      = 10000
	)
	slab := make([]byte, n*recordSize)
	dist := make([]uint32, n)

	ver, err := strided.NewView[uint32](slab, n, recordSize, 0)
	require.NoError(t, err)
	tag, err := strided.NewView[uint32](slab, n, recordSize, 12)
	require.NoError(t, err)

	var lastRead Handle
	var lastMut Handle
	var final Handle

	for tick := 1; tick <= ticks; tick++ {
		v := uint32(tick)

		// The mutation must not race the previous tick's readers.
		mut := s.Parallel(ParallelFunc(func(i int) error {
			ver.Set(i, v)
			if i%2 == 0 {
				// Data-dependent skip path: odd indices keep the tag of
				// the previous write, readers only check even ones.
				tag.Set(i, v)
			}
			return nil
		}), n, 16, lastRead)

		distJob := s.Parallel(ParallelFunc(func(i int) error {
			dist[i] = ver.Get(i)
			if i%2 == 0 && tag.Get(i) != v {
				return fmt.Errorf("tick %d: tag not incorporated at %d", v, i)
			}
			return nil
		}), n, 16, mut)

		red := s.Sequential(SequentialFunc(func() error {
			for i := range dist {
				if dist[i] != v {
					return fmt.Errorf("tick %d: reduction saw version %d at %d", v, dist[i], i)
				}
			}
			return nil
		}), distJob)

		lastMut = mut
		lastRead = Join(red)
		final = red
	}

	require.NoError(t, final.Complete())
	assert.True(t, lastMut.IsComplete())
}
