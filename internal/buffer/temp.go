package buffer

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Temp is a scoped temporary: a short-lived array carrying one job's
// output across a tick. It must be released exactly once, at or before
// the end of the tick that created it.
type Temp[T any] struct {
	m        *Manager
	data     []T
	bytes    int64
	slot     uint
	released atomic.Bool
}

// NewTemp allocates a scoped temporary of n elements.
// Temporaries are small (typically 1-3 scalars), so they live on the
// regular heap; only their accounting goes through the manager.
func NewTemp[T any](m *Manager, n int) (*Temp[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}

	var zero T
	size := int64(n) * int64(unsafe.Sizeof(zero))
	if err := m.ctrl.AcquireMemory(size); err != nil {
		return nil, err
	}

	return &Temp[T]{
		m:     m,
		data:  make([]T, n),
		bytes: size,
		slot:  m.acquireSlot(),
	}, nil
}

// Data returns the temporary's backing slice.
// It panics with an error wrapping ErrUseAfterRelease once the
// temporary has been released.
func (t *Temp[T]) Data() []T {
	if t.released.Load() {
		panic(fmt.Errorf("%w: slot %d", ErrUseAfterRelease, t.slot))
	}
	return t.data
}

// Len returns the number of elements.
func (t *Temp[T]) Len() int { return len(t.data) }

// Release frees the temporary. Releasing twice returns ErrDoubleRelease.
func (t *Temp[T]) Release() error {
	if t.released.Swap(true) {
		return fmt.Errorf("%w: slot %d", ErrDoubleRelease, t.slot)
	}
	t.data = nil
	t.m.releaseSlot(t.slot)
	t.m.ctrl.ReleaseMemory(t.bytes)
	return nil
}
