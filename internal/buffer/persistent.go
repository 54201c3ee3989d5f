package buffer

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/FlorianJeanne/job-system-cookbook/internal/mmap"
)

// RecordBuffer is a persistent off-heap slab of fixed-size records.
type RecordBuffer struct {
	m          *Manager
	mapping    *mmap.Mapping
	count      int
	recordSize int
	closed     atomic.Bool
}

// NewRecordBuffer allocates an off-heap slab for count records of
// recordSize bytes each. The memory is zero-filled.
func NewRecordBuffer(m *Manager, count, recordSize int) (*RecordBuffer, error) {
	if count <= 0 || recordSize <= 0 {
		return nil, fmt.Errorf("%w: %d records of %d bytes", ErrInvalidSize, count, recordSize)
	}

	size := count * recordSize
	if err := m.ctrl.AcquireMemory(int64(size)); err != nil {
		return nil, err
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		m.ctrl.ReleaseMemory(int64(size))
		return nil, err
	}

	return &RecordBuffer{
		m:          m,
		mapping:    mapping,
		count:      count,
		recordSize: recordSize,
	}, nil
}

// Bytes returns the backing slab. Valid until Close.
func (b *RecordBuffer) Bytes() []byte { return b.mapping.Bytes() }

// Len returns the number of records.
func (b *RecordBuffer) Len() int { return b.count }

// RecordSize returns the size of one record in bytes.
func (b *RecordBuffer) RecordSize() int { return b.recordSize }

// Close unmaps the slab. It is idempotent.
func (b *RecordBuffer) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	err := b.mapping.Close()
	b.m.ctrl.ReleaseMemory(int64(b.count * b.recordSize))
	return err
}

// Float32Buffer is a persistent off-heap flat float32 array.
type Float32Buffer struct {
	m       *Manager
	mapping *mmap.Mapping
	count   int
	data    []float32
	closed  atomic.Bool
}

// NewFloat32Buffer allocates an off-heap array of n float32 values.
func NewFloat32Buffer(m *Manager, n int) (*Float32Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}

	size := n * int(unsafe.Sizeof(float32(0)))
	if err := m.ctrl.AcquireMemory(int64(size)); err != nil {
		return nil, err
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		m.ctrl.ReleaseMemory(int64(size))
		return nil, err
	}

	raw := mapping.Bytes()
	return &Float32Buffer{
		m:       m,
		mapping: mapping,
		count:   n,
		data:    unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), n),
	}, nil
}

// Data returns the backing array. Valid until Close.
func (b *Float32Buffer) Data() []float32 {
	if b.closed.Load() {
		return nil
	}
	return b.data
}

// Len returns the number of elements.
func (b *Float32Buffer) Len() int { return b.count }

// Close unmaps the array. It is idempotent.
func (b *Float32Buffer) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.data = nil
	err := b.mapping.Close()
	b.m.ctrl.ReleaseMemory(int64(b.count) * int64(unsafe.Sizeof(float32(0))))
	return err
}
