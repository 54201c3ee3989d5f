package strided

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrInvalidLayout is returned when a view's offset, stride and
	// element type cannot coexist within one record.
	ErrInvalidLayout = errors.New("strided: invalid layout")
	// ErrOutOfRange is the panic cause for an index outside [0, Len).
	// Out-of-range access is a programming error in the engine, not a
	// runtime condition, so Get and Set panic instead of returning it.
	ErrOutOfRange = errors.New("strided: index out of range")
)

// View exposes one T-typed field of each record in a byte slab.
// The zero View has length 0 and is safe to call Len on.
type View[T any] struct {
	base   unsafe.Pointer
	offset uintptr
	stride uintptr
	count  int
}

// NewView creates a view over buf holding count records of stride bytes,
// exposing the T field at byteOffset within each record.
//
// The layout must satisfy byteOffset + sizeof(T) <= stride, and the slab
// must hold all count records. The view borrows buf; it must not outlive
// it.
func NewView[T any](buf []byte, count, stride, byteOffset int) (View[T], error) {
	var zero T
	size := int(unsafe.Sizeof(zero))

	if stride <= 0 {
		return View[T]{}, fmt.Errorf("%w: stride %d must be positive", ErrInvalidLayout, stride)
	}
	if byteOffset < 0 || byteOffset+size > stride {
		return View[T]{}, fmt.Errorf("%w: field [%d, %d) exceeds record size %d", ErrInvalidLayout, byteOffset, byteOffset+size, stride)
	}
	if count < 0 || count*stride > len(buf) {
		return View[T]{}, fmt.Errorf("%w: %d records of %d bytes exceed buffer of %d bytes", ErrInvalidLayout, count, stride, len(buf))
	}

	v := View[T]{
		offset: uintptr(byteOffset),
		stride: uintptr(stride),
		count:  count,
	}
	if count > 0 {
		v.base = unsafe.Pointer(&buf[0])
	}
	return v, nil
}

// Len returns the number of records visible through the view.
func (v View[T]) Len() int {
	return v.count
}

// Get returns the field value of record i.
// It panics with an error wrapping ErrOutOfRange if i is outside [0, Len).
func (v View[T]) Get(i int) T {
	if i < 0 || i >= v.count {
		panic(fmt.Errorf("%w: %d with length %d", ErrOutOfRange, i, v.count))
	}
	return *(*T)(unsafe.Add(v.base, v.offset+uintptr(i)*v.stride))
}

// Set writes the field value of record i.
// It panics with an error wrapping ErrOutOfRange if i is outside [0, Len).
func (v View[T]) Set(i int, val T) {
	if i < 0 || i >= v.count {
		panic(fmt.Errorf("%w: %d with length %d", ErrOutOfRange, i, v.count))
	}
	*(*T)(unsafe.Add(v.base, v.offset+uintptr(i)*v.stride)) = val
}
