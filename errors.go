package jobsystem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when New is called with a bad
	// point count or an out-of-range option.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrClosed is returned when the engine is used after Close.
	ErrClosed = errors.New("engine is closed")
	// ErrTickInFlight is returned when AdvanceSchedule is called again
	// before the scheduled tick was finalized.
	ErrTickInFlight = errors.New("tick already scheduled")
	// ErrTickNotScheduled is returned when AdvanceFinalize is called
	// without a prior AdvanceSchedule.
	ErrTickNotScheduled = errors.New("no tick scheduled")
)

// ErrInvalidPointCount indicates a non-positive point count.
//
// It unwraps to ErrInvalidConfiguration.
type ErrInvalidPointCount struct {
	Count int
}

func (e *ErrInvalidPointCount) Error() string {
	return fmt.Sprintf("invalid point count: %d", e.Count)
}

func (e *ErrInvalidPointCount) Unwrap() error { return ErrInvalidConfiguration }

// ErrInvalidBatchSize indicates a non-positive per-job batch size.
//
// It unwraps to ErrInvalidConfiguration.
type ErrInvalidBatchSize struct {
	Job  string
	Size int
}

func (e *ErrInvalidBatchSize) Error() string {
	return fmt.Sprintf("invalid %s batch size: %d", e.Job, e.Size)
}

func (e *ErrInvalidBatchSize) Unwrap() error { return ErrInvalidConfiguration }

// ErrInvalidStride indicates a confidence sample stride outside
// [1, pointCount].
//
// It unwraps to ErrInvalidConfiguration.
type ErrInvalidStride struct {
	Stride     int
	PointCount int
}

func (e *ErrInvalidStride) Error() string {
	return fmt.Sprintf("invalid confidence stride %d for %d points", e.Stride, e.PointCount)
}

func (e *ErrInvalidStride) Unwrap() error { return ErrInvalidConfiguration }
