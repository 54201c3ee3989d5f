package jobsystem

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/FlorianJeanne/job-system-cookbook/internal/buffer"
	"github.com/FlorianJeanne/job-system-cookbook/internal/resource"
	"github.com/FlorianJeanne/job-system-cookbook/internal/sched"
	"github.com/FlorianJeanne/job-system-cookbook/internal/strided"
)

// TickSummary holds one tick's aggregated results.
type TickSummary struct {
	Tick              uint64
	DistanceAverage   float32
	DistanceMin       float32
	DistanceMax       float32
	ConfidenceAverage float32
}

// Logical resources the tick jobs touch, declared to the scheduler's
// access tracker so an overlapping write without a dependency edge is
// caught at schedule time instead of racing silently.
const (
	resPointsX   sched.Resource = "points/x"
	resPointsY   sched.Resource = "points/y"
	resPointsZ   sched.Resource = "points/z"
	resPointsW   sched.Resource = "points/w"
	resDistances sched.Resource = "distances"
)

// tickJobs tracks one scheduled tick's read handles and their scoped
// temporaries between the schedule and finalize phases.
type tickJobs struct {
	confidence sched.Handle
	reduction  sched.Handle
	confOut    *buffer.Temp[float32]
	redOut     *buffer.Temp[float32]
	started    time.Time
}

// Engine owns the persistent buffers and drives the per-tick job graph.
// Methods are safe for use from one driver goroutine at a time; the
// jobs themselves run on the scheduler's workers.
type Engine struct {
	opts    options
	logger  *Logger
	ctrl    *resource.Controller
	buffers *buffer.Manager
	points  *buffer.RecordBuffer
	dists   *buffer.Float32Buffer
	sched   *sched.Scheduler
	access  *sched.Tracker

	// Field views over the point slab, built once: the buffer is never
	// resized.
	viewX, viewY, viewZ, viewW strided.View[float32]

	mu           sync.Mutex
	closed       bool
	tick         uint64
	lastMutation sched.Handle
	inFlight     *tickJobs
}

// New creates an engine over pointCount records, seeds them, and
// schedules the first mutation job so the first tick's readers have a
// completed-before edge to depend on.
func New(pointCount int, opts ...Option) (*Engine, error) {
	if pointCount <= 0 {
		return nil, &ErrInvalidPointCount{Count: pointCount}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.mutateBatchSize <= 0 {
		return nil, &ErrInvalidBatchSize{Job: "mutate", Size: o.mutateBatchSize}
	}
	if o.distanceBatchSize <= 0 {
		return nil, &ErrInvalidBatchSize{Job: "distance", Size: o.distanceBatchSize}
	}
	if o.confidenceStride < 1 || o.confidenceStride > pointCount {
		return nil, &ErrInvalidStride{Stride: o.confidenceStride, PointCount: pointCount}
	}

	ctrl := resource.NewController(resource.Config{
		MemoryLimitBytes: o.memoryLimit,
		MaxWorkers:       1, // worker slots live in the scheduler; this controller only meters memory
	})
	buffers := buffer.NewManager(ctrl)

	points, err := buffer.NewRecordBuffer(buffers, pointCount, PointSize)
	if err != nil {
		return nil, fmt.Errorf("allocate point buffer: %w", err)
	}

	dists, err := buffer.NewFloat32Buffer(buffers, pointCount)
	if err != nil {
		_ = points.Close()
		return nil, fmt.Errorf("allocate distance buffer: %w", err)
	}

	e := &Engine{
		opts:    o,
		logger:  o.logger,
		ctrl:    ctrl,
		buffers: buffers,
		points:  points,
		dists:   dists,
		sched:   sched.New(o.workers),
		access:  sched.NewTracker(),
	}

	slab := points.Bytes()
	for _, v := range []struct {
		view *strided.View[float32]
		off  int
	}{
		{&e.viewX, offsetX},
		{&e.viewY, offsetY},
		{&e.viewZ, offsetZ},
		{&e.viewW, offsetW},
	} {
		*v.view, err = strided.NewView[float32](slab, pointCount, PointSize, v.off)
		if err != nil {
			_ = points.Close()
			_ = dists.Close()
			return nil, err
		}
	}

	for i := 0; i < pointCount; i++ {
		p := o.seed(i)
		e.viewX.Set(i, p.X)
		e.viewY.Set(i, p.Y)
		e.viewZ.Set(i, p.Z)
		e.viewW.Set(i, p.W)
	}

	e.lastMutation = e.scheduleMutation()

	e.logger.WithPointCount(pointCount).Info("engine initialized",
		"workers", o.workers,
		"confidence_stride", o.confidenceStride,
	)
	return e, nil
}

// PointCount returns the fixed number of records.
func (e *Engine) PointCount() int {
	return e.points.Len()
}

// Tick returns the number of the most recently scheduled tick.
func (e *Engine) Tick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// LiveTemps returns the number of scoped temporaries currently
// allocated. Zero after Close.
func (e *Engine) LiveTemps() int {
	return e.buffers.LiveTemps()
}

// MemoryUsage returns the managed memory currently held, in bytes.
func (e *Engine) MemoryUsage() int64 {
	return e.ctrl.MemoryUsage()
}

// AdvanceSchedule builds and admits this tick's job graph: the
// confidence and distance jobs depend on the previous tick's mutation,
// and the reduction depends on the distance job. It never blocks on job
// execution; call AdvanceFinalize to collect the results.
func (e *Engine) AdvanceSchedule() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.inFlight != nil {
		return fmt.Errorf("%w: tick %d awaiting finalize", ErrTickInFlight, e.tick)
	}

	confOut, err := buffer.NewTemp[float32](e.buffers, 1)
	if err != nil {
		return fmt.Errorf("allocate confidence output: %w", err)
	}
	redOut, err := buffer.NewTemp[float32](e.buffers, 3)
	if err != nil {
		_ = confOut.Release()
		return fmt.Errorf("allocate reduction output: %w", err)
	}

	e.tick++

	confidence := e.sched.Sequential(&confidenceJob{
		w:      e.viewW,
		stride: e.opts.confidenceStride,
		out:    confOut,
	}, e.lastMutation)
	e.track(confidence, []sched.Handle{e.lastMutation}, sched.Access{
		Reads: []sched.Resource{resPointsW},
	})

	distance := e.sched.Parallel(&distanceJob{
		x:   e.viewX,
		y:   e.viewY,
		z:   e.viewZ,
		out: e.dists.Data(),
	}, e.points.Len(), e.opts.distanceBatchSize, e.lastMutation)
	e.track(distance, []sched.Handle{e.lastMutation}, sched.Access{
		Reads:  []sched.Resource{resPointsX, resPointsY, resPointsZ},
		Writes: []sched.Resource{resDistances},
	})

	reduction := e.sched.Sequential(&reduceJob{
		in:  e.dists.Data(),
		out: redOut,
	}, distance)
	e.track(reduction, []sched.Handle{distance}, sched.Access{
		Reads: []sched.Resource{resDistances},
	})

	e.inFlight = &tickJobs{
		confidence: confidence,
		reduction:  reduction,
		confOut:    confOut,
		redOut:     redOut,
		started:    time.Now(),
	}

	e.logger.LogSchedule(e.tick)
	return nil
}

// AdvanceFinalize blocks until the scheduled tick's reduction and
// confidence results are ready, releases their temporaries, schedules
// the mutation job for the upcoming tick, and returns the summary.
// The next tick's readers will depend on that mutation, which is what
// lets its execution overlap with driver-side work.
func (e *Engine) AdvanceFinalize() (TickSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return TickSummary{}, ErrClosed
	}
	tj := e.inFlight
	if tj == nil {
		return TickSummary{}, ErrTickNotScheduled
	}
	e.inFlight = nil

	err := sched.Join(tj.reduction, tj.confidence).Complete()

	var sum TickSummary
	if err == nil {
		red := tj.redOut.Data()
		sum = TickSummary{
			Tick:              e.tick,
			DistanceAverage:   red[0],
			DistanceMin:       red[1],
			DistanceMax:       red[2],
			ConfidenceAverage: tj.confOut.Data()[0],
		}
	}

	err = errors.Join(err, tj.confOut.Release(), tj.redOut.Release())

	if err == nil {
		// The readers above are drained, so the next mutation needs no
		// dependency edge; storing its handle orders the next tick's
		// readers after it.
		e.lastMutation = e.scheduleMutation()
	}

	e.logger.LogFinalize(e.tick, sum, time.Since(tj.started), err)
	if err != nil {
		return TickSummary{}, fmt.Errorf("finalize tick %d: %w", e.tick, err)
	}
	return sum, nil
}

// Close completes any outstanding handle, releases temporaries still
// held, then frees the persistent buffers. Safe to call with a tick
// mid-flight, and idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error

	if tj := e.inFlight; tj != nil {
		e.inFlight = nil
		// Job errors are irrelevant during shutdown; the handles only
		// need to settle before their outputs are torn down.
		_ = sched.Join(tj.reduction, tj.confidence).Complete()
		errs = append(errs, tj.confOut.Release(), tj.redOut.Release())
	}

	_ = e.lastMutation.Complete()
	e.sched.Close()

	errs = append(errs,
		e.points.Close(),
		e.dists.Close(),
		e.buffers.Close(),
	)

	err := errors.Join(errs...)
	e.logger.LogShutdown(e.tick, err)
	return err
}

func (e *Engine) scheduleMutation() sched.Handle {
	h := e.sched.Parallel(&mutateJob{
		x:  e.viewX,
		y:  e.viewY,
		z:  e.viewZ,
		w:  e.viewW,
		fn: e.opts.mutate,
	}, e.points.Len(), e.opts.mutateBatchSize)
	e.track(h, nil, sched.Access{
		Writes: []sched.Resource{resPointsX, resPointsY, resPointsZ, resPointsW},
	})
	return h
}

// track records a job's access set with the tracker. The tick graph is
// fixed, so a conflict here is a scheduling bug, not an input error.
func (e *Engine) track(h sched.Handle, deps []sched.Handle, acc sched.Access) {
	if err := e.access.Register(h, deps, acc); err != nil {
		panic(err)
	}
}
