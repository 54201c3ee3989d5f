package jobsystem

import (
	"github.com/FlorianJeanne/job-system-cookbook/internal/buffer"
	"github.com/FlorianJeanne/job-system-cookbook/internal/math32"
	"github.com/FlorianJeanne/job-system-cookbook/internal/strided"
)

// mutateJob advances every record to its next-tick value. Parallel-for:
// each index touches only its own record, so indices are independent.
// The mutate function may skip a record, which leaves its fields at the
// previous tick's values.
type mutateJob struct {
	x, y, z, w strided.View[float32]
	fn         MutateFunc
}

func (j *mutateJob) ExecuteOne(i int) error {
	p := Point{
		X: j.x.Get(i),
		Y: j.y.Get(i),
		Z: j.z.Get(i),
		W: j.w.Get(i),
	}

	next, ok := j.fn(i, p)
	if !ok {
		return nil
	}

	j.x.Set(i, next.X)
	j.y.Set(i, next.Y)
	j.z.Set(i, next.Z)
	j.w.Set(i, next.W)
	return nil
}

// distanceJob computes each record's distance from the origin into the
// distance buffer. Parallel-for: reads x, y, z; writes only out[i].
type distanceJob struct {
	x, y, z strided.View[float32]
	out     []float32
}

func (j *distanceJob) ExecuteOne(i int) error {
	j.out[i] = math32.Sqrt(math32.SquaredNorm(j.x.Get(i), j.y.Get(i), j.z.Get(i)))
	return nil
}

// confidenceJob samples every stride-th record's w field and writes the
// stride-weighted average into its scoped temporary:
//
//	confidence = stride * Σ w[k*stride] / n
//
// Sequential: the strided walk is memory-bound and cheap, and the
// single output cell wants exclusive access.
type confidenceJob struct {
	w      strided.View[float32]
	stride int
	out    *buffer.Temp[float32]
}

func (j *confidenceJob) Execute() error {
	var sum float32
	for i := 0; i < j.w.Len(); i += j.stride {
		sum += j.w.Get(i)
	}
	j.out.Data()[0] = float32(j.stride) * sum / float32(j.w.Len())
	return nil
}

// reduceJob aggregates the distance buffer into {average, min, max}.
// Sequential: it must observe the globally consistent final state of
// the distance pass, which its dependency handle guarantees.
type reduceJob struct {
	in  []float32
	out *buffer.Temp[float32]
}

func (j *reduceJob) Execute() error {
	out := j.out.Data()
	if len(j.in) == 0 {
		// Unreachable with a validated point count; defined anyway.
		out[0], out[1], out[2] = 0, 0, 0
		return nil
	}
	out[0] = math32.Sum(j.in) / float32(len(j.in))
	out[1] = math32.Min(j.in)
	out[2] = math32.Max(j.in)
	return nil
}
