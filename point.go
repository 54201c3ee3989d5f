package jobsystem

import "unsafe"

// Point is one simulation record: four float32 fields stored
// contiguously at byte offsets 0, 4, 8 and 12 within a 16-byte record.
// Records are stored back to back in the engine's point buffer; the
// per-tick jobs access individual fields through strided views over
// that slab.
type Point struct {
	X, Y, Z, W float32
}

// PointSize is the size of one record in bytes.
const PointSize = 16

const (
	offsetX = 0
	offsetY = 4
	offsetZ = 8
	offsetW = 12
)

// The strided views depend on this exact layout.
var _ [PointSize]struct{} = [unsafe.Sizeof(Point{})]struct{}{}

// SeedFunc produces the initial value of record i. The engine calls it
// once per record at initialization. Randomized seeding belongs to the
// driver; the default is deterministic.
type SeedFunc func(i int) Point

// MutateFunc computes the next value of record i from its current
// value. Returning false skips the record for this tick, a normal
// data-dependent outcome that parallel workers must handle. Randomized
// perturbation belongs to the driver; the default is deterministic.
type MutateFunc func(i int, p Point) (Point, bool)

func defaultSeed(i int) Point {
	f := float32(i)
	return Point{
		X: f * 0.25,
		Y: f * 0.5,
		Z: f * 0.75,
		W: float32(i%11) / 10,
	}
}

func defaultMutate(i int, p Point) (Point, bool) {
	// Skip low-confidence odd records entirely; the skip path must be
	// safe under parallel execution.
	if i%2 == 1 && p.W < 0.5 {
		return p, false
	}

	p.X += 0.01
	p.Y -= 0.005
	p.Z += 0.002
	p.W += 0.05
	if p.W > 1 {
		p.W -= 1
	}
	return p, true
}
