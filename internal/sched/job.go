package sched

// ParallelJob is a unit of independent per-index work. ExecuteOne is
// invoked once for every index in [0, length); indices are grouped into
// batches that may run concurrently in any order. Implementations must
// not communicate between indices except through their declared
// read-only inputs. Returning early for an index under a data-dependent
// condition is a normal outcome, not an error.
type ParallelJob interface {
	ExecuteOne(i int) error
}

// ParallelFunc adapts a function to the ParallelJob interface.
type ParallelFunc func(i int) error

// ExecuteOne invokes f(i).
func (f ParallelFunc) ExecuteOne(i int) error { return f(i) }

// SequentialJob is a unit of work invoked exactly once, with exclusive
// logical access to all of its declared inputs and outputs. It is used
// for reductions that must observe the globally consistent final state
// of a parallel stage.
type SequentialJob interface {
	Execute() error
}

// SequentialFunc adapts a function to the SequentialJob interface.
type SequentialFunc func() error

// Execute invokes f.
func (f SequentialFunc) Execute() error { return f() }
