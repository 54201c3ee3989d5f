// Package buffer manages the lifetime of the engine's two buffer
// classes.
//
// Persistent buffers (RecordBuffer, Float32Buffer) are created once at
// engine start, mutated in place every tick and closed at shutdown.
// They live in anonymous off-heap mappings so simulation data is not GC
// managed.
//
// Scoped temporaries (Temp) carry one job's output across a tick and
// must be released exactly once, within the tick that created them.
// Double release and use after release are guarded with atomic flags
// and reported as fatal logic errors: no two ticks should ever race on
// the same temporary.
//
// The Manager tracks live temporaries in a bitset so tests and shutdown
// can assert that nothing leaked.
package buffer
