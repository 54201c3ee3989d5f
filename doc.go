// Package jobsystem is a small data-parallel computation engine that
// processes a fixed-length buffer of 16-byte point records every
// simulation tick.
//
// Each tick derives per-record statistics from the records — a strided
// confidence sample over the w field and a per-record distance metric
// over x, y, z — and aggregates them into a TickSummary, while the
// mutation preparing the next tick's data overlaps with consumption of
// the current results.
//
// The engine is driven in two phases:
//
//	e, _ := jobsystem.New(1024)
//	for running {
//		_ = e.AdvanceSchedule()        // build and admit this tick's jobs
//		// ... other driver-side work overlaps with job execution ...
//		sum, _ := e.AdvanceFinalize()  // block on results, start next mutation
//	}
//	_ = e.Close()
//
// Correctness on the hot data path comes entirely from the scheduler's
// completed-before edges between jobs; the buffers and their strided
// field views carry no locks. See internal/sched and internal/strided.
package jobsystem
