// Package sched schedules the engine's jobs and tracks their completion
// through handles.
//
// A job is either parallel-for (independent per-index work, fanned out
// in batches across a bounded worker pool) or sequential (a single
// execution with exclusive logical access to its inputs). Jobs declare
// ordering by listing dependency handles at schedule time: no part of a
// job starts before every listed handle has completed. That
// completed-before edge is the only synchronization the engine's data
// path uses; the buffers themselves carry no locks.
//
// Handles are immutable completion tokens. Complete blocks until the
// job and, transitively, everything it depended on has finished and is
// idempotent; IsComplete polls without side effects; Join builds the
// completion conjunction of several handles. There is no cancellation:
// once admitted, a job runs to completion and any error surfaces from
// Complete.
package sched
