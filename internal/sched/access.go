package sched

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAccessConflict is returned when a job is registered whose access
// set overlaps an in-flight job's writes without a completed-before
// edge between them.
var ErrAccessConflict = errors.New("sched: conflicting access without dependency edge")

// Resource names a logical field or buffer for access tracking, e.g.
// "points/x" or "distances".
type Resource string

// Access declares the resources a job reads and writes.
type Access struct {
	Reads  []Resource
	Writes []Resource
}

// Tracker turns the aliasing rule — overlapping writes require a
// completed-before edge — from an unenforceable convention into a
// runtime-checked invariant. Views and buffers carry no locks, so
// nothing else would catch a scheduling bug that lets a writer race a
// reader.
//
// Register must be called once per scheduled job, with the same handle
// and dependency list passed to the scheduler. The tracker is cheap
// (a few map operations per job) and intended to stay enabled.
type Tracker struct {
	mu sync.Mutex
	// ancestors maps a registered job to every in-flight job that is
	// ordered before it through its dependency edges.
	ancestors map[*slot]map[*slot]struct{}
	byRes     map[Resource][]trackedAccess
}

type trackedAccess struct {
	h     Handle
	write bool
}

// NewTracker creates an access tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ancestors: make(map[*slot]map[*slot]struct{}),
		byRes:     make(map[Resource][]trackedAccess),
	}
}

// Register records that the job behind h, scheduled with deps, performs
// acc. It returns an error wrapping ErrAccessConflict if a previously
// registered, still-running job conflicts with acc (write-write or
// read-write on the same resource) and is not among h's transitive
// dependencies.
func (t *Tracker) Register(h Handle, deps []Handle, acc Access) error {
	slots := handleSlots(h)
	if len(slots) == 0 {
		return nil // settled or empty handle, nothing to track
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	anc := make(map[*slot]struct{})
	for _, d := range deps {
		t.collectAncestors(d, anc)
	}

	for _, r := range acc.Writes {
		if err := t.checkResource(r, anc, true); err != nil {
			return err
		}
	}
	for _, r := range acc.Reads {
		if err := t.checkResource(r, anc, false); err != nil {
			return err
		}
	}

	for _, s := range slots {
		t.ancestors[s] = anc
	}
	for _, r := range acc.Writes {
		t.byRes[r] = append(t.byRes[r], trackedAccess{h: h, write: true})
	}
	for _, r := range acc.Reads {
		t.byRes[r] = append(t.byRes[r], trackedAccess{h: h, write: false})
	}
	return nil
}

// collectAncestors folds d and, while d is still in flight, d's own
// ancestors into anc. Completed dependencies need no entry: conflicts
// against settled jobs always pass.
func (t *Tracker) collectAncestors(d Handle, anc map[*slot]struct{}) {
	for _, s := range handleSlots(d) {
		anc[s] = struct{}{}
		for a := range t.ancestors[s] {
			anc[a] = struct{}{}
		}
	}
}

// checkResource verifies the new access against r's tracked accesses,
// pruning entries whose jobs have settled.
func (t *Tracker) checkResource(r Resource, anc map[*slot]struct{}, write bool) error {
	live := t.byRes[r][:0]
	for _, prev := range t.byRes[r] {
		if prev.h.IsComplete() {
			for _, s := range handleSlots(prev.h) {
				delete(t.ancestors, s)
			}
			continue
		}
		live = append(live, prev)

		if !write && !prev.write {
			continue // concurrent reads are always safe
		}
		if !t.orderedBefore(prev.h, anc) {
			return fmt.Errorf("%w: %q", ErrAccessConflict, r)
		}
	}
	t.byRes[r] = live
	return nil
}

func (t *Tracker) orderedBefore(prev Handle, anc map[*slot]struct{}) bool {
	for _, s := range handleSlots(prev) {
		if _, ok := anc[s]; !ok {
			return false
		}
	}
	return true
}

// handleSlots flattens a handle (plain or join) into its slots.
func handleSlots(h Handle) []*slot {
	if h.s != nil {
		return []*slot{h.s}
	}
	var out []*slot
	for _, d := range h.joined {
		out = append(out, handleSlots(d)...)
	}
	return out
}
