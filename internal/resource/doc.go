// Package resource provides admission control for the engine's worker
// slots and managed off-heap memory.
//
// A nil *Controller is valid and grants everything, so callers never
// need to special-case the "no limits configured" path.
package resource
