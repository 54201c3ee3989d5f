// Package mmap provides anonymous off-heap memory mappings.
//
// The engine's persistent buffers (the point records and the per-record
// distance array) are allocated as anonymous read-write mappings so that
// large simulation buffers live outside the Go garbage collector's
// control and can be released back to the OS in one call at shutdown.
//
// # Thread Safety
//
// A Mapping's byte slice is safe for concurrent access as long as the
// callers' accesses are themselves ordered (the scheduler's job here).
// Close is idempotent and protected by an atomic flag, but callers must
// ensure no goroutine touches Bytes() after Close returns.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE
//   - Windows: VirtualAlloc/VirtualFree with demand-paged commit
package mmap
