// Package strided provides zero-copy field views over interleaved
// record buffers.
//
// A View exposes one scalar field of every record in a contiguous slab
// as if it were a flat array: element i lives at
//
//	base + byteOffset + i*stride
//
// Views are non-owning borrows. They perform no locking: two views over
// the same slab may be read concurrently without restriction, but a
// write through one view is only safe against accesses through another
// if the scheduler has established a completed-before edge between the
// jobs performing them. That trade keeps per-access cost at a single
// pointer addition.
package strided
