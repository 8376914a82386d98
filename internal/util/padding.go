// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize matches the line size of current mainstream CPUs. The
// runtime knows the real value but does not export it.
const CacheLineSize = 64

// CacheLinePad separates groups of hot fields into distinct cache lines
// so updates to one group do not invalidate the other (false sharing).
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicInt64 is an atomic int64 occupying exactly one cache line.
// Use for counters updated from many goroutines at once.
type PaddedAtomicInt64 struct {
	atomic.Int64
	_ [CacheLineSize - unsafe.Sizeof(atomic.Int64{})]byte
}

// PaddedAtomicUint64 is the uint64 counterpart.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte
}

// Each padded type must fill its cache line exactly. Either line below
// fails to compile when a struct drifts from CacheLineSize bytes.
var (
	_ [CacheLineSize - unsafe.Sizeof(PaddedAtomicInt64{})]byte
	_ [unsafe.Sizeof(PaddedAtomicInt64{}) - CacheLineSize]byte
	_ [CacheLineSize - unsafe.Sizeof(PaddedAtomicUint64{})]byte
	_ [unsafe.Sizeof(PaddedAtomicUint64{}) - CacheLineSize]byte
)
