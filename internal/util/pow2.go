package util

import "math/bits"

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return bits.OnesCount64(x) == 1
}

// NextPow2 returns the smallest power of two >= x. NextPow2(0) is 1; when
// the exact value would not fit in 64 bits the result clamps to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	n := bits.Len64(x - 1)
	if n >= 64 {
		return 1 << 63
	}
	return 1 << n
}
