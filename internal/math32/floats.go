// Package math32 provides float32 kernels for the per-tick jobs.
// All functions are plain Go loops; the compiler's bounds-check
// elimination and auto-vectorization are good enough for the hot paths
// here, which are memory-bound strided reads.
package math32

import "math"

// Sqrt returns the square root of x as a float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// SquaredNorm returns x*x + y*y + z*z.
func SquaredNorm(x, y, z float32) float32 {
	return x*x + y*y + z*z
}

// Sum returns the sum of all elements of v.
func Sum(v []float32) float32 {
	var s float32
	for _, x := range v {
		s += x
	}
	return s
}

// Min returns the minimum element of v, or 0 for an empty slice.
func Min(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the maximum element of v, or 0 for an empty slice.
func Max(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
