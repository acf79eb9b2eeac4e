// Package maths provides small numeric helpers shared by the rest of this module.
package maths

// Number is the set of types that support ordering via '<'.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Min returns the smaller of the two given values.
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}

	return b
}

// Max returns the larger of the two given values.
func Max[T Number](a, b T) T {
	if a > b {
		return a
	}

	return b
}

// Clamp returns v restricted to the closed interval [lo, hi].
func Clamp[T Number](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}
