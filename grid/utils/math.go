package utils

import "math"

// Tolerance used when comparing layout sizes. Measured heights come from
// floating point layout math, so two heights are considered equal when they
// are within this distance of each other.
const sizeEpsilon = 1.192093e-7 * 10

// AreClose reports whether a and b are equal within the layout tolerance.
func AreClose(a, b float64) bool {
	if a == b {
		return true
	}
	eps := (math.Abs(a) + math.Abs(b) + 10.0) * sizeEpsilon
	delta := a - b
	return -eps < delta && eps > delta
}

func IsZero(v float64) bool {
	return math.Abs(v) < 10.0*sizeEpsilon
}

func LessThan(a, b float64) bool {
	return a < b && !AreClose(a, b)
}

func LessThanOrClose(a, b float64) bool {
	return a < b || AreClose(a, b)
}

func GreaterThan(a, b float64) bool {
	return a > b && !AreClose(a, b)
}

func GreaterThanOrClose(a, b float64) bool {
	return a > b || AreClose(a, b)
}

// Clamp v to [lo, hi]. If hi < lo, lo wins.
func Clamp[T int | float64](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
