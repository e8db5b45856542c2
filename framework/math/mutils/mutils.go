package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type numeric interface {
	constraints.Integer | constraints.Float
}

func Clamp[T numeric](x, minV, maxV T) T {
	return min(maxV, max(minV, x))
}

func Lerp[T constraints.Float](start, end, t T) T {
	return start + (end-start)*t
}

// ReverseLerp returns where x lies between start and end, clamped to [0, 1]
func ReverseLerp[T constraints.Float](x, start, end T) T {
	if start == end {
		return 0
	}

	return Clamp((x-start)/(end-start), 0, 1)
}

// Smootherstep is a quintic ease between start and end, 0 below start and 1 past end.
// Swapping start and end reverses the curve.
func Smootherstep(x, start, end float64) float64 {
	x = ReverseLerp(x, start, end)
	return x * x * x * (x*(6.0*x-15.0) + 10.0)
}

// Logistic is maxValue / (1 + e^(multiplier*(midpoint-x)))
func Logistic(x, midpoint, multiplier, maxValue float64) float64 {
	return maxValue / (1 + math.Exp(multiplier*(midpoint-x)))
}
