package mutils

import "math"

// PowerSum computes (Σ v^p)^(1/p)
func PowerSum(p float64, values ...float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += math.Pow(v, p)
	}

	return math.Pow(sum, 1/p)
}
