package skills

import (
	"math"
	"slices"

	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

// SortedPeaks returns the non-zero peaks ordered from highest to lowest. The input is left untouched.
func SortedPeaks(peaks []float64) []float64 {
	sorted := make([]float64, 0, len(peaks))

	for _, p := range peaks {
		if p > 0 {
			sorted = append(sorted, p)
		}
	}

	slices.Sort(sorted)
	slices.Reverse(sorted)

	return sorted
}

// ReduceTopPeaks scales the count highest peaks down towards baseline so a few outlier sections
// don't carry the rating, then restores the ordering
func ReduceTopPeaks(sorted []float64, count int, baseline float64) []float64 {
	for i := 0; i < min(len(sorted), count); i++ {
		scale := math.Log10(mutils.Lerp(1.0, 10.0, mutils.Clamp(float64(i)/float64(count), 0, 1)))
		sorted[i] *= mutils.Lerp(baseline, 1.0, scale)
	}

	slices.Sort(sorted)
	slices.Reverse(sorted)

	return sorted
}

// WeightPeaks decays peaks sorted from highest to lowest by their rank, peak_i * w^i.
// The list ends at the first term that underflows to 0.
func WeightPeaks(sorted []float64, decayWeight float64) []float64 {
	weighted := make([]float64, 0, len(sorted))
	weight := 1.0

	for _, peak := range sorted {
		term := peak * weight
		if term < math.SmallestNonzeroFloat64 {
			break
		}

		weighted = append(weighted, term)
		weight *= decayWeight
	}

	return weighted
}

// PowerSum computes (Σ term_i^k)^(1/k), a plain sum for k = 1
func PowerSum(terms []float64, k float64) float64 {
	sum := 0.0

	if k == 1 {
		for _, term := range terms {
			sum += term
		}

		return sum
	}

	for _, term := range terms {
		sum += math.Pow(term, k)
	}

	return math.Pow(sum, 1/k)
}
