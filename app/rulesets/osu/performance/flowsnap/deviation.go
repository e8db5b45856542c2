package flowsnap

import (
	"math"

	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	minDeviation = 0.1
	maxDeviation = 1000.0

	deviationTolerance     = 1e-6
	deviationMaxIterations = 200

	// Past this point erfc(x) * exp(x^2) is taken from its asymptotic series since exp(x^2) overflows
	erfcxAsymptoticStart = 25.0
)

// HitCounts are judgement counts on objects whose timing is judged
type HitCounts struct {
	Great float64
	Ok    float64
	Meh   float64
	Miss  float64
}

// HitWindows are ±ms half-widths of the judgement windows
type HitWindows struct {
	Great float64
	Ok    float64
	Meh   float64
}

// EstimateDeviation returns the standard deviation of a zero-mean normal hit error that most likely produced the counts.
// It is +Inf when nothing was hit, and clamped to [0.1, 1000] ms otherwise.
func EstimateDeviation(counts HitCounts, windows HitWindows) float64 {
	if counts.Great+counts.Ok+counts.Meh <= 0 {
		return math.Inf(1)
	}

	great := max(windows.Great, minDeviation)
	ok := max(windows.Ok, great)
	meh := max(windows.Meh, ok)

	// Each judgement is the probability of landing between two window edges: [0, great), [great, ok), [ok, meh), [meh, inf)
	tiers := []struct {
		count        float64
		inner, outer float64
	}{
		{counts.Great, 0, great},
		{counts.Ok, great, ok},
		{counts.Meh, ok, meh},
		{counts.Miss, meh, math.Inf(1)},
	}

	// Derivative of the log-likelihood over σ, with the positive factor shared by every tier dropped
	derivative := func(sigma float64) float64 {
		sum := 0.0

		for _, tier := range tiers {
			if tier.count <= 0 || tier.outer <= tier.inner {
				continue
			}

			sum += tier.count * tierLikelihoodSlope(tier.inner, tier.outer, sigma)
		}

		return sum
	}

	lower, upper := derivative(minDeviation), derivative(maxDeviation)

	switch {
	case lower <= 0 && upper <= 0:
		// Likelihood only drops as the deviation grows
		return minDeviation
	case lower >= 0 && upper >= 0:
		return maxDeviation
	}

	root, _ := mutils.FindRootBrent(derivative, minDeviation, maxDeviation, deviationTolerance, deviationMaxIterations)

	return root
}

// tierLikelihoodSlope is d/dσ ln P(inner <= |x| < outer) divided by sqrt(2/π)/σ²
func tierLikelihoodSlope(inner, outer, sigma float64) float64 {
	a := inner / (math.Sqrt2 * sigma)
	b := outer / (math.Sqrt2 * sigma)

	// P = erfc(a) - erfc(b), both sides scaled by exp(a²) to keep far tails finite
	ratio := 0.0
	if !math.IsInf(b, 1) {
		ratio = math.Exp(a*a - b*b)
	}

	numerator := inner - outer*ratio
	if math.IsInf(outer, 1) {
		numerator = inner
	}

	denominator := erfcx(a) - erfcx(b)*ratio

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}

// erfcx is the scaled complementary error function erfc(x) * exp(x²) for x >= 0
func erfcx(x float64) float64 {
	if math.IsInf(x, 1) {
		return 0
	}

	if x < erfcxAsymptoticStart {
		return math.Erfc(x) * math.Exp(x*x)
	}

	x2 := x * x

	return (1 - 1/(2*x2) + 3/(4*x2*x2) - 15/(8*x2*x2*x2)) / (x * math.Sqrt(math.Pi))
}

// GreatProbability is the chance a normal hit error with the given deviation lands within ±window
func GreatProbability(deviation, window float64) float64 {
	if math.IsInf(deviation, 1) || window <= 0 {
		return 0
	}

	if deviation <= 0 {
		return 1
	}

	return math.Erf(window / (math.Sqrt2 * deviation))
}
