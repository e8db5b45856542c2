package flowsnap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var od8Windows = HitWindows{Great: 32, Ok: 76, Meh: 120}

func TestDeviationSentinels(t *testing.T) {
	assert.True(t, math.IsInf(EstimateDeviation(HitCounts{}, od8Windows), 1))
	assert.True(t, math.IsInf(EstimateDeviation(HitCounts{Miss: 10}, od8Windows), 1))

	// Only greats is as precise as it gets
	assert.Equal(t, minDeviation, EstimateDeviation(HitCounts{Great: 500}, od8Windows))
}

func TestDeviationRecoversDistribution(t *testing.T) {
	for _, sigma := range []float64{8, 15, 30} {
		probability := func(window float64) float64 { return math.Erf(window / (math.Sqrt2 * sigma)) }

		const total = 1e6

		counts := HitCounts{
			Great: total * probability(od8Windows.Great),
			Ok:    total * (probability(od8Windows.Ok) - probability(od8Windows.Great)),
			Meh:   total * (probability(od8Windows.Meh) - probability(od8Windows.Ok)),
			Miss:  total * math.Erfc(od8Windows.Meh/(math.Sqrt2*sigma)),
		}

		assert.InDelta(t, sigma, EstimateDeviation(counts, od8Windows), 1e-3, "sigma %v", sigma)
	}
}

func TestDeviationOrdering(t *testing.T) {
	base := HitCounts{Great: 900, Ok: 40, Meh: 5}

	last := 0.0

	for _, misses := range []float64{0, 1, 5, 20, 100} {
		counts := base
		counts.Miss = misses

		deviation := EstimateDeviation(counts, od8Windows)

		assert.GreaterOrEqual(t, deviation, last, "misses %v", misses)

		last = deviation
	}

	fewerOks := EstimateDeviation(HitCounts{Great: 900, Ok: 10}, od8Windows)
	moreOks := EstimateDeviation(HitCounts{Great: 900, Ok: 50}, od8Windows)

	assert.Less(t, fewerOks, moreOks)
}

func TestDeviationBounds(t *testing.T) {
	deviation := EstimateDeviation(HitCounts{Meh: 1, Miss: 1000}, od8Windows)

	assert.LessOrEqual(t, deviation, maxDeviation)
	assert.GreaterOrEqual(t, deviation, minDeviation)
}

func TestGreatProbability(t *testing.T) {
	assert.Equal(t, 1.0, GreatProbability(minDeviation, 32))
	assert.Zero(t, GreatProbability(math.Inf(1), 32))
	assert.InDelta(t, math.Erf(1), GreatProbability(10, 10*math.Sqrt2), 1e-12)
}

func TestErfcx(t *testing.T) {
	for _, x := range []float64{0, 0.5, 3, 10} {
		assert.InDelta(t, math.Erfc(x)*math.Exp(x*x), erfcx(x), 1e-12)
	}

	// Both sides of the asymptotic switch agree
	assert.InDelta(t, erfcx(erfcxAsymptoticStart-1e-9), erfcx(erfcxAsymptoticStart), 1e-9)
	assert.Zero(t, erfcx(math.Inf(1)))
}
