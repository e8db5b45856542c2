package flowsnap

import (
	"math"
	"testing"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculate(t *testing.T, mods difficulty.Modifier, score func(attr api.Attributes) api.Score) (api.Attributes, api.PerformanceAttributes) {
	t.Helper()

	d := newDiff(mods)

	attr := NewDifficultyCalculator().CalculateSingle(testMap(1000, 1), d)
	require.Greater(t, attr.Total, 0.0)

	return attr, NewPPCalculator().Calculate(attr, score(attr), d)
}

func TestSSScore(t *testing.T) {
	attr, perf := calculate(t, difficulty.None, api.PerfectScore)

	assert.Zero(t, perf.EffectiveMissCount)
	assert.Equal(t, minDeviation, perf.Deviation)
	assert.Equal(t, 1.0, GreatProbability(perf.Deviation, 80-6*attr.OverallDifficulty))

	assert.Greater(t, perf.Aim, 0.0)
	assert.Greater(t, perf.Speed, 0.0)
	assert.Greater(t, perf.Acc, 0.0)
	assert.Greater(t, perf.Total, 0.0)

	combined := math.Pow(math.Pow(perf.Aim, 1.1)+math.Pow(perf.Speed, 1.1)+math.Pow(perf.Rhythm, 1.1), 1/1.1)
	assert.Greater(t, perf.Total, combined)
}

func TestScoreFilling(t *testing.T) {
	_, filled := calculate(t, difficulty.None, func(api.Attributes) api.Score {
		return api.Score{MaxCombo: -1, CountGreat: -1, Accuracy: -1}
	})

	_, perfect := calculate(t, difficulty.None, api.PerfectScore)

	assert.InDelta(t, perfect.Total, filled.Total, 1e-9)
}

func TestMissesCostPerformance(t *testing.T) {
	withMisses := func(misses int) func(attr api.Attributes) api.Score {
		return func(attr api.Attributes) api.Score {
			return api.Score{
				MaxCombo:   attr.MaxCombo / 3,
				CountGreat: attr.ObjectCount - misses,
				CountMiss:  misses,
				Accuracy:   -1,
			}
		}
	}

	_, perfect := calculate(t, difficulty.None, api.PerfectScore)
	_, one := calculate(t, difficulty.None, withMisses(1))
	_, five := calculate(t, difficulty.None, withMisses(5))

	assert.GreaterOrEqual(t, one.EffectiveMissCount, 1.0)
	assert.GreaterOrEqual(t, five.EffectiveMissCount, 5.0)

	assert.Less(t, one.Total, perfect.Total)
	assert.Less(t, five.Total, one.Total)
	assert.LessOrEqual(t, one.Deviation, five.Deviation)
}

func TestComboScaling(t *testing.T) {
	d := newDiff(difficulty.None)
	attr := NewDifficultyCalculator().CalculateSingle(testMap(1000, 1), d)

	// One 100 caps the effective miss count at 1, so only the combo changes between plays
	withCombo := func(combo int) api.PerformanceAttributes {
		return NewPPCalculator().Calculate(attr, api.Score{
			MaxCombo:   combo,
			CountGreat: attr.ObjectCount - 1,
			CountOk:    1,
			Accuracy:   -1,
		}, d)
	}

	previous := withCombo(attr.MaxCombo - 1)
	require.Greater(t, previous.Aim, 0.0)
	require.Greater(t, previous.Speed, 0.0)

	for _, combo := range []int{attr.MaxCombo / 2, 5} {
		perf := withCombo(combo)

		assert.Equal(t, previous.EffectiveMissCount, perf.EffectiveMissCount, "combo %d", combo)
		assert.Less(t, perf.Aim, previous.Aim, "combo %d", combo)
		assert.Less(t, perf.Speed, previous.Speed, "combo %d", combo)
		assert.LessOrEqual(t, perf.Rhythm, previous.Rhythm, "combo %d", combo)
		assert.Less(t, perf.Total, previous.Total, "combo %d", combo)

		previous = perf
	}
}

func TestSliderNerfFactor(t *testing.T) {
	tests := []struct {
		name              string
		difficultSliders  float64
		countOk, maxCombo int
		expected          float64
	}{
		{"full combo", 4, 2, 100, 1},
		{"two slider ends dropped", 4, 2, 98, 0.2*0.125 + 0.8},
		{"clamped to difficult sliders", 4, 10, 50, 0.8},
		{"no difficult sliders", 0, 10, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := &PPv2{
				attribs: api.Attributes{
					Sliders:                 10,
					AimDifficultSliderCount: tt.difficultSliders,
					SliderFactor:            0.8,
					MaxCombo:                100,
				},
				countOk:       tt.countOk,
				scoreMaxCombo: tt.maxCombo,
			}

			assert.InDelta(t, tt.expected, pp.sliderNerfFactor(), 1e-12)
		})
	}
}

func TestDroppedSliderEndsCostAim(t *testing.T) {
	d := newDiff(difficulty.None)
	attr := NewDifficultyCalculator().CalculateSingle(sliderMap(1000, 1), d)
	require.Less(t, attr.SliderFactor, 1.0)
	require.Greater(t, attr.AimDifficultSliderCount, 0.0)

	score := api.Score{
		MaxCombo:   attr.MaxCombo - 3,
		CountGreat: attr.ObjectCount - 3,
		CountOk:    3,
		Accuracy:   -1,
	}

	withSliders := NewPPCalculator().Calculate(attr, score, d)

	unrated := attr
	unrated.AimDifficultSliderCount = 0

	withoutSliders := NewPPCalculator().Calculate(unrated, score, d)

	assert.Less(t, withSliders.Aim, withoutSliders.Aim)
	assert.Equal(t, withoutSliders.Speed, withSliders.Speed)
}

func TestAccuracyCostsPerformance(t *testing.T) {
	withOks := func(oks int) func(attr api.Attributes) api.Score {
		return func(attr api.Attributes) api.Score {
			return api.Score{MaxCombo: attr.MaxCombo, CountGreat: attr.ObjectCount - oks, CountOk: oks, Accuracy: -1}
		}
	}

	_, perfect := calculate(t, difficulty.None, api.PerfectScore)
	_, few := calculate(t, difficulty.None, withOks(2))
	_, many := calculate(t, difficulty.None, withOks(10))

	assert.Greater(t, few.Deviation, perfect.Deviation)
	assert.Greater(t, many.Deviation, few.Deviation)

	assert.Less(t, few.Acc, perfect.Acc)
	assert.Less(t, many.Acc, few.Acc)
	assert.Less(t, many.Aim, few.Aim)
}

func TestNoHits(t *testing.T) {
	perf := NewPPCalculator().Calculate(api.Attributes{}, api.Score{}, newDiff(difficulty.None))

	assert.Zero(t, perf.Total)
	assert.True(t, math.IsInf(perf.Deviation, 1))
}

func TestModMultipliers(t *testing.T) {
	_, nomod := calculate(t, difficulty.None, api.PerfectScore)
	_, relax := calculate(t, difficulty.Relax, api.PerfectScore)
	_, hidden := calculate(t, difficulty.Hidden, api.PerfectScore)

	assert.Zero(t, relax.Speed)
	assert.Zero(t, relax.Rhythm)
	assert.Zero(t, relax.Acc)

	assert.Greater(t, hidden.Total, nomod.Total)
}

func TestSoftmin(t *testing.T) {
	assert.Zero(t, AdjustCognitionPerformance(0, 100, 0))
	assert.LessOrEqual(t, AdjustCognitionPerformance(1000, 100, 0), 125.0)
	assert.Equal(t, 125.0, AdjustCognitionPerformance(1e6, 100, 0))
}
