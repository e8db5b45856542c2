package skills

import (
	"math"
	"testing"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiff() *difficulty.Difficulty {
	return difficulty.NewDifficulty(5, 4, 8, 9)
}

// zigzag builds a map of count circles alternating between two rows
func zigzag(count int, interval float64) []*preprocessing.DifficultyObject {
	objs := make([]objects.IHitObject, count)
	for i := range objs {
		objs[i] = objects.NewCircle(1000+float64(i)*interval, mgl64.Vec2{60 + float64(i%8)*50, 100 + float64(i%2)*150}, i%4 == 0)
	}

	return preprocessing.CreateDifficultyObjects(objs, newDiff())
}

func TestWeightPeaks(t *testing.T) {
	expected := 10 + 8*0.9 + 6*0.9*0.9 + 4*math.Pow(0.9, 3) + 2*math.Pow(0.9, 4)

	weighted := WeightPeaks(SortedPeaks([]float64{4, 0, 10, 2, 6, 8, 0}), 0.9)
	require.Len(t, weighted, 5)
	assert.InDelta(t, expected, PowerSum(weighted, 1), 1e-12)

	skill := NewSkill(newDiff(), false)
	skill.strainPeaks = []float64{4, 0, 10, 2, 6}
	skill.currentSectionPeak = 8

	assert.InDelta(t, expected, skill.DifficultyValue(), 1e-12)

	assert.Empty(t, WeightPeaks(SortedPeaks([]float64{0, 0}), 0.9))
	assert.Zero(t, PowerSum(nil, 1))
	assert.Zero(t, NewSkill(newDiff(), false).DifficultyValue())
}

func TestPowerSum(t *testing.T) {
	assert.InDelta(t, 5.0, PowerSum([]float64{4, 3}, 2), 1e-12)

	// Weighting and the power sum are separate stages, k only applies to already weighted terms
	skill := NewSkill(newDiff(), false)
	skill.strainPeaks = []float64{8}
	skill.currentSectionPeak = 10
	skill.K = 2
	skill.DifficultyMultiplier = 2

	assert.InDelta(t, 2*math.Sqrt(100+0.81*64), skill.DifficultyValue(), 1e-12)
	assert.Equal(t, []float64{10, 0.9 * 8}, WeightPeaks([]float64{10, 8}, 0.9))
}

func TestSortedPeaksLeavesInput(t *testing.T) {
	peaks := []float64{1, 3, 0, 2}

	assert.Equal(t, []float64{3, 2, 1}, SortedPeaks(peaks))
	assert.Equal(t, []float64{1, 3, 0, 2}, peaks)
}

func TestReduceTopPeaks(t *testing.T) {
	reduced := ReduceTopPeaks([]float64{10, 9, 8, 7, 6, 5}, 2, 0.5)

	require.Len(t, reduced, 6)
	assert.IsNonIncreasing(t, reduced)
	assert.Contains(t, reduced, 5.0)
	assert.NotContains(t, reduced, 10.0)
	assert.Contains(t, reduced, 8.0)

	// The top peak is scaled all the way down to the baseline
	assert.Equal(t, []float64{5, 5}, reduced[4:])
}

func TestEmptySkills(t *testing.T) {
	d := newDiff()

	aim := NewAimSkill(d, true, false)
	speed := NewSpeedSkill(d, false)

	assert.Zero(t, aim.DifficultyValue())
	assert.Zero(t, aim.CountDifficultStrains())
	assert.Zero(t, aim.GetDifficultSliders())
	assert.Zero(t, speed.RelevantNoteCount())
	assert.Equal(t, []float64{0}, speed.GetCurrentStrainPeaks())
}

type decayingSkill interface {
	Process(current *preprocessing.DifficultyObject)
	CurrentStrainAt(time float64) float64
}

func TestDecayBounds(t *testing.T) {
	diffObjects := zigzag(24, 150)
	last := diffObjects[len(diffObjects)-1].StartTime

	d := newDiff()

	skills := map[string]decayingSkill{
		"aim":        NewAimSkill(d, true, false),
		"speed":      NewSpeedSkill(d, false),
		"flashlight": NewFlashlightSkill(d, false),
	}

	for name, skill := range skills {
		t.Run(name, func(t *testing.T) {
			for _, o := range diffObjects {
				skill.Process(o)
			}

			previous := skill.CurrentStrainAt(last)
			require.Greater(t, previous, 0.0)

			for _, offset := range []float64{10, 100, 500, 1000, 5000} {
				strain := skill.CurrentStrainAt(last + offset)

				assert.Less(t, strain, previous, "offset %v", offset)
				assert.GreaterOrEqual(t, strain, 0.0)

				previous = strain
			}

			assert.InDelta(t, 0, skill.CurrentStrainAt(last+60000), 1e-9)
		})
	}
}

func TestDominantModel(t *testing.T) {
	// Snap stays dominant until flow is easier by the full margin
	assert.False(t, dominantModel(false, 100, 97))
	assert.True(t, dominantModel(false, 100, 94))

	// And the same holds on the way back
	assert.True(t, dominantModel(true, 97, 100))
	assert.False(t, dominantModel(true, 94, 100))
}

func TestAimNeverExceedsEitherModel(t *testing.T) {
	aim := NewAimSkill(newDiff(), true, false)

	for _, o := range zigzag(32, 180) {
		aim.Process(o)

		strain := aim.GetObjectStrains()[len(aim.GetObjectStrains())-1]

		assert.LessOrEqual(t, strain, min(aim.Snap.CurrentStrain, aim.Flow.CurrentStrain)*aimTransitionBonus+1e-9)
	}

	assert.Greater(t, aim.DifficultyValue(), 0.0)
	assert.Greater(t, aim.Snap.DifficultyValue(), 0.0)
	assert.Greater(t, aim.Flow.DifficultyValue(), 0.0)
}

func TestStepCalculationMatchesSingle(t *testing.T) {
	diffObjects := zigzag(40, 120)

	single := NewSpeedSkill(newDiff(), false)
	step := NewSpeedSkill(newDiff(), true)

	for _, o := range diffObjects {
		single.Process(o)
		step.Process(o)
	}

	assert.InDelta(t, single.DifficultyValue(), step.DifficultyValue(), 1e-9)
	assert.Greater(t, step.CountDifficultStrains(), 0.0)
	assert.Equal(t, single.GetCurrentStrainPeaks(), step.GetCurrentStrainPeaks())
}

func TestSectionsFollowTime(t *testing.T) {
	diffObjects := zigzag(20, 200)

	speed := NewSpeedSkill(newDiff(), false)
	for _, o := range diffObjects {
		speed.Process(o)
	}

	// 1200..4800 ms spans nine 400 ms sections plus the running one
	peaks := speed.GetCurrentStrainPeaks()
	assert.Len(t, peaks, 10)
	assert.Len(t, speed.GetObjectStrains(), len(diffObjects))
}

func TestRelevantNoteCount(t *testing.T) {
	speed := NewSpeedSkill(newDiff(), false)
	for _, o := range zigzag(30, 110) {
		speed.Process(o)
	}

	count := speed.RelevantNoteCount()

	assert.Greater(t, count, 0.0)
	assert.LessOrEqual(t, count, float64(len(speed.GetObjectStrains())))
}

func TestPerformanceCurves(t *testing.T) {
	assert.InDelta(t, 1.0/100000, DefaultDifficultyToPerformance(0), 1e-15)
	assert.Greater(t, DefaultDifficultyToPerformance(3), DefaultDifficultyToPerformance(2))

	assert.InDelta(t, 25.0*4, FlashlightDifficultyToPerformance(2), 1e-12)
	assert.InDelta(t, 16.0, HiddenDifficultyToPerformance(1), 1e-12)
	assert.InDelta(t, 20.0, LowARDifficultyToPerformance(1), 1e-12)
}
