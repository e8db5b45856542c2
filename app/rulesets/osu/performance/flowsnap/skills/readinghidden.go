package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	readingHiddenSkillMultiplier float64 = 7.632
	readingHiddenStrainDecayBase float64 = 0.15
)

// ReadingHidden rates aiming at objects that have already faded out
type ReadingHidden struct {
	*StrainSkill
}

func NewReadingHidden(d *difficulty.Difficulty, stepCalc bool) *ReadingHidden {
	return &ReadingHidden{
		StrainSkill: newStrainSkill(d, stepCalc, readingHiddenStrainDecayBase, readingHiddenSkillMultiplier, hiddenValue),
	}
}

func hiddenValue(current *preprocessing.DifficultyObject) float64 {
	// Slider aim is not affected by hidden
	return evaluators.EvaluateAim(current, false) * evaluators.EvaluateHiddenDifficultyOf(current)
}
