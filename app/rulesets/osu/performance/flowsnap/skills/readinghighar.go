package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
)

const (
	readingHighARSkillMultiplier float64 = 2.0
	readingHighARStrainDecayBase float64 = 0.6
)

// ReadingHighAR rates reacting to objects that appear shortly before they have to be hit
type ReadingHighAR struct {
	*StrainSkill
}

func NewReadingHighAR(d *difficulty.Difficulty, stepCalc bool) *ReadingHighAR {
	return &ReadingHighAR{
		StrainSkill: newStrainSkill(d, stepCalc, readingHighARStrainDecayBase, readingHighARSkillMultiplier, evaluators.EvaluateHighARDifficultyOf),
	}
}
