package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	rhythmSkillMultiplier  float64 = 1.0
	rhythmIslandMultiplier float64 = 40.0
	rhythmStrainDecayBase  float64 = 0.3
	rhythmSumPower         float64 = 2.0
)

type RhythmSkill struct {
	*StrainSkill
}

func NewRhythmSkill(d *difficulty.Difficulty, stepCalc bool) *RhythmSkill {
	skill := &RhythmSkill{StrainSkill: newStrainSkill(d, stepCalc, rhythmStrainDecayBase, rhythmSkillMultiplier, rhythmValue)}
	skill.K = rhythmSumPower

	return skill
}

func rhythmValue(current *preprocessing.DifficultyObject) float64 {
	return evaluators.EvaluateRhythmComplexity(current) * rhythmIslandMultiplier
}
