package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	flashlightSkillMultiplier float64 = 0.05512
	flashlightStrainDecayBase float64 = 0.15
	flashlightSumMultiplier   float64 = 1.06
)

// Flashlight sums every section peak instead of weighting the hardest ones
type Flashlight struct {
	*StrainSkill
}

func NewFlashlightSkill(d *difficulty.Difficulty, stepCalc bool) *Flashlight {
	hidden := d.CheckModActive(difficulty.Hidden)

	skill := &Flashlight{StrainSkill: newStrainSkill(d, stepCalc, flashlightStrainDecayBase, flashlightSkillMultiplier, func(current *preprocessing.DifficultyObject) float64 {
		return evaluators.EvaluateFlashlight(current, hidden)
	})}

	skill.DecayWeight = 1.0
	skill.DifficultyMultiplier = flashlightSumMultiplier

	return skill
}
