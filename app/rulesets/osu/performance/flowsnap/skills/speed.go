package skills

import (
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
)

const (
	speedSkillMultiplier float64 = 1375
	speedStrainDecayBase float64 = 0.3
)

type SpeedSkill struct {
	*StrainSkill
}

func NewSpeedSkill(d *difficulty.Difficulty, stepCalc bool) *SpeedSkill {
	skill := &SpeedSkill{StrainSkill: newStrainSkill(d, stepCalc, speedStrainDecayBase, speedSkillMultiplier, evaluators.EvaluateSpeed)}

	skill.ReducedSectionCount = 10
	skill.ReducedStrainBaseline = 0.75

	return skill
}

// RelevantNoteCount weighs every object by how close its strain is to the hardest one
func (skill *SpeedSkill) RelevantNoteCount() float64 {
	maxStrain := 0.0
	for _, s := range skill.objectStrains {
		maxStrain = max(maxStrain, s)
	}

	if maxStrain == 0 {
		return 0
	}

	count := 0.0
	for _, s := range skill.objectStrains {
		count += 1.0 / (1.0 + math.Exp(-(s/maxStrain*12.0 - 6.0)))
	}

	return count
}
