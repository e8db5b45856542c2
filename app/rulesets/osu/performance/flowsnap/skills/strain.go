package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

// StrainSkill is a Skill driven by a single exponentially decaying strain
type StrainSkill struct {
	*Skill

	DecayBase       float64
	SkillMultiplier float64

	CurrentStrain float64

	evaluate func(current *preprocessing.DifficultyObject) float64

	lastTime float64
}

func newStrainSkill(d *difficulty.Difficulty, stepCalc bool, decayBase, multiplier float64, evaluate func(current *preprocessing.DifficultyObject) float64) *StrainSkill {
	skill := &StrainSkill{
		Skill:           NewSkill(d, stepCalc),
		DecayBase:       decayBase,
		SkillMultiplier: multiplier,
		evaluate:        evaluate,
	}

	skill.StrainValueOf = skill.strainValue
	skill.CalculateInitialStrain = skill.initialStrain

	return skill
}

func (skill *StrainSkill) strainValue(current *preprocessing.DifficultyObject) float64 {
	skill.CurrentStrain *= strainDecay(skill.DecayBase, current.DeltaTime)
	skill.CurrentStrain += skill.evaluate(current) * skill.SkillMultiplier

	skill.lastTime = current.StartTime

	return skill.CurrentStrain
}

func (skill *StrainSkill) initialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return decayToTime(skill.CurrentStrain, skill.DecayBase, time, current)
}

// CurrentStrainAt returns the strain decayed to the given time without any new input
func (skill *StrainSkill) CurrentStrainAt(time float64) float64 {
	return skill.CurrentStrain * strainDecay(skill.DecayBase, max(0, time-skill.lastTime))
}
