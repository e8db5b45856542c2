package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	readingLowARSkillMultiplier        float64 = 1.23
	readingLowARAimComponentMultiplier float64 = 0.4
	readingLowARStrainDecayBase        float64 = 0.15
)

// ReadingLowAR rates reading dense low AR patterns. Only the aim part carries over between objects.
type ReadingLowAR struct {
	*Skill

	hidden bool

	currentDensityAimStrain float64
}

func NewReadingLowAR(d *difficulty.Difficulty, stepCalc bool) *ReadingLowAR {
	skill := &ReadingLowAR{
		Skill:  NewSkill(d, stepCalc),
		hidden: d.CheckModActive(difficulty.Hidden),
	}

	skill.ReducedSectionCount = 5
	skill.ReducedStrainBaseline = 0.7

	skill.StrainValueOf = skill.lowARStrainValue
	skill.CalculateInitialStrain = skill.lowARInitialStrain

	return skill
}

func (skill *ReadingLowAR) lowARStrainValue(current *preprocessing.DifficultyObject) float64 {
	densityReadingDifficulty := evaluators.EvaluateReadingLowARDifficultyOf(current, skill.hidden)
	densityAimingFactor := evaluators.EvaluateAimingDensityFactorOf(current, skill.hidden)

	skill.currentDensityAimStrain *= strainDecay(readingLowARStrainDecayBase, current.DeltaTime)
	skill.currentDensityAimStrain += densityAimingFactor * evaluators.EvaluateAim(current, true) * readingLowARAimComponentMultiplier

	return (skill.currentDensityAimStrain + densityReadingDifficulty) * readingLowARSkillMultiplier
}

func (skill *ReadingLowAR) lowARInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return decayToTime(skill.currentDensityAimStrain, readingLowARStrainDecayBase, time, current) * readingLowARSkillMultiplier
}
