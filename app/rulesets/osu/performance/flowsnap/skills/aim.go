package skills

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/evaluators"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	aimSkillMultiplier float64 = 25.18

	snapStrainDecayBase float64 = 0.15
	flowStrainDecayBase float64 = 0.25

	// Relative margin the other model has to win by before the dominant model changes
	aimModelHysteresis = 0.05

	// Switching between snapping and flowing is harder than staying in either
	aimTransitionBonus = 1.15
)

// AimSkill keeps a snap and a flow strain side by side and rates every object with whichever is easier
type AimSkill struct {
	*Skill

	Snap *StrainSkill
	Flow *StrainSkill

	withSliders  bool
	flowDominant bool

	sliderStrains []float64
}

func NewAimSkill(d *difficulty.Difficulty, withSliders, stepCalc bool) *AimSkill {
	skill := &AimSkill{Skill: NewSkill(d, stepCalc), withSliders: withSliders}

	skill.Snap = newStrainSkill(d, false, snapStrainDecayBase, aimSkillMultiplier, skill.snapValue)
	skill.Flow = newStrainSkill(d, false, flowStrainDecayBase, aimSkillMultiplier, skill.flowValue)

	for _, s := range []*Skill{skill.Skill, skill.Snap.Skill, skill.Flow.Skill} {
		s.ReducedSectionCount = 10
		s.ReducedStrainBaseline = 0.75
	}

	skill.StrainValueOf = skill.aimStrainValue
	skill.CalculateInitialStrain = skill.aimInitialStrain

	return skill
}

func (skill *AimSkill) snapValue(current *preprocessing.DifficultyObject) float64 {
	value := evaluators.EvaluateSnapAim(current, skill.withSliders)

	if skill.withSliders {
		value += evaluators.EvaluateSliderStrain(current, snapStrainDecayBase)
	}

	return value
}

func (skill *AimSkill) flowValue(current *preprocessing.DifficultyObject) float64 {
	value := evaluators.EvaluateFlowAim(current)

	if skill.withSliders {
		value += evaluators.EvaluateSliderStrain(current, flowStrainDecayBase)
	}

	return value
}

func (skill *AimSkill) aimInitialStrain(time float64, _ *preprocessing.DifficultyObject) float64 {
	return skill.CurrentStrainAt(time)
}

func (skill *AimSkill) aimStrainValue(current *preprocessing.DifficultyObject) float64 {
	skill.Snap.Process(current)
	skill.Flow.Process(current)

	snap, flow := skill.Snap.CurrentStrain, skill.Flow.CurrentStrain

	flowDominant := dominantModel(skill.flowDominant, snap, flow)
	switched := flowDominant != skill.flowDominant
	skill.flowDominant = flowDominant

	strain := evaluators.BlendAim(snap, flow)

	if switched {
		strain *= aimTransitionBonus
	}

	if current.IsSlider {
		skill.sliderStrains = append(skill.sliderStrains, strain)
	}

	return strain
}

// dominantModel returns whether flow is the easier model. The other model has to be easier by the hysteresis margin to take over.
func dominantModel(flowDominant bool, snap, flow float64) bool {
	if flowDominant {
		return snap >= flow*(1-aimModelHysteresis)
	}

	return flow < snap*(1-aimModelHysteresis)
}

// CurrentStrainAt blends both strains decayed to the given time
func (skill *AimSkill) CurrentStrainAt(time float64) float64 {
	return evaluators.BlendAim(skill.Snap.CurrentStrainAt(time), skill.Flow.CurrentStrainAt(time))
}

// GetDifficultSliders estimates how many sliders are hard to hold compared to the hardest aim section
func (skill *AimSkill) GetDifficultSliders() float64 {
	if len(skill.sliderStrains) == 0 {
		return 0
	}

	maxStrain := 0.0
	for _, s := range skill.sliderStrains {
		maxStrain = max(maxStrain, s)
	}

	if maxStrain == 0 {
		return 0
	}

	count := 0.0
	for _, s := range skill.sliderStrains {
		count += mutils.Logistic(s/maxStrain, 0.5, 12, 1)
	}

	return count
}
