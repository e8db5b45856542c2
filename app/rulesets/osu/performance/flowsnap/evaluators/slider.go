package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/go-gl/mathgl/mgl64"
)

// EvaluateSliderStrain rates following the previous slider through its sub-movements.
// decayBase is the decay of the calling skill so the slider strain fades the same way.
func EvaluateSliderStrain(current *preprocessing.DifficultyObject, decayBase float64) float64 {
	subObjects := current.SliderSubObjects
	if len(subObjects) == 0 {
		return 0
	}

	sliderRadius := 2.4 * current.Radius
	linearDifficulty := 32.0 / current.Radius

	var historyVector mgl64.Vec2
	historyTime := 0.0
	historyDistance := 0.0

	currentStrain := 0.0

	for i, subObject := range subObjects {
		noteStrain := 0.0

		if i == 0 && len(subObjects) > 1 {
			noteStrain = linearDifficulty * subObject.Movement.Len() / subObject.StrainTime
		}

		historyVector = historyVector.Add(subObject.Movement)
		historyTime += subObject.StrainTime
		historyDistance += subObject.Movement.Len()

		// Left the follow circle, the accumulated movement has to be aimed
		if historyVector.Len() > sliderRadius*2 {
			noteStrain += linearDifficulty * historyDistance / historyTime

			historyVector = mgl64.Vec2{}
			historyTime = 0
			historyDistance = 0
		}

		currentStrain *= math.Pow(decayBase, subObject.StrainTime/1000)
		currentStrain += noteStrain
	}

	if historyTime > 0 {
		if len(subObjects) > 1 {
			currentStrain += linearDifficulty * historyVector.Len() / historyTime
		} else {
			currentStrain += linearDifficulty * max(0, historyVector.Len()-2*current.Radius) / historyTime
		}
	}

	return currentStrain
}
