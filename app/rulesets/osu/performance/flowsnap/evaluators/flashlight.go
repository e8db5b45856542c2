package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	maxOpacityBonus            = 0.4
	hiddenBonus                = 0.2
	minVelocity                = 0.5
	flashlightSliderMultiplier = 1.3
	minAngleMultiplier         = 0.2
	flashlightHistory          = 10
)

// EvaluateFlashlight rates memorising the current object from the objects shortly before it
func EvaluateFlashlight(current *preprocessing.DifficultyObject, hidden bool) float64 {
	if current.IsSpinner {
		return 0
	}

	scalingFactor := 52.0 / current.Radius
	smallDistNerf := 1.0
	cumulativeStrainTime := 0.0

	result := 0.0

	last := current

	angleRepeatCount := 0.0

	for i := 0; i < min(current.Index, flashlightHistory); i++ {
		loopObj := current.Previous(i)

		cumulativeStrainTime += last.StrainTime

		if !loopObj.IsSpinner {
			jumpDistance := current.Position.Sub(loopObj.EndPosition).Len()

			// We want to nerf objects that can be easily seen within the Flashlight circle radius.
			if i == 0 {
				smallDistNerf = min(1.0, jumpDistance/75.0)
			}

			// We also want to nerf stacks so that only the first object of the stack is accounted for.
			stackNerf := min(1.0, (loopObj.LazyJumpDistance/scalingFactor)/25.0)

			// Bonus based on how visible the object is.
			opacityBonus := 1.0 + maxOpacityBonus*(1.0-current.OpacityAt(loopObj.StartTime, hidden))

			result += stackNerf * opacityBonus * scalingFactor * jumpDistance / cumulativeStrainTime

			if !math.IsNaN(loopObj.Angle) && !math.IsNaN(current.Angle) {
				// Objects further back in time should count less for the nerf.
				if math.Abs(loopObj.Angle-current.Angle) < 0.02 {
					angleRepeatCount += max(1.0-0.1*float64(i), 0.0)
				}
			}
		}

		last = loopObj
	}

	result = math.Pow(smallDistNerf*result, 2.0)

	// Additional bonus for Hidden due to there being no approach circles.
	if hidden {
		result *= 1.0 + hiddenBonus
	}

	// Nerf patterns with repeated angles.
	result *= minAngleMultiplier + (1.0-minAngleMultiplier)/(angleRepeatCount+1.0)

	sliderBonus := 0.0

	if current.IsSlider && current.TravelTime > 0 {
		// Invert the scaling factor to determine the true travel distance independent of circle size.
		pixelTravelDistance := current.LazyTravelDistance / scalingFactor

		// Reward sliders based on velocity.
		sliderBonus = math.Pow(max(0.0, pixelTravelDistance/current.TravelTime-minVelocity), 0.5)

		// Longer sliders require more memorisation.
		sliderBonus *= pixelTravelDistance

		// Nerf sliders with repeats, as less memorisation is required.
		if current.RepeatCount > 1 {
			sliderBonus /= float64(current.RepeatCount)
		}
	}

	result += sliderBonus * flashlightSliderMultiplier

	return result
}
