package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	SingleSpacingThreshold = 125.0
	minSpeedBonus          = 75.0 // ~200BPM
	speedBalancingFactor   = 40.0
	distanceMultiplier     = 1.1
)

func EvaluateSpeed(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	prev := current.Previous(0)

	strainTime := current.StrainTime

	// Nerf doubletappable doubles
	doubletapness := 1 - current.GetDoubletapness(current.Next(0))

	// Cap deltatime to the OD 300 hitwindow.
	// 0.93 is derived from making sure 260bpm OD8 streams aren't nerfed harshly, whilst 0.92 limits the effect of the cap.
	strainTime /= mutils.Clamp((strainTime/current.GreatWindow)/0.93, 0.92, 1)

	speedBonus := 1.0

	if strainTime < minSpeedBonus {
		speedBonus = 1 + 0.7*math.Pow((minSpeedBonus-strainTime)/speedBalancingFactor, 2)
	}

	travelDistance := 0.0
	if prev != nil {
		travelDistance = prev.TravelDistance
	}

	distance := travelDistance + current.MinimumJumpDistance
	distanceBonus := distanceMultiplier * min(1, math.Pow(distance/SingleSpacingThreshold, 3.5))

	adjustedDistanceScale := 1.0

	if prev != nil && !math.IsNaN(current.Angle) && !math.IsNaN(prev.Angle) && current.Angle != prev.Angle {
		angleDifference := math.Abs(current.Angle-prev.Angle) * 180 / math.Pi
		angleDifferenceAdjusted := math.Sin(math.Pi*angleDifference/360) * 180
		angularVelocity := angleDifferenceAdjusted / (0.1 * strainTime)
		angularVelocityBonus := max(0, math.Pow(angularVelocity, 0.4)-1)

		adjustedDistanceScale = 0.65 + angularVelocityBonus*0.45
	}

	return (speedBonus + distanceBonus*adjustedDistanceScale) * doubletapness / strainTime
}
