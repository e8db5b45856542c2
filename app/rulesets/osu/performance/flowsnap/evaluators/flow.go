package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	flowMultiplier              = 0.15
	flowDistanceExponent        = 1.7
	flowEdgeMultiplier          = 0.12
	flowEdgeDistanceExponent    = 1.8
	flowTimeMultiplier          = 1.2
	flowConsistencyMultiplier   = 0.25
	flowRhythmTolerance         = 25.0
	flowDistanceHistory         = 16
	flowDistanceDifferenceScale = 30.0
)

// EvaluateFlowAim rates the current movement as part of one continuous cursor path
func EvaluateFlowAim(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner || current.Index <= 1 || current.PrevIsSpinner {
		return 0
	}

	prev := current.Previous(0)
	next := current.Next(0)

	if prev == nil || next == nil {
		return math.Pow(current.LazyJumpDistance, flowEdgeDistanceExponent) / current.StrainTime * flowEdgeMultiplier
	}

	difficulty := math.Pow(current.LazyJumpDistance, flowDistanceExponent) * flowMultiplier

	adjustedDistanceScale := 1.0

	steadyRhythm := math.Abs(current.DeltaTime-prev.DeltaTime) < flowRhythmTolerance &&
		math.Abs(next.DeltaTime-current.DeltaTime) < flowRhythmTolerance

	if !math.IsNaN(current.Angle) && !math.IsNaN(prev.Angle) && steadyRhythm {
		angleDifferenceAdjusted := math.Sin(directionChange(current, prev)/2) * 180
		angularVelocity := angleDifferenceAdjusted / (0.1 * current.StrainTime)
		angularVelocityBonus := max(0, 1.5*math.Log10(angularVelocity))

		distanceDifference := averageDistanceDifference(current)
		distanceDifferenceScaling := max(0, 1-distanceDifference/flowDistanceDifferenceScale)

		adjustedDistanceScale = min(1, 0.6+distanceDifference/flowDistanceDifferenceScale) + angularVelocityBonus*distanceDifferenceScaling
	}

	difficulty *= adjustedDistanceScale
	difficulty *= current.SmallCircleBonus
	difficulty = difficulty / current.StrainTime * flowTimeMultiplier

	// Holding the same speed through a pattern is what makes it flow
	if steadyRhythm {
		currVelocity := current.LazyJumpDistance / current.StrainTime
		prevVelocity := prev.LazyJumpDistance / prev.StrainTime

		difficulty += min(currVelocity, prevVelocity) * flowConsistencyMultiplier
	}

	return difficulty
}

// directionChange is the change of the turning direction, close to 0 for straight lines
func directionChange(current, prev *preprocessing.DifficultyObject) float64 {
	if math.IsNaN(current.AngleSigned) || math.IsNaN(prev.AngleSigned) {
		return 0
	}

	angleDifference := math.Abs(current.AngleSigned - prev.AngleSigned)

	// Straight lines can be aimed without turning at all
	angleDifference *= mutils.Smootherstep(current.Angle, math.Pi, math.Pi/2)

	return angleDifference
}

// averageDistanceDifference looks at how much the spacing of earlier objects varied on the same rhythm
func averageDistanceDifference(current *preprocessing.DifficultyObject) float64 {
	total := 0.0
	count := 0

	for i := 0; i < flowDistanceHistory; i++ {
		obj := current.Previous(i)
		objPrev := current.Previous(i + 1)

		if obj == nil || objPrev == nil {
			break
		}

		if math.Abs(obj.DeltaTime-objPrev.DeltaTime) > flowRhythmTolerance {
			break
		}

		total += math.Abs(obj.MinimumJumpDistance - objPrev.MinimumJumpDistance)
		count++
	}

	if count == 0 {
		return 0
	}

	return total / float64(count)
}
