package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	snapWideAngleMultiplier      = 474530.0
	snapAcuteAngleMultiplier     = 0.5
	snapVelocityChangeMultiplier = 1.0

	// part of every interval spent reacting rather than moving
	snapReactionOffset = 20.0
	snapMinTime        = preprocessing.MinDeltaTime
)

// EvaluateSnapAim rates the current movement as an isolated correction from the previous object
func EvaluateSnapAim(current *preprocessing.DifficultyObject, withSliders bool) float64 {
	if current.IsSpinner || current.Index <= 1 || current.PrevIsSpinner {
		return 0
	}

	prev := current.Previous(0)

	difficulty := snapDistanceBonus(current, prev, withSliders)
	difficulty += snapWideAngleBonus(current, prev) * snapWideAngleMultiplier
	difficulty += snapAcuteAngleBonus(current, prev) * snapAcuteAngleMultiplier
	difficulty += snapVelocityChangeBonus(current, prev) * snapVelocityChangeMultiplier

	return difficulty
}

func snapDistanceBonus(current, prev *preprocessing.DifficultyObject, withSliders bool) float64 {
	// high bpm jumps leave less time than the raw delta suggests
	snapTime := max(snapMinTime, current.StrainTime-snapReactionOffset)

	distanceBonus := current.LazyJumpDistance / snapTime

	// Extend the slider's travel velocity into the jump that follows it
	if withSliders && current.PrevIsSlider {
		travelVelocity := prev.TravelDistance / prev.TravelTime
		movementVelocity := current.MinimumJumpDistance / current.MinimumJumpTime

		distanceBonus = max(distanceBonus, movementVelocity+travelVelocity)
	}

	return distanceBonus
}

func snapWideAngleBonus(current, prev *preprocessing.DifficultyObject) float64 {
	if math.IsNaN(current.Angle) {
		return 0
	}

	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := prev.LazyJumpDistance / prev.StrainTime

	// Overlapping previous notes make the angle cheesable
	prevDistanceMultiplier := mutils.Smootherstep(prev.LazyJumpDistance/preprocessing.NormalizedRadius, 0, 0.25)

	// Cut streams speed up sharply, they are rewarded by the velocity change bonus instead
	angleBonus := mutils.Smootherstep(current.Angle*180/math.Pi, 0, 180) * min(currVelocity, 1.4*prevVelocity) * prevDistanceMultiplier

	return angleBonus / math.Pow(current.StrainTime, 2.6)
}

func snapAcuteAngleBonus(current, prev *preprocessing.DifficultyObject) float64 {
	if math.IsNaN(current.Angle) || math.IsNaN(prev.Angle) {
		return 0
	}

	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := prev.LazyJumpDistance / prev.StrainTime

	acuteness := mutils.Smootherstep(current.Angle*180/math.Pi, 120, 30)

	// Back-and-forth jumps only feel acute on a steady rhythm
	acuteness *= rhythmRatio(current.StrainTime, prev.StrainTime)

	return acuteness * min(currVelocity, prevVelocity)
}

func snapVelocityChangeBonus(current, prev *preprocessing.DifficultyObject) float64 {
	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := prev.LazyJumpDistance / prev.StrainTime

	if max(currVelocity, prevVelocity) == 0 {
		return 0
	}

	increase := max(0, currVelocity-prevVelocity)

	// Scale with ratio of the increase compared to the faster movement
	distRatio := math.Pow(math.Sin(math.Pi/2*increase/max(currVelocity, prevVelocity)), 2)

	// Overlaps still count while the velocity is changing, up to 1.25 diameters per strain time
	overlapVelocityBuff := min(2*preprocessing.NormalizedRadius*1.25/min(current.StrainTime, prev.StrainTime), increase)

	bonus := overlapVelocityBuff * distRatio

	// Penalize rhythm changes
	bonus *= math.Pow(min(current.StrainTime, prev.StrainTime)/max(current.StrainTime, prev.StrainTime), 2)

	return bonus
}
