package evaluators

import (
	"math"
	"sort"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	reading_window_size float64 = 3000
	overlap_multiplier  float64 = 1

	preempt_balancing_factor float64 = 160000
	high_ar_preempt_start    float64 = 475
)

func EvaluateReadingLowARDifficultyOf(current *preprocessing.DifficultyObject, hidden bool) float64 {
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	density := max(1, EvaluateDensityOf(current, hidden, true, true, 1.0))
	difficulty := math.Pow(4*math.Log(density), 2.5)

	overlapBonus := EvaluateOverlapDifficultyOf(current) * difficulty
	difficulty += overlapBonus

	return difficulty
}

func EvaluateHiddenDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	density := EvaluateDensityOf(current, true, false, false, 1.0)
	preempt := current.Preempt / 1000

	densityFactor := math.Pow(density/6.2, 1.5)

	var invisibilityFactor float64

	// AR11+DT and faster = 0 HD pp unless density is big
	if preempt < 0.2 {
		invisibilityFactor = 0
	} else {
		// Else accelerating growth until around ART0, then linear,
		// and starting from AR5 is 3 times faster again to buff AR0 +HD
		invisibilityFactor = min(math.Pow(preempt*2.4-0.2, 5), max(preempt, preempt*3-2.4))
	}

	hdDifficulty := invisibilityFactor + densityFactor

	// Scale by unpredictability slightly, max multiplier is 1.06
	hdDifficulty *= 0.96 + 0.1*EvaluateInpredictabilityOf(current)

	return hdDifficulty
}

// EvaluateHighARDifficultyOf rates having too little time to read the current object
func EvaluateHighARDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	// Only allow velocity to buff
	velocity := max(1, current.MinimumJumpDistance/current.StrainTime)

	preemptDifficulty := 0.0
	if current.Preempt < high_ar_preempt_start {
		preemptDifficulty = math.Pow(high_ar_preempt_start-current.Preempt, 2.4) / preempt_balancing_factor
	}

	return preemptDifficulty * getConstantAngleNerfFactor(current) * velocity
}

// getConstantAngleNerfFactor drops towards 0 the more often the current angle was repeated in the last 2 seconds
func getConstantAngleNerfFactor(current *preprocessing.DifficultyObject) float64 {
	const timeLimit = 2000.0
	const timeLimitLow = 200.0

	constantAngleCount := 0.0
	currentTimeGap := 0.0

	for i := 0; currentTimeGap < timeLimit; i++ {
		loopObj := current.Previous(i)
		if loopObj == nil {
			break
		}

		// Account less for objects that are close to the time limit
		longIntervalFactor := mutils.Clamp(1-(loopObj.StrainTime-timeLimitLow)/(timeLimit-timeLimitLow), 0, 1)

		if !math.IsNaN(loopObj.Angle) && !math.IsNaN(current.Angle) {
			angleDifference := math.Abs(current.Angle - loopObj.Angle)
			constantAngleCount += math.Cos(3*min(math.Pi/6, angleDifference)) * longIntervalFactor
		}

		currentTimeGap = current.StartTime - loopObj.StartTime
	}

	if constantAngleCount <= 0 {
		return 1
	}

	return min(1, 2/constantAngleCount)
}

func EvaluateDensityOf(current *preprocessing.DifficultyObject, hidden, applyDistanceNerf, applySliderbodyDensity bool, angleNerfMultiplier float64) float64 {
	density := 0.0
	densityAnglesNerf := -2.0

	prevObj0 := current

	readingObjects := current.ReadingObjects
	for i := 0; i < len(readingObjects); i++ {
		loopObj := readingObjects[i].HitObject

		if loopObj.Index < 1 {
			continue // Don't look at the first object of the map
		}

		loopDifficulty := current.OpacityAt(loopObj.StartTime, hidden)

		if applyDistanceNerf {
			loopDifficulty *= (mutils.Logistic(loopObj.MinimumJumpDistance, 80, 0.1, 1) + 0.2) / 1.2
		}

		if applySliderbodyDensity && current.IsSlider {
			sliderBodyLength := max(1, current.SliderLength/current.Radius)
			sliderBodyLength = min(sliderBodyLength, 1+current.LazyTravelDistance/8)
			sliderBodyBuff := math.Log10(sliderBodyLength)

			maxBuff := 0.5
			if i > 0 {
				maxBuff += 1
			}

			if i < len(readingObjects)-1 {
				maxBuff += 1
			}

			loopDifficulty *= 1 + 1.5*min(sliderBodyBuff, maxBuff)
		}

		timeBetweenCurrAndLoopObj := current.StartTime - loopObj.StartTime
		loopDifficulty *= getTimeNerfFactor(timeBetweenCurrAndLoopObj)

		if loopObj.StrainTime > prevObj0.StrainTime {
			rhythmSimilarity := 1 - getRhythmDifference(loopObj.StrainTime, prevObj0.StrainTime)
			rhythmSimilarity = mutils.Clamp(rhythmSimilarity, 0.5, 0.75)
			rhythmSimilarity = 4 * (rhythmSimilarity - 0.5)
			loopDifficulty *= rhythmSimilarity
		}

		density += loopDifficulty

		angleNerf := (loopObj.AnglePredictability / 2) + 0.5
		densityAnglesNerf += angleNerf * loopDifficulty * angleNerfMultiplier

		prevObj0 = loopObj
	}

	density -= max(0, densityAnglesNerf)
	return density
}

func EvaluateOverlapDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	if len(current.ReadingObjects) == 0 {
		return 0
	}

	var overlapDifficulties []preprocessing.ReadingObject

	targetStartTime := current.StartTime - current.Preempt

	// Find initial overlap values
	for _, readingObject := range current.ReadingObjects {
		loopObj := readingObject.HitObject

		if len(loopObj.ReadingObjects) == 0 {
			continue
		}

		overlapness := boundBinarySearch(loopObj.ReadingObjects, targetStartTime)

		if overlapness > 0 {
			overlapDifficulties = append(overlapDifficulties, preprocessing.ReadingObject{HitObject: loopObj, Overlapness: overlapness})
		}
	}

	if len(overlapDifficulties) == 0 {
		return 0
	}

	sort.SliceStable(overlapDifficulties, func(i, j int) bool {
		return overlapDifficulties[i].Overlapness > overlapDifficulties[j].Overlapness
	})

	// Nerf overlap values of easier notes that are in the same place as hard notes
	for i := 0; i < len(overlapDifficulties); i++ {
		harderObject := overlapDifficulties[i].HitObject

		for j := i + 1; j < len(overlapDifficulties); j++ {
			easierObject := overlapDifficulties[j].HitObject

			var overlapValue float64

			if harderObject.Index > easierObject.Index {
				overlapValue = harderObject.OverlapValues[easierObject.Index]
			} else {
				overlapValue = easierObject.OverlapValues[harderObject.Index]
			}

			overlapDifficulties[j].Overlapness *= math.Pow(1-overlapValue, 2)
		}
	}

	const decayWeight = 0.5
	const threshold = 0.6

	screenOverlapDifficulty := 0.0
	weight := 1.0

	for _, diffObject := range overlapDifficulties {
		if diffObject.Overlapness > threshold {
			screenOverlapDifficulty += (diffObject.Overlapness - threshold) * weight
			weight *= decayWeight
		}
	}

	return overlap_multiplier * max(0, screenOverlapDifficulty)
}

func EvaluateAimingDensityFactorOf(current *preprocessing.DifficultyObject, hidden bool) float64 {
	difficulty := EvaluateDensityOf(current, hidden, true, false, 0.5)

	return max(0, math.Pow(difficulty, 1.37)-1)
}

func EvaluateInpredictabilityOf(current *preprocessing.DifficultyObject) float64 {
	// Weights of the velocity, angle and rhythm parts
	const velocityChangePart = 0.8
	const angleChangePart = 0.1
	const rhythmChangePart = 0.1

	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	last := current.Previous(0)
	if last.IsSpinner {
		return 0
	}

	rhythmSimilarity := 1 - getRhythmDifference(current.StrainTime, last.StrainTime)
	rhythmSimilarity = mutils.Clamp(rhythmSimilarity, 0.5, 0.75)
	rhythmSimilarity = 4 * (rhythmSimilarity - 0.5)

	velocityChangeBonus := getVelocityChangeFactor(current, last) * rhythmSimilarity

	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := last.LazyJumpDistance / last.StrainTime

	angleChangeBonus := 0.0
	if !math.IsNaN(current.Angle) && !math.IsNaN(last.Angle) && currVelocity > 0 && prevVelocity > 0 {
		angleChangeBonus = 1 - current.AnglePredictability
		angleChangeBonus *= min(currVelocity, prevVelocity) / max(currVelocity, prevVelocity) // Prevent cheesing
	}

	angleChangeBonus *= rhythmSimilarity

	rhythmChangeBonus := 0.0
	if current.Index > 1 {
		lastLast := current.Previous(1)

		currDelta := current.StrainTime
		lastDelta := last.StrainTime

		// Time spent holding a slider is not part of the rhythm
		if last.IsSlider {
			currDelta = max(0, currDelta-last.Duration)
		}

		if lastLast.IsSlider {
			lastDelta = max(0, lastDelta-lastLast.Duration)
		}

		rhythmChangeBonus = getRhythmDifference(currDelta, lastDelta)
	}

	return velocityChangePart*velocityChangeBonus + angleChangePart*angleChangeBonus + rhythmChangePart*rhythmChangeBonus
}

func getVelocityChangeFactor(current, last *preprocessing.DifficultyObject) float64 {
	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := last.LazyJumpDistance / last.StrainTime

	if currVelocity <= 0 && prevVelocity <= 0 {
		return 0
	}

	velocityChange := max(0, min(
		math.Abs(prevVelocity-currVelocity)-0.5*min(currVelocity, prevVelocity),
		max(current.Radius/max(current.StrainTime, last.StrainTime), min(currVelocity, prevVelocity)),
	))

	// max is 0.4
	return velocityChange / max(currVelocity, prevVelocity) / 0.4
}

func getTimeNerfFactor(deltaTime float64) float64 {
	return mutils.Clamp(2.0-deltaTime/(reading_window_size/2), 0.0, 1.0)
}

// boundBinarySearch finds the overlapness of the oldest reading object still at or after target.
// Reading objects are ordered from newest to oldest.
func boundBinarySearch(arr []preprocessing.ReadingObject, target float64) float64 {
	low := 0
	high := len(arr)
	result := -1

	for low < high {
		mid := low + (high-low)/2

		if arr[mid].HitObject.StartTime >= target {
			result = mid
			low = mid + 1
		} else {
			high = mid
		}
	}

	if result == -1 {
		return 0
	}

	return arr[result].Overlapness
}
