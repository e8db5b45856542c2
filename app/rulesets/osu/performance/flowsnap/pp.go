package flowsnap

import (
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/skills"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.15
)

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// PPv2 : structure to store ppv2 values
type PPv2 struct {
	attribs api.Attributes

	scoreMaxCombo      int
	countGreat         int
	countOk            int
	countMeh           int
	countMiss          int
	effectiveMissCount float64

	diff *difficulty.Difficulty

	totalHits                    int
	accuracy                     float64
	amountHitObjectsWithAccuracy int

	deviation  float64
	hitWindows HitWindows
}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.Attributes, score api.Score, diff *difficulty.Difficulty) api.PerformanceAttributes {
	attribs.MaxCombo = max(1, attribs.MaxCombo)

	if score.MaxCombo < 0 {
		score.MaxCombo = attribs.MaxCombo
	}

	score.CountOk = max(0, score.CountOk)
	score.CountMeh = max(0, score.CountMeh)
	score.CountMiss = max(0, score.CountMiss)

	if score.CountGreat < 0 {
		score.CountGreat = max(0, attribs.ObjectCount-score.CountOk-score.CountMeh-score.CountMiss)
	}

	pp.attribs = attribs
	pp.diff = diff
	pp.totalHits = score.CountGreat + score.CountOk + score.CountMeh + score.CountMiss
	pp.scoreMaxCombo = score.MaxCombo
	pp.countGreat = score.CountGreat
	pp.countOk = score.CountOk
	pp.countMeh = score.CountMeh
	pp.countMiss = score.CountMiss
	pp.accuracy = score.Accuracy

	if pp.totalHits == 0 {
		return api.PerformanceAttributes{Deviation: math.Inf(1)}
	}

	if pp.accuracy < 0 {
		pp.accuracy = float64(pp.countGreat*300+pp.countOk*100+pp.countMeh*50) / float64(pp.totalHits*300)
	}

	pp.effectiveMissCount = pp.calculateEffectiveMissCount()

	if diff.CheckModActive(difficulty.ScoreV2 | difficulty.Lazer) {
		pp.amountHitObjectsWithAccuracy = attribs.Circles + attribs.Sliders
	} else {
		pp.amountHitObjectsWithAccuracy = attribs.Circles
	}

	w300, w100, w50 := difficulty.HitWindows(attribs.OverallDifficulty)
	pp.hitWindows = HitWindows{Great: w300, Ok: w100, Meh: w50}
	pp.deviation = EstimateDeviation(pp.accuracyHitCounts(), pp.hitWindows)

	// total pp

	multiplier := PerformanceBaseMultiplier

	if diff.Mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*pp.effectiveMissCount)
	}

	if diff.Mods.Active(difficulty.SpunOut) {
		multiplier *= 1.0 - math.Pow(float64(attribs.Spinners)/float64(pp.totalHits), 0.85)
	}

	if diff.Mods.Active(difficulty.Relax) {
		okMultiplier := 1.0
		mehMultiplier := 1.0

		if attribs.OverallDifficulty > 0.0 {
			okMultiplier = max(0.0, 1-math.Pow(attribs.OverallDifficulty/13.33, 1.8))
			mehMultiplier = max(0.0, 1-math.Pow(attribs.OverallDifficulty/13.33, 5))
		}

		pp.effectiveMissCount = min(pp.effectiveMissCount+float64(pp.countOk)*okMultiplier+float64(pp.countMeh)*mehMultiplier, float64(pp.totalHits))
	}

	result := pp.calculatePPv2Results()
	result.EffectiveMissCount = pp.effectiveMissCount
	result.Deviation = pp.deviation

	// The balance multiplier is taken from the same play without any misses
	pp.effectiveMissCount = 0
	pp.countMiss = 0
	pp.scoreMaxCombo = pp.attribs.MaxCombo
	multiplier *= pp.calculateBalanceAdjustingMultiplier()

	result.Total *= multiplier

	return result
}

// accuracyHitCounts assumes every non-great judgement landed on an object with timing judged
func (pp *PPv2) accuracyHitCounts() HitCounts {
	greats := pp.countGreat

	if pp.amountHitObjectsWithAccuracy > 0 {
		greats = max(0, pp.countGreat-(pp.totalHits-pp.amountHitObjectsWithAccuracy))
	}

	return HitCounts{
		Great: float64(greats),
		Ok:    float64(pp.countOk),
		Meh:   float64(pp.countMeh),
		Miss:  float64(pp.countMiss),
	}
}

func (pp *PPv2) calculatePPv2Results() api.PerformanceAttributes {
	aimValue := pp.computeAimValue()
	speedValue := pp.computeSpeedValue()
	rhythmValue := pp.computeRhythmValue()

	lowARValue := pp.computeLowARValue()
	highARValue := pp.computeHighARValue()

	potentialFlashlightValue := pp.computeFlashlightValue()
	hiddenValue := pp.computeHiddenValue()

	flashlightValue := 0.0
	if pp.diff.Mods.Active(difficulty.Flashlight) {
		flashlightValue = potentialFlashlightValue
	}

	ARValue := mutils.PowerSum(1.1, lowARValue, highARValue)
	flashlightARValue := mutils.PowerSum(1.5, ARValue, flashlightValue)

	cognitionValue := flashlightARValue + hiddenValue
	mechanicalValue := mutils.PowerSum(1.1, aimValue, speedValue, rhythmValue)

	cognitionValue = AdjustCognitionPerformance(cognitionValue, mechanicalValue, potentialFlashlightValue)
	accValue := pp.computeAccuracyValue()
	totalValue := cognitionValue + mutils.PowerSum(1.1, mechanicalValue, accValue)

	visualReadingValue := AdjustCognitionPerformance(ARValue+hiddenValue, mechanicalValue, flashlightValue)
	visualFlashlightValue := cognitionValue - visualReadingValue

	return api.PerformanceAttributes{
		Aim:        aimValue,
		Speed:      speedValue,
		Rhythm:     rhythmValue,
		Acc:        accValue,
		Flashlight: visualFlashlightValue,
		Reading:    visualReadingValue,
		Total:      totalValue,
	}
}

// Longer maps are worth more
func (pp *PPv2) lengthBonus() float64 {
	lengthBonus := 0.95 + 0.4*min(1.0, float64(pp.totalHits)/2000.0)
	if pp.totalHits > 2000 {
		lengthBonus += math.Log10(float64(pp.totalHits)/2000.0) * 0.5
	}

	return lengthBonus
}

// aimAccuracyScaling is the chance of hitting a great, 1 for an SS
func (pp *PPv2) aimAccuracyScaling() float64 {
	return GreatProbability(pp.deviation, pp.hitWindows.Great)
}

// speedAccuracyScaling looks at the centre of the great window, where streams have to be hit to stay in rhythm
func (pp *PPv2) speedAccuracyScaling() float64 {
	return math.Sqrt(GreatProbability(pp.deviation, pp.hitWindows.Great/2))
}

// sliderNerfFactor assumes every imperfect hit that also broke combo dropped the end of a difficult slider
func (pp *PPv2) sliderNerfFactor() float64 {
	estimateDifficultSliders := pp.attribs.AimDifficultSliderCount
	if pp.attribs.Sliders == 0 || estimateDifficultSliders <= 0 {
		return 1
	}

	estimateSliderEndsDropped := mutils.Clamp(float64(min(pp.countOk+pp.countMeh+pp.countMiss, pp.attribs.MaxCombo-pp.scoreMaxCombo)), 0, estimateDifficultSliders)

	return (1-pp.attribs.SliderFactor)*math.Pow(1-estimateSliderEndsDropped/estimateDifficultSliders, 3) + pp.attribs.SliderFactor
}

// odAimScaling and odSpeedScaling reward harder accuracy settings on top of the deviation scalings
func (pp *PPv2) odAimScaling() float64 {
	return 0.98 + pp.attribs.OverallDifficulty*pp.attribs.OverallDifficulty/2500
}

func (pp *PPv2) odSpeedScaling() float64 {
	return 0.95 + pp.attribs.OverallDifficulty*pp.attribs.OverallDifficulty/750
}

// approachRateFactor buffs very high AR, and also low AR when lowAR is set
func (pp *PPv2) approachRateFactor(lowAR bool) float64 {
	ar := pp.attribs.ApproachRate

	switch {
	case ar > 10.33:
		return 0.3 * (ar - 10.33)
	case lowAR && ar < 8.0:
		return 0.05 * (8.0 - ar)
	}

	return 0
}

// hiddenBonus gives more for lower AR with Hidden
func (pp *PPv2) hiddenBonus() float64 {
	if !pp.diff.Mods.Active(difficulty.Hidden) {
		return 1
	}

	return 1.0 + 0.04*(12.0-pp.attribs.ApproachRate)
}

func (pp *PPv2) missPenalty(difficultStrainCount float64) float64 {
	if pp.effectiveMissCount <= 0 {
		return 1
	}

	return pp.calculateMissPenalty(pp.effectiveMissCount, difficultStrainCount)
}

func (pp *PPv2) computeAimValue() float64 {
	lengthBonus := pp.lengthBonus()

	arFactor := pp.approachRateFactor(true)
	if pp.diff.CheckModActive(difficulty.Relax) {
		arFactor = 0
	}

	return ratingToPerformance(pp.attribs.Aim) *
		lengthBonus *
		pp.getComboScalingFactor() *
		pp.missPenalty(pp.attribs.AimDifficultStrainCount) *
		(1.0 + arFactor*lengthBonus) *
		pp.hiddenBonus() *
		pp.sliderNerfFactor() *
		pp.aimAccuracyScaling() *
		pp.odAimScaling()
}

func (pp *PPv2) computeSpeedValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax) {
		return 0
	}

	lengthBonus := pp.lengthBonus()

	return ratingToPerformance(pp.attribs.Speed) *
		lengthBonus *
		pp.getComboScalingFactor() *
		pp.missPenalty(pp.attribs.SpeedDifficultStrainCount) *
		(1.0 + pp.approachRateFactor(false)*lengthBonus) *
		pp.hiddenBonus() *
		pp.odSpeedScaling() * pp.speedAccuracyScaling() *
		pp.doubletapPenalty()
}

// doubletapPenalty scales with # of 50s to punish doubletapping
func (pp *PPv2) doubletapPenalty() float64 {
	allowed := float64(pp.totalHits) / 500
	if float64(pp.countMeh) < allowed {
		return 1
	}

	return math.Pow(0.99, float64(pp.countMeh)-allowed)
}

func (pp *PPv2) computeRhythmValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax) {
		return 0
	}

	// Rhythm is tapped, so it breaks where speed does
	return ratingToPerformance(pp.attribs.Rhythm) * rhythmPerformanceMultiplier *
		pp.lengthBonus() *
		pp.getComboScalingFactor() *
		pp.missPenalty(pp.attribs.SpeedDifficultStrainCount) *
		pp.speedAccuracyScaling() *
		pp.doubletapPenalty()
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.diff.Mods.Active(difficulty.Relax) || pp.amountHitObjectsWithAccuracy == 0 {
		return 0.0
	}

	value := 2.83 * math.Pow(1.52163, pp.attribs.OverallDifficulty) * math.Pow(pp.aimAccuracyScaling(), 24)

	// Keeping accuracy up over more objects is harder
	value *= min(1.15, math.Pow(float64(pp.amountHitObjectsWithAccuracy)/1000.0, 0.3))

	if pp.diff.Mods.Active(difficulty.Hidden) {
		value *= 1.08
	}

	if pp.diff.Mods.Active(difficulty.Flashlight) {
		value *= 1.02
	}

	return value
}

func (pp *PPv2) computeFlashlightValue() float64 {
	value := skills.FlashlightDifficultyToPerformance(pp.attribs.Flashlight)

	if pp.effectiveMissCount > 0 {
		missRatio := math.Pow(pp.effectiveMissCount/float64(pp.totalHits), 0.775)
		value *= 0.97 * math.Pow(1-missRatio, math.Pow(pp.effectiveMissCount, 0.875))
	}

	value *= pp.getComboScalingFactor()

	// Short maps spend a larger share of their time at a small flashlight radius
	hits := float64(pp.totalHits)
	lengthScale := 0.7 + 0.1*min(1.0, hits/200.0)
	if hits > 200 {
		lengthScale += 0.2 * min(1.0, (hits-200)/200.0)
	}

	return value * lengthScale * (0.5 + pp.accuracy/2.0) * pp.odAimScaling()
}

func (pp *PPv2) computeLowARValue() float64 {
	return skills.LowARDifficultyToPerformance(pp.attribs.ReadingDifficultyLowAR) *
		pp.missPenalty(pp.attribs.LowArDifficultStrainCount) *
		math.Pow(pp.aimAccuracyScaling(), 2) *
		math.Pow(pp.odAimScaling(), 2)
}

// computeHighARValue splits high AR difficulty into aim and tapping parts by their performance share
func (pp *PPv2) computeHighARValue() float64 {
	value := ratingToPerformance(pp.attribs.ReadingDifficultyHighAR)
	if value == 0 {
		return 0
	}

	aimPerformance := ratingToPerformance(pp.attribs.Aim)
	speedPerformance := ratingToPerformance(pp.attribs.Speed)

	aimShare := 1.0
	if aimPerformance+speedPerformance > 0 {
		aimShare = aimPerformance / (aimPerformance + speedPerformance)
	}

	aimPart := value * aimShare * pp.sliderNerfFactor() * pp.aimAccuracyScaling() * pp.odAimScaling()
	speedPart := value * (1 - aimShare) * pp.odSpeedScaling() * pp.speedAccuracyScaling() * pp.doubletapPenalty()

	return aimPart + speedPart
}

func (pp *PPv2) computeHiddenValue() float64 {
	if !pp.diff.CheckModActive(difficulty.Hidden) {
		return 0
	}

	return skills.HiddenDifficultyToPerformance(pp.attribs.HiddenDifficulty) *
		pp.lengthBonus() *
		pp.missPenalty(pp.attribs.HiddenDifficultStrainCount) *
		math.Pow(pp.aimAccuracyScaling(), 2) *
		pp.odAimScaling()
}

func (pp *PPv2) calculateEffectiveMissCount() float64 {
	// guess the number of misses + slider breaks from combo
	comboBasedMissCount := 0.0

	if pp.attribs.Sliders > 0 {
		fullComboThreshold := float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
		if float64(pp.scoreMaxCombo) < fullComboThreshold {
			comboBasedMissCount = fullComboThreshold / max(1.0, float64(pp.scoreMaxCombo))
		}
	}

	// Clamp miss count to maximum amount of possible breaks
	comboBasedMissCount = min(comboBasedMissCount, float64(pp.countOk+pp.countMeh+pp.countMiss))

	return max(float64(pp.countMiss), comboBasedMissCount)
}

func (pp *PPv2) calculateMissPenalty(missCount, difficultStrainCount float64) float64 {
	// Fewer than two difficult strains would put the logarithm at or below zero
	return 0.96 / ((missCount / (4 * math.Pow(math.Log(max(2, difficultStrainCount)), 0.94))) + 1)
}

func (pp *PPv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(math.Pow(float64(pp.scoreMaxCombo), 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
}

func AdjustCognitionPerformance(cognitionPerformance, mechanicalPerformance, flashlightPerformance float64) float64 {
	// Assuming that less than 25 pp is not worthy for memory
	capPerformance := mechanicalPerformance + flashlightPerformance + 25

	ratio := cognitionPerformance / capPerformance
	if ratio > 50 {
		return capPerformance
	}

	ratio = softmin(ratio*10, 10, 5) / 10

	return ratio * capPerformance
}

func (pp *PPv2) calculateBalanceAdjustingMultiplier() float64 {
	totalValue := pp.calculatePPv2Results().Total * PerformanceBaseMultiplier

	if totalValue < 600 {
		return 1
	}

	rescaledValue := (totalValue - 600) / 1000
	result := min(0.06*rescaledValue, 0.088*math.Pow(rescaledValue, 0.4))

	return 1 + result
}

// softmin is a function that computes a soft minimum between two values with an optional power argument
func softmin(a, b, power float64) float64 {
	return a * b / math.Log(math.Pow(power, a)+math.Pow(power, b))
}
