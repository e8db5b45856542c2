package flowsnap

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/skills"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// StarScalingFactor is a global stars multiplier
	StarScalingFactor float64 = 0.0668
	CurrentVersion    int     = 20261018

	rhythmPerformanceMultiplier = 0.5
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

type rawValues struct {
	aim, aimNoSliders, snap, flow float64
	speed, rhythm, flashlight     float64
	lowAR, highAR, hidden         float64
}

// ratingToPerformance is the base performance curve, with unrated skills contributing nothing
func ratingToPerformance(rating float64) float64 {
	if rating <= 0 {
		return 0
	}

	return skills.DefaultDifficultyToPerformance(rating)
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(raw rawValues, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	aimRating := math.Sqrt(raw.aim) * StarScalingFactor
	aimRatingNoSliders := math.Sqrt(raw.aimNoSliders) * StarScalingFactor
	snapRating := math.Sqrt(raw.snap) * StarScalingFactor
	flowRating := math.Sqrt(raw.flow) * StarScalingFactor
	speedRating := math.Sqrt(raw.speed) * StarScalingFactor
	rhythmRating := math.Sqrt(raw.rhythm) * StarScalingFactor
	flashlightRating := math.Sqrt(raw.flashlight) * StarScalingFactor

	lowARRating := math.Sqrt(raw.lowAR) * StarScalingFactor
	highARRating := math.Sqrt(raw.highAR) * StarScalingFactor
	hiddenRating := math.Sqrt(raw.hidden) * StarScalingFactor

	sliderFactor := 1.0
	if aimRating > 0.00001 {
		sliderFactor = aimRatingNoSliders / aimRating
	}

	if diff.CheckModActive(difficulty.TouchDevice) {
		aimRating = math.Pow(aimRating, 0.8)
		snapRating = math.Pow(snapRating, 0.8)
		flowRating = math.Pow(flowRating, 0.8)
		flashlightRating = math.Pow(flashlightRating, 0.8)

		lowARRating = math.Pow(lowARRating, 0.8)
		highARRating = math.Pow(highARRating, 0.9)
		hiddenRating = math.Pow(hiddenRating, 0.8)
	}

	if diff.CheckModActive(difficulty.Relax) {
		aimRating *= 0.9
		snapRating *= 0.9
		flowRating *= 0.9
		speedRating = 0
		rhythmRating = 0
		flashlightRating *= 0.7

		lowARRating *= 0.95
		highARRating *= 0.7
		hiddenRating *= 0.7
	}

	baseAimPerformance := ratingToPerformance(aimRating)
	baseSpeedPerformance := ratingToPerformance(speedRating)
	baseRhythmPerformance := ratingToPerformance(rhythmRating) * rhythmPerformanceMultiplier

	baseLowARPerformance := skills.LowARDifficultyToPerformance(lowARRating)
	baseHighARPerformance := ratingToPerformance(highARRating)

	potentialFlashlightPerformance := skills.FlashlightDifficultyToPerformance(flashlightRating)

	baseFlashlightPerformance := 0.0
	baseHiddenPerformance := 0.0

	if diff.CheckModActive(difficulty.Flashlight) {
		baseFlashlightPerformance = potentialFlashlightPerformance
	}

	if diff.CheckModActive(difficulty.Hidden) {
		baseHiddenPerformance = skills.HiddenDifficultyToPerformance(hiddenRating)
	}

	baseARPerformance := mutils.PowerSum(1.1, baseLowARPerformance, baseHighARPerformance)
	baseFlashlightARPerformance := mutils.PowerSum(1.5, baseARPerformance, baseFlashlightPerformance)

	baseCognitionPerformance := baseFlashlightARPerformance + baseHiddenPerformance
	baseMechanicalPerformance := mutils.PowerSum(1.1, baseAimPerformance, baseSpeedPerformance, baseRhythmPerformance)

	baseCognitionPerformance = AdjustCognitionPerformance(baseCognitionPerformance, baseMechanicalPerformance, potentialFlashlightPerformance)
	basePerformance := baseMechanicalPerformance + baseCognitionPerformance

	total := 0.0
	if basePerformance > 0.00001 {
		total = math.Cbrt(PerformanceBaseMultiplier) * 0.027 * (math.Cbrt(100000/math.Pow(2, 1/1.1)*basePerformance) + 4)
	}

	attr.Total = total
	attr.Aim = aimRating
	attr.Snap = snapRating
	attr.Flow = flowRating
	attr.SliderFactor = sliderFactor
	attr.Speed = speedRating
	attr.Rhythm = rhythmRating
	attr.Flashlight = flashlightRating

	attr.ReadingDifficultyLowAR = lowARRating
	attr.ReadingDifficultyHighAR = highARRating
	attr.HiddenDifficulty = hiddenRating

	return attr
}

// Retrieves skill values and converts to Attributes
func (diffCalc *DifficultyCalculator) getStars(skills *SkillsProcessor, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	attr = diffCalc.getStarsFromRawValues(rawValues{
		aim:          skills.Aim.DifficultyValue(),
		aimNoSliders: skills.AimWithoutSliders.DifficultyValue(),
		snap:         skills.Aim.Snap.DifficultyValue(),
		flow:         skills.Aim.Flow.DifficultyValue(),
		speed:        skills.Speed.DifficultyValue(),
		rhythm:       skills.Rhythm.DifficultyValue(),
		flashlight:   skills.Flashlight.DifficultyValue(),
		lowAR:        skills.ReadingLowAR.DifficultyValue(),
		highAR:       skills.ReadingHighAR.DifficultyValue(),
		hidden:       skills.ReadingHidden.DifficultyValue(),
	}, diff, attr)

	attr.SpeedNoteCount = skills.Speed.RelevantNoteCount()
	attr.AimDifficultStrainCount = skills.Aim.CountDifficultStrains()
	attr.AimDifficultSliderCount = skills.Aim.GetDifficultSliders()
	attr.SpeedDifficultStrainCount = skills.Speed.CountDifficultStrains()

	attr.LowArDifficultStrainCount = skills.ReadingLowAR.CountDifficultStrains()
	attr.HiddenDifficultStrainCount = skills.ReadingHidden.CountDifficultStrains()

	return attr
}

func (diffCalc *DifficultyCalculator) newAttributes(diff *difficulty.Difficulty) api.Attributes {
	return api.Attributes{
		ApproachRate:      diff.ARReal,
		OverallDifficulty: diff.ODReal,
		ClockRate:         diff.Speed,
	}
}

func (diffCalc *DifficultyCalculator) addObjectToAttribs(o objects.IHitObject, attr *api.Attributes) {
	switch s := o.(type) {
	case *objects.Slider:
		attr.Sliders++
		attr.MaxCombo += len(s.ScorePoints)
	case *objects.Circle:
		attr.Circles++
	case *objects.Spinner:
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

// CalculateSingle calculates the final difficulty api.Attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(objects []objects.IHitObject, diff *difficulty.Difficulty) api.Attributes {
	attr := diffCalc.newAttributes(diff)

	if len(objects) < 2 {
		for _, o := range objects {
			diffCalc.addObjectToAttribs(o, &attr)
		}

		return attr
	}

	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := NewSkillsProcessor(diff, false, false)

	diffCalc.addObjectToAttribs(objects[0], &attr)

	for i, o := range diffObjects {
		diffCalc.addObjectToAttribs(objects[i+1], &attr)

		skills.Process(o)
	}

	return diffCalc.getStars(skills, diff, attr)
}

// CalculateStep calculates successive star ratings for every part of a beatmap
func (diffCalc *DifficultyCalculator) CalculateStep(objects []objects.IHitObject, diff *difficulty.Difficulty) []api.Attributes {
	if len(objects) == 0 {
		return []api.Attributes{}
	}

	modString := difficulty.GetDiffMaskedMods(diff.Mods).String()
	if modString == "" {
		modString = "NM"
	}

	log.Info().Str("mods", modString).Int("objects", len(objects)).Msg("Calculating step SR")

	startTime := time.Now()

	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := NewSkillsProcessor(diff, true, false)

	stars := make([]api.Attributes, 1, len(objects))
	stars[0] = diffCalc.newAttributes(diff)

	diffCalc.addObjectToAttribs(objects[0], &stars[0])

	for i, o := range diffObjects {
		attr := stars[i]
		diffCalc.addObjectToAttribs(objects[i+1], &attr)

		skills.Process(o)

		stars = append(stars, diffCalc.getStars(skills, diff, attr))
	}

	log.Info().Dur("took", time.Since(startTime).Truncate(time.Millisecond)).Msg("Calculations finished")

	return stars
}

func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(objects []objects.IHitObject, diff *difficulty.Difficulty) api.StrainPeaks {
	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := NewSkillsProcessor(diff, false, true)

	for _, o := range diffObjects {
		skills.Process(o)
	}

	peaks := api.StrainPeaks{
		Aim:           skills.Aim.GetCurrentStrainPeaks(),
		Snap:          skills.Aim.Snap.GetCurrentStrainPeaks(),
		Flow:          skills.Aim.Flow.GetCurrentStrainPeaks(),
		Speed:         skills.Speed.GetCurrentStrainPeaks(),
		Rhythm:        skills.Rhythm.GetCurrentStrainPeaks(),
		Flashlight:    skills.Flashlight.GetCurrentStrainPeaks(),
		ReadingLowAR:  skills.ReadingLowAR.GetCurrentStrainPeaks(),
		ReadingHighAR: skills.ReadingHighAR.GetCurrentStrainPeaks(),
		ReadingHidden: skills.ReadingHidden.GetCurrentStrainPeaks(),
	}

	// Hidden is only processed with the mod, so its peaks can be shorter
	at := func(p []float64, i int) float64 {
		if i < len(p) {
			return p[i]
		}

		return 0
	}

	peaks.Total = make([]float64, len(peaks.Aim))

	for i := range peaks.Aim {
		stars := diffCalc.getStarsFromRawValues(rawValues{
			aim:          peaks.Aim[i],
			aimNoSliders: peaks.Aim[i],
			snap:         at(peaks.Snap, i),
			flow:         at(peaks.Flow, i),
			speed:        at(peaks.Speed, i),
			rhythm:       at(peaks.Rhythm, i),
			flashlight:   at(peaks.Flashlight, i),
			lowAR:        at(peaks.ReadingLowAR, i),
			highAR:       at(peaks.ReadingHighAR, i),
			hidden:       at(peaks.ReadingHidden, i),
		}, diff, api.Attributes{})

		peaks.Total[i] = stars.Total
	}

	return peaks
}

// CalculateBatch runs independent calculations of the same map, one per difficulty, in parallel
func (diffCalc *DifficultyCalculator) CalculateBatch(ctx context.Context, objects []objects.IHitObject, diffs []*difficulty.Difficulty) ([]api.Attributes, error) {
	results := make([]api.Attributes, len(diffs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	startTime := time.Now()

	for i, d := range diffs {
		i, d := i, d

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("calculation %d (%s): %w", i, d.Mods, err)
			}

			results[i] = diffCalc.CalculateSingle(objects, d)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Int("calculations", len(diffs)).Dur("took", time.Since(startTime)).Msg("Batch finished")

	return results, nil
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2026-10-18: flow/snap aim split, rhythm islands, deviation based accuracy"
}
