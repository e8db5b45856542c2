package skills

import (
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	defaultDecayWeight   = 0.9
	DefaultSectionLength = 400.0
)

type Skill struct {
	// Every section peak is weighted by DecayWeight^rank before the power sum
	DecayWeight float64

	// Length of a single strain section in ms, rate-adjusted
	SectionLength float64

	// Exponent of the weighted power sum, 1 for a plain weighted sum
	K float64

	// Multiplier applied to the aggregated rating
	DifficultyMultiplier float64

	// Number of highest sections reduced towards ReducedStrainBaseline
	ReducedSectionCount   int
	ReducedStrainBaseline float64

	// Should calculate the strain of the current object and advance the skill's own strain state
	StrainValueOf func(current *preprocessing.DifficultyObject) float64

	// Should return the skill's strain decayed to the given time, without any new input
	CalculateInitialStrain func(time float64, current *preprocessing.DifficultyObject) float64

	currentSectionPeak float64
	currentSectionEnd  float64

	strainPeaks   []float64
	objectStrains []float64

	stepCalc bool

	difficulty           float64
	lastDifficulty       float64
	difficultStrainCount float64

	diff *difficulty.Difficulty
}

func NewSkill(d *difficulty.Difficulty, stepCalc bool) *Skill {
	return &Skill{
		DecayWeight:          defaultDecayWeight,
		SectionLength:        DefaultSectionLength,
		K:                    1,
		DifficultyMultiplier: 1,
		stepCalc:             stepCalc,
		diff:                 d,
	}
}

// Process calculates the strain of the current object and records it in its section
func (skill *Skill) Process(current *preprocessing.DifficultyObject) {
	// The first object doesn't generate a strain, so we begin with an incremented section end
	if current.Index == 0 {
		skill.currentSectionEnd = math.Ceil(current.StartTime/skill.SectionLength) * skill.SectionLength
	}

	for current.StartTime > skill.currentSectionEnd {
		skill.saveCurrentPeak()
		skill.startNewSectionFrom(skill.currentSectionEnd, current)
		skill.currentSectionEnd += skill.SectionLength
	}

	strain := skill.StrainValueOf(current)

	skill.objectStrains = append(skill.objectStrains, strain)
	skill.currentSectionPeak = max(strain, skill.currentSectionPeak)

	if !skill.stepCalc {
		return
	}

	skill.difficulty = skill.DifficultyValue()

	if skill.lastDifficulty != skill.difficulty {
		skill.difficultStrainCount = skill.countDifficultStrains()
	} else if skill.difficulty != 0 {
		skill.difficultStrainCount += difficultStrainWeight(strain, skill.difficulty)
	}

	skill.lastDifficulty = skill.difficulty
}

// saveCurrentPeak saves the current peak strain level to the list of strain peaks, which will be used to calculate an overall difficulty.
func (skill *Skill) saveCurrentPeak() {
	skill.strainPeaks = append(skill.strainPeaks, skill.currentSectionPeak)
}

// startNewSectionFrom sets the initial strain level for a new section.
func (skill *Skill) startNewSectionFrom(end float64, current *preprocessing.DifficultyObject) {
	// The maximum strain of the new section is not zero by default, strain decays as usual regardless of section boundaries.
	// This means we need to capture the strain level at the beginning of the new section, and use that as the initial peak level.
	skill.currentSectionPeak = 0
	if current.Index > 0 && skill.CalculateInitialStrain != nil {
		skill.currentSectionPeak = skill.CalculateInitialStrain(end, current)
	}
}

// GetCurrentStrainPeaks returns the peaks of all finished sections plus the running one
func (skill *Skill) GetCurrentStrainPeaks() []float64 {
	peaks := make([]float64, len(skill.strainPeaks)+1)
	copy(peaks, skill.strainPeaks)
	peaks[len(peaks)-1] = skill.currentSectionPeak

	return peaks
}

// GetObjectStrains returns the strain recorded for every processed object
func (skill *Skill) GetObjectStrains() []float64 {
	return skill.objectStrains
}

// DifficultyValue aggregates the section peaks into the skill's rating
func (skill *Skill) DifficultyValue() float64 {
	sorted := SortedPeaks(skill.GetCurrentStrainPeaks())

	if skill.ReducedSectionCount > 0 {
		sorted = ReduceTopPeaks(sorted, skill.ReducedSectionCount, skill.ReducedStrainBaseline)
	}

	weighted := WeightPeaks(sorted, skill.DecayWeight)

	return skill.DifficultyMultiplier * PowerSum(weighted, skill.K)
}

// CountDifficultStrains estimates how many objects are close to the hardest part of the map
func (skill *Skill) CountDifficultStrains() float64 {
	if skill.stepCalc {
		return skill.difficultStrainCount
	}

	skill.difficulty = skill.DifficultyValue()

	return skill.countDifficultStrains()
}

func (skill *Skill) countDifficultStrains() float64 {
	if skill.difficulty == 0 {
		return 0
	}

	count := 0.0
	for _, strain := range skill.objectStrains {
		count += difficultStrainWeight(strain, skill.difficulty)
	}

	return count
}

func difficultStrainWeight(strain, difficulty float64) float64 {
	// What would the top strain be if all strain values were identical
	consistentTopStrain := difficulty / 10

	// Use a weighted sum of all strains. Constants are arbitrary and give nice values
	return 1.1 / (1 + math.Exp(-10*(strain/consistentTopStrain-0.88)))
}

// strainDecay is base^(ms/1000). It is strictly positive and below 1 for ms > 0.
func strainDecay(base, ms float64) float64 {
	return math.Pow(base, ms/1000)
}

// decayToTime is the initial strain helper shared by single-strain skills
func decayToTime(strain, base, time float64, current *preprocessing.DifficultyObject) float64 {
	return strain * strainDecay(base, time-current.Previous(0).StartTime)
}
