package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

const (
	rhythmIslandTolerance = 1.25
	rhythmHistoryObjects  = 32
	rhythmHistoryTime     = 5000.0
	rhythmIslandDecay     = 0.9

	rhythmTimeMultiplier   = 1.0
	rhythmLengthMultiplier = 1.0
)

// island is a run of objects with near-equal spacing
type island struct {
	count     int
	totalTime float64
}

func (i island) averageTime() float64 {
	return i.totalTime / float64(i.count)
}

// EvaluateRhythmComplexity compares the island the current object belongs to with the islands before it.
// A monotone stream is a single island and rates 0.
func EvaluateRhythmComplexity(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	islands := buildIslands(current)
	if len(islands) < 2 {
		return 0
	}

	currentIsland := islands[0]

	timeRatioDifficulty := 0.0
	lengthRatioDifficulty := 0.0
	weight := 1.0

	for _, pastIsland := range islands[1:] {
		timeRatioDifficulty += TimeRatioDifficulty(pastIsland.averageTime()/currentIsland.averageTime()) * weight
		lengthRatioDifficulty += LengthRatioDifficulty(float64(pastIsland.count)/float64(currentIsland.count)) * weight

		weight *= rhythmIslandDecay
	}

	difficulty := timeRatioDifficulty*rhythmTimeMultiplier + lengthRatioDifficulty*rhythmLengthMultiplier

	// Spread the island's difficulty over its objects so long monotone runs don't keep collecting it
	return difficulty / float64(currentIsland.count)
}

// buildIslands walks backwards from current, most recent island first
func buildIslands(current *preprocessing.DifficultyObject) []island {
	islands := []island{{count: 1, totalTime: current.StrainTime}}

	last := current

	for i := 0; i < rhythmHistoryObjects-1; i++ {
		obj := current.Previous(i)
		if obj == nil || obj.IsSpinner || current.StartTime-obj.StartTime > rhythmHistoryTime {
			break
		}

		if similarRhythm(obj.StrainTime, last.StrainTime) {
			islands[len(islands)-1].count++
			islands[len(islands)-1].totalTime += obj.StrainTime
		} else {
			islands = append(islands, island{count: 1, totalTime: obj.StrainTime})
		}

		last = obj
	}

	return islands
}

func similarRhythm(t1, t2 float64) bool {
	return max(t1, t2) < min(t1, t2)*rhythmIslandTolerance
}

// TimeRatioDifficulty rates switching between two intervals with the given ratio.
// Equal intervals rate 0, integer ratios rate low and ratios like 3:2 rate highest.
func TimeRatioDifficulty(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}

	ratio = max(ratio, 1/ratio)

	_, fraction := math.Modf(ratio)
	nonInteger := math.Pow(math.Sin(math.Pi*fraction), 2)

	return (nonInteger + 0.25*math.Log2(ratio)) / math.Sqrt(ratio)
}

// LengthRatioDifficulty rates switching between islands of different lengths, 0 for equal lengths
func LengthRatioDifficulty(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}

	ratio = max(ratio, 1/ratio)

	return 0.5 * (1 - 1/ratio)
}
