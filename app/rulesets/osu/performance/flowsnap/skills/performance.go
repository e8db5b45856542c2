package skills

import "math"

// DefaultDifficultyToPerformance converts a star rating to base performance
func DefaultDifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(5.0*max(1.0, difficulty/0.0675)-4.0, 3.0) / 100000.0
}

func LowARDifficultyToPerformance(difficulty float64) float64 {
	return max(
		math.Pow(difficulty, 1.5)*20, math.Pow(difficulty, 2)*17.0,
		math.Pow(difficulty, 3)*10.5, math.Pow(difficulty, 4)*6.00,
	)
}

func HiddenDifficultyToPerformance(difficulty float64) float64 {
	return max(difficulty*16, math.Pow(difficulty, 2)*10, math.Pow(difficulty, 3)*4)
}

func FlashlightDifficultyToPerformance(difficulty float64) float64 {
	return 25 * difficulty * difficulty
}
