package evaluators

// rhythmRatio is the shorter interval over the longer one, 1 for equal intervals
func rhythmRatio(t1, t2 float64) float64 {
	if max(t1, t2) == 0 {
		return 1
	}

	return min(t1, t2) / max(t1, t2)
}

func getRhythmDifference(t1, t2 float64) float64 {
	return 1 - rhythmRatio(t1, t2)
}
