package api

type Attributes struct {
	// Total Star rating, visible on osu!'s beatmap page
	Total float64 `json:"star_rating"`

	// Aim stars, blended from Snap and Flow, needed for Performance Points (aka PP) calculations
	Aim float64 `json:"aim_difficulty"`

	Snap float64 `json:"snap_aim_difficulty"`
	Flow float64 `json:"flow_aim_difficulty"`

	// Speed stars, needed for Performance Points (aka PP) calculations
	Speed float64 `json:"speed_difficulty"`

	Rhythm float64 `json:"rhythm_difficulty"`

	SpeedNoteCount float64 `json:"speed_note_count"`

	AimDifficultStrainCount   float64 `json:"aim_difficult_strain_count"`
	SpeedDifficultStrainCount float64 `json:"speed_difficult_strain_count"`

	// AimDifficultSliderCount is a weighted count of sliders close to the hardest slider strain
	AimDifficultSliderCount float64 `json:"aim_difficult_slider_count"`

	// Flashlight stars, needed for Performance Points (aka PP) calculations
	Flashlight float64 `json:"flashlight_difficulty"`

	// SliderFactor is a ratio of Aim calculated without sliders to Aim with them
	SliderFactor float64 `json:"slider_factor"`

	ReadingDifficultyLowAR  float64 `json:"reading_low_ar_difficulty"`
	ReadingDifficultyHighAR float64 `json:"reading_high_ar_difficulty"`
	HiddenDifficulty        float64 `json:"hidden_difficulty"`

	LowArDifficultStrainCount  float64 `json:"low_ar_difficult_strain_count"`
	HiddenDifficultStrainCount float64 `json:"hidden_difficult_strain_count"`

	ApproachRate      float64 `json:"approach_rate"`
	OverallDifficulty float64 `json:"overall_difficulty"`
	ClockRate         float64 `json:"clock_rate"`

	ObjectCount int `json:"object_count"`
	Circles     int `json:"circle_count"`
	Sliders     int `json:"slider_count"`
	Spinners    int `json:"spinner_count"`
	MaxCombo    int `json:"max_combo"`
}

// Skills returns non-zero per-skill star ratings keyed by skill name
func (attr Attributes) Skills() map[string]float64 {
	skills := make(map[string]float64)

	add := func(name string, value float64) {
		if value > 0 {
			skills[name] = value
		}
	}

	add("aim", attr.Aim)
	add("snap", attr.Snap)
	add("flow", attr.Flow)
	add("speed", attr.Speed)
	add("rhythm", attr.Rhythm)
	add("flashlight", attr.Flashlight)
	add("reading_low_ar", attr.ReadingDifficultyLowAR)
	add("reading_high_ar", attr.ReadingDifficultyHighAR)
	add("hidden", attr.HiddenDifficulty)

	return skills
}

// StrainPeaks contains per-section peaks of every skill, as well as peaks passed through star rating formula
type StrainPeaks struct {
	Aim  []float64
	Snap []float64
	Flow []float64

	Speed []float64

	Rhythm []float64

	Flashlight []float64

	ReadingLowAR  []float64
	ReadingHighAR []float64
	ReadingHidden []float64

	// Total contains all peaks passed through star rating formula
	Total []float64
}

type PerformanceAttributes struct {
	Aim        float64 `json:"aim"`
	Speed      float64 `json:"speed"`
	Rhythm     float64 `json:"rhythm"`
	Acc        float64 `json:"accuracy"`
	Flashlight float64 `json:"flashlight"`
	Reading    float64 `json:"reading"`

	EffectiveMissCount float64 `json:"effective_miss_count"`

	// Deviation is the estimated standard deviation of hit errors in ms, +Inf if nothing was hit
	Deviation float64 `json:"deviation"`

	Total float64 `json:"pp"`
}

type PPv2Results = PerformanceAttributes

// Score holds play statistics. Negative counts, combo or accuracy are filled in by the calculator.
type Score struct {
	MaxCombo   int     `json:"max_combo"`
	CountGreat int     `json:"count_300"`
	CountOk    int     `json:"count_100"`
	CountMeh   int     `json:"count_50"`
	CountMiss  int     `json:"count_miss"`
	Accuracy   float64 `json:"accuracy"`
}

// PerfectScore returns an SS score for the given attributes
func PerfectScore(attribs Attributes) Score {
	return Score{
		MaxCombo:   attribs.MaxCombo,
		CountGreat: attribs.ObjectCount,
		Accuracy:   1,
	}
}
