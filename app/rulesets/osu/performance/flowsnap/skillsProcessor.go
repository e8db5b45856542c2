package flowsnap

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/skills"
)

type SkillsProcessor struct {
	Aim               *skills.AimSkill
	AimWithoutSliders *skills.AimSkill
	Speed             *skills.SpeedSkill
	Rhythm            *skills.RhythmSkill
	Flashlight        *skills.Flashlight
	ReadingLowAR      *skills.ReadingLowAR
	ReadingHighAR     *skills.ReadingHighAR
	ReadingHidden     *skills.ReadingHidden

	skipIrrelevantToStarRating bool
	isHidden                   bool
}

func NewSkillsProcessor(d *difficulty.Difficulty, stepCalc bool, skipIrrelevantToStarRating bool) *SkillsProcessor {
	return &SkillsProcessor{
		Aim:                        skills.NewAimSkill(d, true, stepCalc),
		AimWithoutSliders:          skills.NewAimSkill(d, false, stepCalc),
		Speed:                      skills.NewSpeedSkill(d, stepCalc),
		Rhythm:                     skills.NewRhythmSkill(d, stepCalc),
		Flashlight:                 skills.NewFlashlightSkill(d, stepCalc),
		ReadingLowAR:               skills.NewReadingLowAR(d, stepCalc),
		ReadingHighAR:              skills.NewReadingHighAR(d, stepCalc),
		ReadingHidden:              skills.NewReadingHidden(d, stepCalc),
		skipIrrelevantToStarRating: skipIrrelevantToStarRating,
		isHidden:                   d.CheckModActive(difficulty.Hidden),
	}
}

func (skills *SkillsProcessor) Process(current *preprocessing.DifficultyObject) {
	skills.Aim.Process(current)
	skills.Speed.Process(current)
	skills.Rhythm.Process(current)
	skills.Flashlight.Process(current)
	skills.ReadingLowAR.Process(current)
	skills.ReadingHighAR.Process(current)

	// Slider factor only matters for performance
	if !skills.skipIrrelevantToStarRating {
		skills.AimWithoutSliders.Process(current)
	}

	if skills.isHidden {
		skills.ReadingHidden.Process(current)
	}
}
