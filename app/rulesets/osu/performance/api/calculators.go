package api

import (
	"context"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
)

type IDifficultyCalculator interface {
	CalculateSingle(objects []objects.IHitObject, diff *difficulty.Difficulty) Attributes
	CalculateStep(objects []objects.IHitObject, diff *difficulty.Difficulty) []Attributes
	CalculateStrainPeaks(objects []objects.IHitObject, diff *difficulty.Difficulty) StrainPeaks
	CalculateBatch(ctx context.Context, objects []objects.IHitObject, diffs []*difficulty.Difficulty) ([]Attributes, error)
	GetVersion() int
	GetVersionMessage() string
}

type IPerformanceCalculator interface {
	Calculate(attribs Attributes, score Score, diff *difficulty.Difficulty) PerformanceAttributes
}
