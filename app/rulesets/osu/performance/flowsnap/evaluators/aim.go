package evaluators

import (
	"math"

	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/preprocessing"
)

// AimBlendPower is the exponent of the soft minimum used to pick the easier of the snap and flow readings
const AimBlendPower = 6.0

// BlendAim is a p-norm soft minimum of the snap and flow values. It never exceeds the smaller one.
func BlendAim(snap, flow float64) float64 {
	if snap <= 0 || flow <= 0 {
		return 0
	}

	return math.Pow(math.Pow(snap, -AimBlendPower)+math.Pow(flow, -AimBlendPower), -1/AimBlendPower)
}

// EvaluateAim rates the current movement with whichever model is easier for it, without any strain history
func EvaluateAim(current *preprocessing.DifficultyObject, withSliders bool) float64 {
	return BlendAim(EvaluateSnapAim(current, withSliders), EvaluateFlowAim(current))
}
