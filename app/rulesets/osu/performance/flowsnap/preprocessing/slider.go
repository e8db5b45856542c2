package preprocessing

import (
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	maximumSliderRadius = NormalizedRadius * 2.4
	assumedSliderRadius = NormalizedRadius * 1.8

	// the player only needs to follow the slider until this long before its end, in real time
	tailLeniency = -36.0
)

// LazySlider wraps a slider with the lazy cursor movement needed for difficulty calculation,
// leaving the caller's object untouched.
type LazySlider struct {
	*objects.Slider

	// LazyEndPosition is the position the cursor ends up at when following the slider as little as possible
	LazyEndPosition mgl64.Vec2

	// LazyTravelDistance is the distance covered by the lazy cursor, in normalized osu!pixels
	LazyTravelDistance float64

	// LazyTravelTime is in unscaled map time
	LazyTravelTime float64

	// TrackingEndTime is in unscaled map time
	TrackingEndTime float64

	nested []objects.ScorePoint
}

func NewLazySlider(slider *objects.Slider, d *difficulty.Difficulty) *LazySlider {
	lazy := &LazySlider{Slider: slider}
	lazy.calculateLazyCursor(d)

	return lazy
}

// Nested returns head, ticks, repeats and tail in the order the lazy cursor visits them
func (slider *LazySlider) Nested() []objects.ScorePoint {
	return slider.nested
}

func (slider *LazySlider) calculateLazyCursor(d *difficulty.Difficulty) {
	start := slider.GetStartTime()
	duration := slider.GetDuration()

	slider.TrackingEndTime = max(start+duration+tailLeniency*d.Speed, start+duration/2)

	slider.nested = slider.NestedObjects()

	lastTick := -1
	for i, p := range slider.nested {
		if p.Kind == objects.TickPoint {
			lastTick = i
		}
	}

	if lastTick >= 0 && slider.nested[lastTick].Time > slider.TrackingEndTime {
		slider.TrackingEndTime = slider.nested[lastTick].Time

		// Moving the last tick to the end gives an order a player would never follow,
		// but it is what every other calculator of this family does.
		tick := slider.nested[lastTick]
		slider.nested = append(slider.nested[:lastTick], slider.nested[lastTick+1:]...)
		slider.nested = append(slider.nested, tick)
	}

	slider.LazyTravelTime = slider.TrackingEndTime - start

	endTimeMin := 0.0
	if slider.SpanDuration > 0 {
		endTimeMin = slider.LazyTravelTime / slider.SpanDuration
	}

	if math.Mod(endTimeMin, 2) >= 1 {
		endTimeMin = 1 - math.Mod(endTimeMin, 1)
	} else {
		endTimeMin = math.Mod(endTimeMin, 1)
	}

	slider.LazyEndPosition = slider.GetStackedStartPositionMod(d.Mods).Add(objects.ModifyOffset(slider.PositionAt(endTimeMin), d.Mods))

	cursor := slider.GetStackedStartPositionMod(d.Mods)
	scalingFactor := NormalizedRadius / d.CircleRadiusU

	for i := 1; i < len(slider.nested); i++ {
		point := slider.nested[i]

		movement := objects.ModifyPosition(point.Position, d.Mods).Sub(cursor)
		movementLength := scalingFactor * movement.Len()

		requiredMovement := assumedSliderRadius

		if i == len(slider.nested)-1 {
			// The end of the slider has special aim rules due to the relaxed time constraint on position.
			// There is both a lazy end position as well as the actual end slider position. We assume the player takes the simpler movement.
			lazyMovement := slider.LazyEndPosition.Sub(cursor)

			if lazyMovement.Len() < movement.Len() {
				movement = lazyMovement
			}

			movementLength = scalingFactor * movement.Len()
		} else if point.Kind == objects.RepeatPoint {
			// For a slider repeat, assume a tighter movement threshold to better assess repeat sliders.
			requiredMovement = NormalizedRadius
		}

		if movementLength > requiredMovement {
			// this finds the positional delta from the required radius and the current position, and updates the cursor position accordingly, as well as rewarding distance.
			cursor = cursor.Add(movement.Mul((movementLength - requiredMovement) / movementLength))
			movementLength *= (movementLength - requiredMovement) / movementLength
			slider.LazyTravelDistance += movementLength
		}

		if i == len(slider.nested)-1 {
			slider.LazyEndPosition = cursor
		}
	}
}
