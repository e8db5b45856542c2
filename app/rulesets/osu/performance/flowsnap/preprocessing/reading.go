package preprocessing

import (
	"math"

	"github.com/Givikap120/danser-pp/framework/math/mutils"
)

const (
	// Objects at this opacity or above read as fully visible
	fullyVisibleOpacity = 0.7

	overlapAreaWeight = 0.85

	// Centre distance of a regular stack relative to the radius
	stackDistanceRatio = 0.1414213562373

	// Angles further apart than this are not similar at all
	angleSimilarityRange = math.Pi / 12
)

// ReadingObject is an earlier visible object with the overlap difficulty accumulated up to it
type ReadingObject struct {
	HitObject   *DifficultyObject
	Overlapness float64
}

// overlapHistory holds gaps and angles of earlier overlapping objects in walk order
type overlapHistory struct {
	times  []float64
	angles []float64
}

func (h *overlapHistory) push(time, angle float64) {
	h.times = append(h.times, time)
	h.angles = append(h.angles, angle)
}

// reduce lowers overlap when the gap to the overlapping object repeats a combination of earlier gaps
func (h *overlapHistory) reduce(overlap, gap, angle float64, target, prev *DifficultyObject) float64 {
	reduced := overlap
	withGap := gap

	for i := len(h.times) - 1; i >= 0; i-- {
		withoutGap := 0.0

		for j := i; j >= 0; j-- {
			withoutGap += h.times[j]

			angleFactor := 1 - angleSimilarity(angle, h.angles[j])*(1-GetTimeDifference(target.StrainTime, prev.StrainTime))

			reduced = min(reduced,
				overlap*GetTimeDifference(withGap, withoutGap)*angleFactor,
				overlap*GetTimeDifference(gap, withoutGap)*angleFactor)

			if withoutGap >= withGap {
				break
			}
		}

		withGap += h.times[i]
	}

	return reduced
}

// visibilityFactor maps opacity of o at target's hit time onto 0..1, treating fullyVisibleOpacity as 1
func (o *DifficultyObject) visibilityFactor(target *DifficultyObject, hidden bool) float64 {
	opacity := min(1, o.OpacityAt(target.StartTime, hidden)/fullyVisibleOpacity)

	return math.Sqrt(opacity)
}

// GetTimeDifference drops from 1 to 0 as the ratio of the two times goes from 0.75 to 0.9
func GetTimeDifference(timeA, timeB float64) float64 {
	longer := max(timeA, timeB)
	if longer == 0 {
		return 0
	}

	ratio := min(timeA, timeB) / longer

	switch {
	case ratio < 0.75:
		return 1
	case ratio > 0.9:
		return 0
	}

	return (math.Cos((ratio-0.75)*math.Pi/0.15) + 1) / 2
}

func angleSimilarity(a, b float64) float64 {
	return max(0, 1-math.Abs(a-b)/angleSimilarityRange)
}

// overlapness is the normalized shared area of two circles with a bonus for near perfect stacks
func overlapness(a, b *DifficultyObject) float64 {
	distance := a.Position.Sub(b.Position).Len()
	radius := a.Radius

	if distance > radius*2 {
		return 0
	}

	// Circular segment area on both sides, over the area of a full circle
	sector := math.Acos(distance/(2*radius)) * radius * radius
	triangle := distance * math.Sqrt(radius*radius-distance*distance/4) / 2
	area := (sector - triangle) * 2 / (math.Pi * radius * radius)

	stackBonus := max(0, (stackDistanceRatio-distance/radius)/stackDistanceRatio)

	return area*overlapAreaWeight + stackBonus*(1-overlapAreaWeight)
}

// visibleObjects lists earlier objects already on screen when current has to be hit, most recent first
func visibleObjects(current *DifficultyObject) []*DifficultyObject {
	visible := make([]*DifficultyObject, 0, 8)

	for i := 0; i < current.Index; i++ {
		o := current.Previous(i)
		if o == nil || o.StartTime < current.StartTime-current.Preempt {
			break
		}

		visible = append(visible, o)
	}

	return visible
}

// patternSimilarity compares rhythm, signed angle and spacing of two objects
func patternSimilarity(a, b *DifficultyObject) float64 {
	if a == nil || b == nil {
		return 1
	}

	aUndefined, bUndefined := math.IsNaN(a.AngleSigned), math.IsNaN(b.AngleSigned)
	if aUndefined || bUndefined {
		if aUndefined && bUndefined {
			return 1
		}

		return 0
	}

	rhythm := 1 - GetTimeDifference(a.StrainTime, b.StrainTime)
	angle := 1 - mutils.Clamp(math.Abs(a.AngleSigned-b.AngleSigned)-0.1, 0, 0.15)/0.15
	spacing := 1 / max(1, math.Abs(a.LazyJumpDistance-b.LazyJumpDistance)/NormalizedRadius)

	return rhythm * angle * spacing
}

// getReadingObjects accumulates overlap difficulty over visible earlier objects.
// It also fills o.OverlapValues, keyed by object index.
func (o *DifficultyObject) getReadingObjects(hidden bool) ([]ReadingObject, map[int]float64) {
	visible := visibleObjects(o)

	result := make([]ReadingObject, 0, len(visible))
	o.OverlapValues = make(map[int]float64)

	var history overlapHistory

	total := 0.0
	gap := o.DeltaTime
	prev := o

	for _, target := range visible {
		overlap := overlapness(o, target)
		if overlap > 0 {
			o.OverlapValues[target.Index] = overlap
		}

		if math.IsNaN(prev.Angle) {
			gap += prev.DeltaTime
			continue
		}

		// Walking backwards, so the angle at prev is the one leading into target
		angle := prev.Angle

		// Wide angles make the path predictable, and prev overlapping target makes it a stream
		wideness := (1 - math.Cos(angle)) / 2
		predictable := min(1, (0.5+prev.OverlapValues[target.Index])*(1+wideness))

		overlap *= (1 - predictable) * 2

		if overlap > 0 {
			overlap *= o.visibilityFactor(target, hidden)
			overlap = history.reduce(overlap, gap, angle, target, prev)

			history.push(gap, angle)

			gap = prev.DeltaTime
		} else {
			gap += prev.DeltaTime
		}

		total += overlap

		result = append(result, ReadingObject{HitObject: target, Overlapness: total})

		prev = target
	}

	return result, o.OverlapValues
}

// CalculateAnglePredictability returns 1 for fully predictable angles and less when the angle changes unexpectedly
func (o *DifficultyObject) CalculateAnglePredictability() float64 {
	p0, p1, p2 := o.Previous(0), o.Previous(1), o.Previous(2)

	if math.IsNaN(o.Angle) || p0 == nil || math.IsNaN(p0.Angle) {
		return 1
	}

	change := math.Abs(p0.Angle - o.Angle)

	// Angles barely matter on tightly spaced objects
	for _, d := range []float64{p0.LazyJumpDistance, o.LazyJumpDistance} {
		if d < NormalizedRadius {
			change *= (d / NormalizedRadius) * (d / NormalizedRadius)
		}
	}

	alternatingChange := 0.0
	sharpness := 1.0

	if p1 != nil && p2 != nil && !math.IsNaN(p1.Angle) {
		alternatingChange = math.Abs(p1.Angle - o.Angle)
		sharpness = math.Pow(1-min(o.Angle, p0.Angle)/math.Pi, 10)
	}

	// 1 when the last few objects share a rhythm
	sameRhythm := 1 - GetTimeDifference(o.StrainTime, p0.StrainTime)

	if p1 != nil {
		sameRhythm *= 1 - GetTimeDifference(p0.StrainTime, p1.StrainTime)

		if p2 != nil {
			sameRhythm *= 1 - GetTimeDifference(p1.StrainTime, p2.StrainTime)
		}
	}

	// A pattern alternating between two angles is predictable
	change -= max(change-alternatingChange, 0) * math.Pow(1-alternatingChange/math.Pi, 5) * sameRhythm * sharpness

	p3, p4, p5 := o.Previous(3), o.Previous(4), o.Previous(5)

	repeat3 := patternSimilarity(o, p2) * patternSimilarity(p0, p3) * patternSimilarity(p1, p4)
	repeat4 := patternSimilarity(o, p3) * patternSimilarity(p0, p4) * patternSimilarity(p1, p5)

	if o.Angle > math.Pi/2 {
		wideness := 1 - math.Pow(1-(o.Angle/math.Pi-0.5)*2, 3)
		change /= 1 + wideness
	}

	// Changes past 15 degrees are fully unpredictable
	predictability := math.Cos(min(math.Pi/2, 6*min(math.Pi/12, change))) * sameRhythm

	return 1 - (1-predictability)*(1-max(repeat3, repeat4))
}
