package preprocessing

import (
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/Givikap120/danser-pp/framework/math/mutils"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25

	// slider sub-movements shorter than this (after rate adjustment) are dropped
	MinSubObjectTime = 5

	HiddenFadeOutMultiplier = 0.3
)

type kind int

const (
	kindCircle kind = iota
	kindSlider
	kindSpinner
)

// SliderSubObject is a single cursor movement while following the previous slider
type SliderSubObject struct {
	Movement   mgl64.Vec2
	StrainTime float64
}

type DifficultyObject struct {
	listOfDiffs *[]*DifficultyObject
	Index       int

	// BaseObject is only kept for object counting, everything else should use resolved fields
	BaseObject objects.IHitObject

	IsSlider      bool
	IsSpinner     bool
	PrevIsSlider  bool
	PrevIsSpinner bool

	// RepeatCount is the number of spans of this object, 0 for non-sliders
	RepeatCount int

	// Position and EndPosition are stacked and mod-adjusted
	Position    mgl64.Vec2
	EndPosition mgl64.Vec2

	// Movement goes from the previous object's lazy end to this object's position, in raw osu!pixels
	Movement mgl64.Vec2

	SliderSubObjects []SliderSubObject

	DeltaTime  float64
	StrainTime float64

	StartTime float64
	EndTime   float64
	Duration  float64

	LazyJumpDistance float64

	MinimumJumpDistance float64
	MinimumJumpTime     float64

	TravelDistance float64
	TravelTime     float64

	// LazyTravelDistance and SliderLength describe this object's slider body, 0 for non-sliders
	LazyTravelDistance float64
	SliderLength       float64

	Angle       float64
	AngleSigned float64

	GreatWindow float64

	ClockRate float64

	Preempt    float64
	TimeFadeIn float64

	Radius           float64
	SmallCircleBonus float64

	FollowLineTime float64

	AnglePredictability float64

	ReadingObjects []ReadingObject

	OverlapValues map[int]float64
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, listOfDiffs *[]*DifficultyObject, index int) *DifficultyObject {
	currentKind, lastKind := resolveKind(hitObject), resolveKind(lastObject)

	obj := &DifficultyObject{
		listOfDiffs:      listOfDiffs,
		Index:            index,
		BaseObject:       hitObject,
		IsSlider:         currentKind == kindSlider,
		IsSpinner:        currentKind == kindSpinner,
		PrevIsSlider:     lastKind == kindSlider,
		PrevIsSpinner:    lastKind == kindSpinner,
		Position:         hitObject.GetStackedStartPositionMod(d.Mods),
		EndPosition:      hitObject.GetStackedEndPositionMod(d.Mods),
		DeltaTime:        (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:        hitObject.GetStartTime() / d.Speed,
		EndTime:          hitObject.GetEndTime() / d.Speed,
		Duration:         hitObject.GetDuration() / d.Speed,
		Angle:            math.NaN(),
		AngleSigned:      math.NaN(),
		GreatWindow:      2 * d.Hit300U / d.Speed,
		ClockRate:        d.Speed,
		Preempt:          d.PreemptU / d.Speed,
		TimeFadeIn:       d.TimeFadeIn / d.Speed,
		Radius:           d.CircleRadiusU,
		SmallCircleBonus: max(1.0, 1.0+(CircleSizeBuffThreshold-d.CircleRadiusU)/40),
	}

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	if slider, ok := hitObject.(*LazySlider); ok {
		obj.RepeatCount = slider.RepeatCount
		obj.SliderLength = slider.GetLength()
		obj.LazyTravelDistance = slider.LazyTravelDistance
	}

	obj.setDistances(hitObject, lastObject, lastLastObject, d)

	if lastSlider, ok := lastObject.(*LazySlider); ok {
		obj.setSliderSubObjects(lastSlider, d)
	}

	if !hitObject.IsNewCombo() {
		obj.FollowLineTime = 800.0 / d.Speed
	}

	obj.AnglePredictability = obj.CalculateAnglePredictability()
	obj.ReadingObjects, obj.OverlapValues = obj.getReadingObjects(d.CheckModActive(difficulty.Hidden))

	return obj
}

// resolveKind is the only place where object types are inspected
func resolveKind(o objects.IHitObject) kind {
	switch o.(type) {
	case *LazySlider, *objects.Slider:
		return kindSlider
	case *objects.Spinner:
		return kindSpinner
	}

	return kindCircle
}

func (o *DifficultyObject) GetDoubletapness(osuNextObj *DifficultyObject) float64 {
	if osuNextObj != nil {
		currDeltaTime := max(1, o.DeltaTime)
		nextDeltaTime := max(1, osuNextObj.DeltaTime)
		deltaDifference := math.Abs(nextDeltaTime - currDeltaTime)
		speedRatio := currDeltaTime / max(currDeltaTime, deltaDifference)
		windowRatio := math.Pow(min(1, currDeltaTime/o.GreatWindow), 2)
		return 1 - math.Pow(speedRatio, 1-windowRatio)
	}

	return 0
}

// OpacityAt returns the visibility of this object at the given (rate-adjusted) time
func (o *DifficultyObject) OpacityAt(time float64, hidden bool) float64 {
	if time > o.StartTime {
		return 0
	}

	fadeInStartTime := o.StartTime - o.Preempt
	fadeInDuration := o.TimeFadeIn

	if hidden {
		fadeOutStartTime := o.StartTime - o.Preempt + o.TimeFadeIn
		fadeOutDuration := o.Preempt * HiddenFadeOutMultiplier

		return min(
			mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0),
			1.0-mutils.Clamp((time-fadeOutStartTime)/fadeOutDuration, 0.0, 1.0),
		)
	}

	return mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0)
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	index := o.Index - (backwardsIndex + 1)

	if index < 0 || index >= len(*o.listOfDiffs) {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) Next(forwardsIndex int) *DifficultyObject {
	index := o.Index + (forwardsIndex + 1)

	if index >= len(*o.listOfDiffs) {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) setDistances(hitObject, lastObject, lastLastObject objects.IHitObject, d *difficulty.Difficulty) {
	if currentSlider, ok := hitObject.(*LazySlider); ok {
		// RepeatCount counts spans, so the first span is not a repeat
		o.TravelDistance = currentSlider.LazyTravelDistance * math.Pow(1+float64(currentSlider.RepeatCount-1)/2.5, 1.0/2.5)
		o.TravelTime = max(currentSlider.LazyTravelTime/d.Speed, MinDeltaTime)
	}

	lastCursorPosition := getEndCursorPosition(lastObject, d)
	o.Movement = o.Position.Sub(lastCursorPosition)

	o.MinimumJumpTime = o.StrainTime

	if o.IsSpinner || o.PrevIsSpinner {
		return
	}

	scalingFactor := NormalizedRadius / d.CircleRadiusU

	if d.CircleRadiusU < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-d.CircleRadiusU, 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	o.LazyJumpDistance = o.Position.Mul(scalingFactor).Sub(lastCursorPosition.Mul(scalingFactor)).Len()
	o.MinimumJumpDistance = o.LazyJumpDistance

	if lastSlider, ok := lastObject.(*LazySlider); ok {
		lastTravelTime := max(lastSlider.LazyTravelTime/d.Speed, MinDeltaTime)
		o.MinimumJumpTime = max(o.StrainTime-lastTravelTime, MinDeltaTime)

		//
		// There are two types of slider-to-object patterns to consider in order to better approximate the real movement a player will take to jump between the hitobjects.
		//
		// 1. The anti-flow pattern, where players cut the slider short in order to move to the next hitobject.
		//
		//      <======o==>  ← slider
		//             |     ← most natural jump path
		//             o     ← a follow-up hitcircle
		//
		// In this case the most natural jump path is approximated by LazyJumpDistance.
		//
		// 2. The flow pattern, where players follow through the slider to its visual extent into the next hitobject.
		//
		//      <======o==>---o
		//                  ↑
		//        most natural jump path
		//
		// In this case the most natural jump path is better approximated by a new distance called "tailJumpDistance" - the distance between the slider's tail and the next hitobject.
		//
		// Thus, the player is assumed to jump the minimum of these two distances in all cases.
		//

		tailJumpDistance := lastSlider.GetStackedEndPositionMod(d.Mods).Sub(o.Position).Len() * scalingFactor
		o.MinimumJumpDistance = max(0, min(o.LazyJumpDistance-(maximumSliderRadius-assumedSliderRadius), tailJumpDistance-maximumSliderRadius))
	}

	if lastLastObject == nil || resolveKind(lastLastObject) == kindSpinner {
		return
	}

	lastLastCursorPosition := getEndCursorPosition(lastLastObject, d)

	v1 := lastLastCursorPosition.Sub(lastObject.GetStackedStartPositionMod(d.Mods))
	v2 := o.Position.Sub(lastCursorPosition)
	dot := v1.Dot(v2)
	det := v1.X()*v2.Y() - v1.Y()*v2.X()

	o.AngleSigned = math.Atan2(det, dot)
	o.Angle = math.Abs(o.AngleSigned)
}

// setSliderSubObjects splits the cursor path through the previous slider into short movements.
// Movements shorter than MinSubObjectTime are merged into the following one.
func (o *DifficultyObject) setSliderSubObjects(slider *LazySlider, d *difficulty.Difficulty) {
	nested := slider.Nested()
	cursor := objects.ModifyPosition(nested[0].Position, d.Mods)

	pending := 0.0

	for i := 1; i < len(nested); i++ {
		end := nested[i].Time
		target := objects.ModifyPosition(nested[i].Position, d.Mods)

		// last movement ends where the lazy cursor ends
		if i == len(nested)-1 {
			end = slider.TrackingEndTime
			target = slider.LazyEndPosition
		}

		pending += max(0, end-nested[i-1].Time) / d.Speed
		if pending < MinSubObjectTime {
			continue
		}

		o.SliderSubObjects = append(o.SliderSubObjects, SliderSubObject{
			Movement:   target.Sub(cursor),
			StrainTime: pending,
		})

		cursor = target
		pending = 0
	}
}

func getEndCursorPosition(obj objects.IHitObject, d *difficulty.Difficulty) mgl64.Vec2 {
	if s, ok := obj.(*LazySlider); ok {
		return s.LazyEndPosition
	}

	return obj.GetStackedStartPositionMod(d.Mods)
}
