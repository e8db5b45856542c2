package preprocessing

import (
	"math"
	"testing"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circlesFrom(start, interval float64, positions ...mgl64.Vec2) []objects.IHitObject {
	objs := make([]objects.IHitObject, len(positions))
	for i, p := range positions {
		objs[i] = objects.NewCircle(start+float64(i)*interval, p, i == 0)
	}

	return objs
}

func circlesAt(interval float64, positions ...mgl64.Vec2) []objects.IHitObject {
	return circlesFrom(1000, interval, positions...)
}

func TestCreateDifficultyObjectsDegenerate(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	assert.Empty(t, CreateDifficultyObjects(nil, d))
	assert.Empty(t, CreateDifficultyObjects(circlesAt(100, mgl64.Vec2{}), d))
}

func TestCreateDifficultyObjectsLength(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	diffObjects := CreateDifficultyObjects(circlesAt(200, mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{100, 100}, mgl64.Vec2{0, 100}), d)
	require.Len(t, diffObjects, 3)

	for i, o := range diffObjects {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, 200.0, o.DeltaTime)
	}

	assert.Nil(t, diffObjects[0].Previous(0))
	assert.Equal(t, diffObjects[0], diffObjects[1].Previous(0))
	assert.Equal(t, diffObjects[2], diffObjects[1].Next(0))
	assert.Nil(t, diffObjects[2].Next(0))
}

func TestAngle(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	diffObjects := CreateDifficultyObjects(circlesAt(200, mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{100, 100}, mgl64.Vec2{200, 100}), d)

	assert.True(t, math.IsNaN(diffObjects[0].Angle))
	assert.InDelta(t, math.Pi/2, diffObjects[1].Angle, 1e-9)
	assert.InDelta(t, math.Pi/2, diffObjects[2].Angle, 1e-9)
	assert.Equal(t, -diffObjects[1].AngleSigned, diffObjects[2].AngleSigned)
}

func TestStrainTimeFloor(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	diffObjects := CreateDifficultyObjects(circlesAt(5, mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}), d)

	assert.Equal(t, 5.0, diffObjects[0].DeltaTime)
	assert.Equal(t, float64(MinDeltaTime), diffObjects[0].StrainTime)
}

func TestRateInvariance(t *testing.T) {
	positions := []mgl64.Vec2{{0, 0}, {120, 0}, {120, 150}, {300, 200}, {10, 10}}

	doubled := difficulty.NewDifficulty(5, 4, 8, 9)
	doubled.SetCustomSpeed(2)

	normal := difficulty.NewDifficulty(5, 4, 8, 9)

	fast := CreateDifficultyObjects(circlesFrom(1000, 150, positions...), doubled)
	slow := CreateDifficultyObjects(circlesFrom(500, 75, positions...), normal)

	require.Len(t, slow, len(fast))

	for i := range fast {
		assert.InDelta(t, slow[i].DeltaTime, fast[i].DeltaTime, 1e-9)
		assert.InDelta(t, slow[i].StrainTime, fast[i].StrainTime, 1e-9)
		assert.InDelta(t, slow[i].LazyJumpDistance, fast[i].LazyJumpDistance, 1e-9)
	}
}

func TestSpinnerResolvedAtBoundary(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	objs := []objects.IHitObject{
		objects.NewCircle(0, mgl64.Vec2{0, 0}, true),
		objects.NewSpinner(500, 1500, true),
		objects.NewCircle(2000, mgl64.Vec2{400, 300}, true),
		objects.NewCircle(2200, mgl64.Vec2{300, 300}, false),
	}

	diffObjects := CreateDifficultyObjects(objs, d)

	assert.True(t, diffObjects[0].IsSpinner)
	assert.Zero(t, diffObjects[0].LazyJumpDistance)
	assert.True(t, diffObjects[1].PrevIsSpinner)
	assert.Zero(t, diffObjects[1].LazyJumpDistance)
	assert.True(t, math.IsNaN(diffObjects[2].Angle))
}

func TestSliderLazyCursor(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	slider := objects.NewSlider(1000, 1600, mgl64.Vec2{100, 100}, []mgl64.Vec2{{300, 0}}, 1, 150, true)

	objs := []objects.IHitObject{
		objects.NewCircle(500, mgl64.Vec2{100, 300}, true),
		slider,
		objects.NewCircle(1900, mgl64.Vec2{400, 300}, false),
	}

	diffObjects := CreateDifficultyObjects(objs, d)
	require.Len(t, diffObjects, 2)

	sliderObj := diffObjects[0]
	assert.True(t, sliderObj.IsSlider)
	assert.Equal(t, 1, sliderObj.RepeatCount)
	assert.Greater(t, sliderObj.TravelDistance, 0.0)
	assert.InDelta(t, 300.0, sliderObj.SliderLength, 1e-9)

	next := diffObjects[1]
	assert.True(t, next.PrevIsSlider)
	assert.NotEmpty(t, next.SliderSubObjects)
	assert.LessOrEqual(t, next.MinimumJumpDistance, next.LazyJumpDistance)

	for _, sub := range next.SliderSubObjects {
		assert.GreaterOrEqual(t, sub.StrainTime, float64(MinSubObjectTime))
	}

	// caller's objects are left as they were
	_, ok := objs[1].(*objects.Slider)
	assert.True(t, ok)
}

func TestLazySliderTrackingEnd(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	lazy := NewLazySlider(objects.NewSlider(0, 600, mgl64.Vec2{0, 0}, []mgl64.Vec2{{300, 0}}, 1, 0, false), d)
	assert.Equal(t, 564.0, lazy.TrackingEndTime)
	assert.Equal(t, 564.0, lazy.LazyTravelTime)

	short := NewLazySlider(objects.NewSlider(0, 50, mgl64.Vec2{0, 0}, []mgl64.Vec2{{30, 0}}, 1, 0, false), d)
	assert.Equal(t, 25.0, short.TrackingEndTime)

	// Leniency is real time, so it covers more of the map under DT
	dt := difficulty.NewDifficulty(5, 4, 8, 9)
	dt.SetMods(difficulty.DoubleTime)

	fast := NewLazySlider(objects.NewSlider(0, 600, mgl64.Vec2{0, 0}, []mgl64.Vec2{{300, 0}}, 1, 0, false), dt)
	assert.Equal(t, 546.0, fast.TrackingEndTime)
}

func TestSliderSubObjectsMerged(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	// 20 spans of 3ms each, every repeat is closer than MinSubObjectTime to the previous one
	objs := []objects.IHitObject{
		objects.NewCircle(500, mgl64.Vec2{100, 300}, true),
		objects.NewSlider(1000, 1060, mgl64.Vec2{100, 100}, []mgl64.Vec2{{60, 0}}, 20, 0, true),
		objects.NewCircle(1400, mgl64.Vec2{400, 300}, false),
	}

	subObjects := CreateDifficultyObjects(objs, d)[1].SliderSubObjects
	require.Len(t, subObjects, 9)

	total := 0.0
	for _, sub := range subObjects {
		assert.Equal(t, 6.0, sub.StrainTime)
		total += sub.StrainTime
	}

	assert.Equal(t, 54.0, total)
}

func TestOpacity(t *testing.T) {
	d := difficulty.NewDifficulty(5, 4, 8, 9)

	diffObjects := CreateDifficultyObjects(circlesAt(300, mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}), d)
	o := diffObjects[0]

	assert.Equal(t, 0.0, o.OpacityAt(o.StartTime+1, false))
	assert.Equal(t, 0.0, o.OpacityAt(o.StartTime-o.Preempt, false))
	assert.Equal(t, 1.0, o.OpacityAt(o.StartTime-1, false))
	assert.Less(t, o.OpacityAt(o.StartTime-1, true), 1.0)
}
