package objects

import (
	"math"
	"sort"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ticks closer than this to a span end are not generated
	tickEndLeniency = 10.0

	// guards against absurd tick intervals producing millions of ticks
	maxTicksPerSpan = 1024
)

type PointKind int

const (
	HeadPoint PointKind = iota
	TickPoint
	RepeatPoint
	TailPoint
)

// ScorePoint is a nested judgement of a slider
type ScorePoint struct {
	Time     float64
	Position mgl64.Vec2
	Kind     PointKind
	Span     int
}

type Slider struct {
	*HitObject

	// path is a polyline relative to StartPosition, first point is always the origin
	path       []mgl64.Vec2
	cumulative []float64

	RepeatCount  int
	SpanDuration float64
	TickInterval float64

	// ScorePoints holds ticks, repeats and the tail in time order. The head is not included.
	ScorePoints []ScorePoint
}

// NewSlider creates a slider from a polyline relative to position. repeats is the number of spans, at least 1.
func NewSlider(startTime, endTime float64, position mgl64.Vec2, path []mgl64.Vec2, repeats int, tickInterval float64, newCombo bool) *Slider {
	repeats = max(1, repeats)
	endTime = max(startTime, endTime)

	slider := &Slider{
		HitObject: &HitObject{
			StartPosition: position,
			StartTime:     startTime,
			EndTime:       endTime,
			NewCombo:      newCombo,
		},
		RepeatCount:  repeats,
		SpanDuration: (endTime - startTime) / float64(repeats),
		TickInterval: tickInterval,
	}

	slider.setPath(path)

	slider.EndPosition = slider.GetPositionAt(endTime)

	slider.generateScorePoints()

	return slider
}

func (slider *Slider) setPath(path []mgl64.Vec2) {
	if len(path) == 0 || path[0] != (mgl64.Vec2{}) {
		path = append([]mgl64.Vec2{{}}, path...)
	}

	slider.path = path
	slider.cumulative = make([]float64, len(path))

	for i := 1; i < len(path); i++ {
		slider.cumulative[i] = slider.cumulative[i-1] + path[i].Sub(path[i-1]).Len()
	}
}

func (slider *Slider) GetType() Type {
	return SLIDER
}

// GetLength returns the arc length of the path in osu!pixels
func (slider *Slider) GetLength() float64 {
	return slider.cumulative[len(slider.cumulative)-1]
}

// PositionAt returns the path offset from the head at progress 0..1 of arc length
func (slider *Slider) PositionAt(progress float64) mgl64.Vec2 {
	length := slider.GetLength()
	if length <= 0 {
		return mgl64.Vec2{}
	}

	target := min(max(progress, 0), 1) * length

	i := sort.SearchFloat64s(slider.cumulative, target)

	if i <= 0 {
		return slider.path[0]
	}

	if i >= len(slider.path) {
		return slider.path[len(slider.path)-1]
	}

	segStart, segEnd := slider.cumulative[i-1], slider.cumulative[i]
	if segEnd == segStart {
		return slider.path[i]
	}

	t := (target - segStart) / (segEnd - segStart)

	return slider.path[i-1].Add(slider.path[i].Sub(slider.path[i-1]).Mul(t))
}

// ProgressAt returns path progress at the given time, reversing on odd spans
func (slider *Slider) ProgressAt(time float64) float64 {
	if slider.SpanDuration <= 0 {
		return 0
	}

	t := (min(max(time, slider.StartTime), slider.EndTime) - slider.StartTime) / slider.SpanDuration

	span := math.Floor(t)
	if span >= float64(slider.RepeatCount) {
		span = float64(slider.RepeatCount - 1)
	}

	progress := t - span

	if int(span)%2 == 1 {
		progress = 1 - progress
	}

	return progress
}

// GetPositionAt returns the absolute stacked position at the given time
func (slider *Slider) GetPositionAt(time float64) mgl64.Vec2 {
	return slider.StartPosition.Add(slider.PositionAt(slider.ProgressAt(time)))
}

func (slider *Slider) GetStackedPositionAtMod(time float64, mods difficulty.Modifier) mgl64.Vec2 {
	return ModifyPosition(slider.GetPositionAt(time), mods)
}

// NestedObjects returns the head followed by all score points
func (slider *Slider) NestedObjects() []ScorePoint {
	nested := make([]ScorePoint, 0, len(slider.ScorePoints)+1)
	nested = append(nested, ScorePoint{
		Time:     slider.StartTime,
		Position: slider.StartPosition,
		Kind:     HeadPoint,
	})

	return append(nested, slider.ScorePoints...)
}

func (slider *Slider) generateScorePoints() {
	slider.ScorePoints = slider.ScorePoints[:0]

	for span := 0; span < slider.RepeatCount; span++ {
		spanStart := slider.StartTime + float64(span)*slider.SpanDuration

		if slider.TickInterval > 0 {
			ticks := make([]float64, 0, 8)

			for d := slider.TickInterval; d < slider.SpanDuration-tickEndLeniency && len(ticks) < maxTicksPerSpan; d += slider.TickInterval {
				ticks = append(ticks, d)
			}

			if span%2 == 1 {
				// reverse spans traverse the same path positions backwards
				for i := len(ticks) - 1; i >= 0; i-- {
					slider.addPoint(spanStart+slider.SpanDuration-ticks[i], TickPoint, span)
				}
			} else {
				for _, d := range ticks {
					slider.addPoint(spanStart+d, TickPoint, span)
				}
			}
		}

		if span < slider.RepeatCount-1 {
			slider.addPoint(spanStart+slider.SpanDuration, RepeatPoint, span)
		}
	}

	slider.addPoint(slider.EndTime, TailPoint, slider.RepeatCount-1)
}

func (slider *Slider) addPoint(time float64, kind PointKind, span int) {
	slider.ScorePoints = append(slider.ScorePoints, ScorePoint{
		Time:     time,
		Position: slider.GetPositionAt(time),
		Kind:     kind,
		Span:     span,
	})
}
