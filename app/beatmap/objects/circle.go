package objects

import "github.com/go-gl/mathgl/mgl64"

type Circle struct {
	*HitObject
}

func NewCircle(time float64, position mgl64.Vec2, newCombo bool) *Circle {
	return &Circle{
		HitObject: &HitObject{
			StartPosition: position,
			EndPosition:   position,
			StartTime:     time,
			EndTime:       time,
			NewCombo:      newCombo,
		},
	}
}

func (circle *Circle) GetType() Type {
	return CIRCLE
}
