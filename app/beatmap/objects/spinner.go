package objects

import "github.com/go-gl/mathgl/mgl64"

type Spinner struct {
	*HitObject
}

func NewSpinner(startTime, endTime float64, newCombo bool) *Spinner {
	center := mgl64.Vec2{PlayfieldWidth / 2, PlayfieldHeight / 2}

	return &Spinner{
		HitObject: &HitObject{
			StartPosition: center,
			EndPosition:   center,
			StartTime:     startTime,
			EndTime:       max(startTime, endTime),
			NewCombo:      newCombo,
		},
	}
}

func (spinner *Spinner) GetType() Type {
	return SPINNER
}
