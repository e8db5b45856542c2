package objects

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	PlayfieldWidth  = 512.0
	PlayfieldHeight = 384.0
)

type Type int

const (
	CIRCLE Type = iota
	SLIDER
	SPINNER
)

func (t Type) String() string {
	switch t {
	case CIRCLE:
		return "circle"
	case SLIDER:
		return "slider"
	case SPINNER:
		return "spinner"
	}

	return "unknown"
}

type IHitObject interface {
	GetID() int
	GetType() Type

	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetStackedStartPosition() mgl64.Vec2
	GetStackedEndPosition() mgl64.Vec2
	GetStackedStartPositionMod(mods difficulty.Modifier) mgl64.Vec2
	GetStackedEndPositionMod(mods difficulty.Modifier) mgl64.Vec2

	IsNewCombo() bool
}

// HitObject holds fields shared by all object kinds. Positions are already stacked.
type HitObject struct {
	ID int

	StartPosition mgl64.Vec2
	EndPosition   mgl64.Vec2

	StartTime float64
	EndTime   float64

	NewCombo bool
}

func (hitObject *HitObject) GetID() int {
	return hitObject.ID
}

func (hitObject *HitObject) GetStartTime() float64 {
	return hitObject.StartTime
}

func (hitObject *HitObject) GetEndTime() float64 {
	return hitObject.EndTime
}

func (hitObject *HitObject) GetDuration() float64 {
	return hitObject.EndTime - hitObject.StartTime
}

func (hitObject *HitObject) GetStackedStartPosition() mgl64.Vec2 {
	return hitObject.StartPosition
}

func (hitObject *HitObject) GetStackedEndPosition() mgl64.Vec2 {
	return hitObject.EndPosition
}

func (hitObject *HitObject) GetStackedStartPositionMod(mods difficulty.Modifier) mgl64.Vec2 {
	return ModifyPosition(hitObject.StartPosition, mods)
}

func (hitObject *HitObject) GetStackedEndPositionMod(mods difficulty.Modifier) mgl64.Vec2 {
	return ModifyPosition(hitObject.EndPosition, mods)
}

func (hitObject *HitObject) IsNewCombo() bool {
	return hitObject.NewCombo
}

// ModifyPosition flips the playfield vertically under HardRock
func ModifyPosition(pos mgl64.Vec2, mods difficulty.Modifier) mgl64.Vec2 {
	if mods.Active(difficulty.HardRock) {
		return mgl64.Vec2{pos.X(), PlayfieldHeight - pos.Y()}
	}

	return pos
}

// ModifyOffset is ModifyPosition for relative vectors
func ModifyOffset(offset mgl64.Vec2, mods difficulty.Modifier) mgl64.Vec2 {
	if mods.Active(difficulty.HardRock) {
		return mgl64.Vec2{offset.X(), -offset.Y()}
	}

	return offset
}

// SetIDs numbers objects in slice order
func SetIDs(objs []IHitObject) {
	for i, o := range objs {
		switch obj := o.(type) {
		case *Circle:
			obj.ID = i
		case *Slider:
			obj.ID = i
		case *Spinner:
			obj.ID = i
		}
	}
}
