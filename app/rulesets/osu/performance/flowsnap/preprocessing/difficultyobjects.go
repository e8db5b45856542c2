package preprocessing

import (
	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
)

// CreateDifficultyObjects builds one DifficultyObject per object except the first.
// Fewer than 2 objects produce an empty slice.
func CreateDifficultyObjects(objsB []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	if len(objsB) < 2 {
		return []*DifficultyObject{}
	}

	objs := make([]objects.IHitObject, len(objsB))

	for i, o := range objsB {
		if s, ok := o.(*objects.Slider); ok {
			objs[i] = NewLazySlider(s, d)
			continue
		}

		objs[i] = o
	}

	diffObjects := make([]*DifficultyObject, 0, len(objs)-1)

	for i := 1; i < len(objs); i++ {
		var lastLast objects.IHitObject
		if i > 1 {
			lastLast = objs[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(objs[i], lastLast, objs[i-1], d, &diffObjects, i-1))
	}

	return diffObjects
}
