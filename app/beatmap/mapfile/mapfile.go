package mapfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrNoObjects = errors.New("map has no objects")

type ObjectDef struct {
	Type     string  `json:"type"`
	Time     float64 `json:"time"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	NewCombo bool    `json:"newCombo"`

	EndTime      float64      `json:"endTime,omitempty"`
	Repeats      int          `json:"repeats,omitempty"`
	TickInterval float64      `json:"tickInterval,omitempty"`
	Path         [][2]float64 `json:"path,omitempty"`
}

// Map is a playfield object list with base settings. Positions are already stacked.
type Map struct {
	HP float64 `json:"hp"`
	CS float64 `json:"cs"`
	OD float64 `json:"od"`
	AR float64 `json:"ar"`

	Objects []ObjectDef `json:"objects"`

	// Checksum is the hex sha256 of the source bytes
	Checksum string `json:"-"`
}

func Load(path string) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}

	defer file.Close()

	m, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func Parse(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	m := new(Map)

	if err = json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}

	if len(m.Objects) == 0 {
		return nil, ErrNoObjects
	}

	sum := sha256.Sum256(data)
	m.Checksum = hex.EncodeToString(sum[:])

	return m, nil
}

// Difficulty returns base settings with mods applied
func (m *Map) Difficulty(mods difficulty.Modifier) *difficulty.Difficulty {
	diff := difficulty.NewDifficulty(m.HP, m.CS, m.OD, m.AR)
	diff.SetMods(mods)

	return diff
}

// HitObjects builds the playfield objects sorted by start time
func (m *Map) HitObjects() ([]objects.IHitObject, error) {
	defs := slices.Clone(m.Objects)
	slices.SortStableFunc(defs, func(a, b ObjectDef) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}

		return 0
	})

	result := make([]objects.IHitObject, 0, len(defs))

	for i, def := range defs {
		o, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("object %d at %vms: %w", i, def.Time, err)
		}

		result = append(result, o)
	}

	objects.SetIDs(result)

	return result, nil
}

func (def ObjectDef) build() (objects.IHitObject, error) {
	position := mgl64.Vec2{def.X, def.Y}

	switch def.Type {
	case "circle", "":
		return objects.NewCircle(def.Time, position, def.NewCombo), nil
	case "slider":
		if def.EndTime < def.Time {
			return nil, fmt.Errorf("slider ends before it starts (%v)", def.EndTime)
		}

		path := make([]mgl64.Vec2, len(def.Path))
		for i, p := range def.Path {
			path[i] = mgl64.Vec2{p[0], p[1]}
		}

		return objects.NewSlider(def.Time, def.EndTime, position, path, def.Repeats, def.TickInterval, def.NewCombo), nil
	case "spinner":
		if def.EndTime < def.Time {
			return nil, fmt.Errorf("spinner ends before it starts (%v)", def.EndTime)
		}

		return objects.NewSpinner(def.Time, def.EndTime, def.NewCombo), nil
	}

	return nil, fmt.Errorf("unknown object type %q", def.Type)
}
