package replay

import (
	"errors"
	"fmt"
	"os"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/wieku/rplpa"
)

var ErrUnsupportedMode = errors.New("only osu!standard replays are supported")

// Play is the part of a replay the performance calculator needs
type Play struct {
	Player     string
	BeatmapMD5 string
	Mods       difficulty.Modifier
	Score      api.Score
}

func Load(path string) (*Play, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}

	play, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return play, nil
}

func Parse(data []byte) (*Play, error) {
	r, err := rplpa.ParseReplay(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse replay: %w", err)
	}

	return FromReplay(r)
}

// FromReplay converts parsed replay headers. Accuracy is left for the calculator to derive from the counts.
func FromReplay(r *rplpa.Replay) (*Play, error) {
	if r.PlayMode != 0 {
		return nil, fmt.Errorf("%w (mode %d)", ErrUnsupportedMode, r.PlayMode)
	}

	return &Play{
		Player:     r.Username,
		BeatmapMD5: r.BeatmapMD5,
		Mods:       difficulty.Modifier(r.Mods),
		Score: api.Score{
			MaxCombo:   int(r.MaxCombo),
			CountGreat: int(r.Count300),
			CountOk:    int(r.Count100),
			CountMeh:   int(r.Count50),
			CountMiss:  int(r.CountMiss),
			Accuracy:   -1,
		},
	}, nil
}
