package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/rplpa"
)

func TestFromReplay(t *testing.T) {
	r := &rplpa.Replay{
		Username:   "player",
		BeatmapMD5: "d41d8cd98f00b204e9800998ecf8427e",
		Count300:   480,
		Count100:   12,
		Count50:    3,
		CountMiss:  1,
		MaxCombo:   611,
		Mods:       uint32(difficulty.Hidden | difficulty.HardRock),
	}

	play, err := FromReplay(r)
	require.NoError(t, err)

	assert.Equal(t, "player", play.Player)
	assert.Equal(t, r.BeatmapMD5, play.BeatmapMD5)
	assert.Equal(t, difficulty.Hidden|difficulty.HardRock, play.Mods)
	assert.Equal(t, api.Score{
		MaxCombo:   611,
		CountGreat: 480,
		CountOk:    12,
		CountMeh:   3,
		CountMiss:  1,
		Accuracy:   -1,
	}, play.Score)
}

func TestFromReplayRejectsOtherModes(t *testing.T) {
	_, err := FromReplay(&rplpa.Replay{PlayMode: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.osr"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.osr")
	require.NoError(t, os.WriteFile(garbage, []byte{0}, 0644))

	_, err = Load(garbage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse replay")
}
