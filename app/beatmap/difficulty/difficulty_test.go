package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyRate(t *testing.T) {
	assert.Equal(t, PreemptMax, DifficultyRate(0, PreemptMax, PreemptMid, PreemptMin))
	assert.Equal(t, PreemptMid, DifficultyRate(5, PreemptMax, PreemptMid, PreemptMin))
	assert.Equal(t, PreemptMin, DifficultyRate(10, PreemptMax, PreemptMid, PreemptMin))

	for _, ar := range []float64{0, 3, 5, 8.5, 10} {
		assert.InDelta(t, ar, PreemptToAR(DifficultyRate(ar, PreemptMax, PreemptMid, PreemptMin)), 1e-9)
	}
}

func TestSpeedMods(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	assert.Equal(t, 1.0, diff.Speed)

	diff.SetMods(DoubleTime)
	assert.Equal(t, 1.5, diff.Speed)
	assert.InDelta(t, 10.333, diff.ARReal, 1e-3)
	assert.Greater(t, diff.ODReal, 8.0)

	diff.SetMods(HalfTime)
	assert.Equal(t, 0.75, diff.Speed)

	diff.SetCustomSpeed(2)
	assert.Equal(t, 2.0, diff.Speed)
}

func TestHardRockAndEasy(t *testing.T) {
	diff := NewDifficulty(5, 5, 8, 9)

	diff.SetMods(HardRock)
	assert.Equal(t, 10.0, diff.AR)
	assert.InDelta(t, 6.5, diff.CS, 1e-12)

	diff.SetMods(Easy)
	assert.Equal(t, 4.5, diff.AR)
	assert.Equal(t, 2.5, diff.CS)
}

func TestParseMods(t *testing.T) {
	mods, err := ParseMods("hdnc")
	require.NoError(t, err)

	assert.True(t, mods.Active(Hidden))
	assert.True(t, mods.Active(DoubleTime))
	assert.Equal(t, "HDNC", mods.String())

	mods, err = ParseMods("NM")
	require.NoError(t, err)
	assert.Equal(t, None, mods)

	_, err = ParseMods("HDX")
	assert.Error(t, err)

	_, err = ParseMods("ZZ")
	assert.Error(t, err)
}

func TestDiffMaskedMods(t *testing.T) {
	assert.Equal(t, Hidden|DoubleTime, GetDiffMaskedMods(Hidden|DoubleTime|NoFail|ScoreV2))
}
