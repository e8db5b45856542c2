package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Givikap120/danser-pp/app/beatmap/mapfile"
	"github.com/Givikap120/danser-pp/app/database"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMap stores a map of count circles jumping across the playfield every interval ms
func writeMap(t *testing.T, count int, interval float64) string {
	t.Helper()

	m := mapfile.Map{HP: 5, CS: 4, OD: 8, AR: 9}

	for i := 0; i < count; i++ {
		m.Objects = append(m.Objects, mapfile.ObjectDef{
			Type:     "circle",
			Time:     1000 + float64(i)*interval,
			X:        100 + float64(i%2)*300,
			Y:        100 + float64(i%3)*80,
			NewCombo: i%8 == 0,
		})
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	return path
}

func newTestEnv(format string) (*environment, *bytes.Buffer) {
	out := new(bytes.Buffer)

	return &environment{out: out, format: format, extension: ".osr"}, out
}

func flagsFor(path, mods string) mapFlags {
	rate := 0.0
	return mapFlags{path: &path, mods: &mods, rate: &rate}
}

func TestCountsFromAccuracy(t *testing.T) {
	tests := []struct {
		name             string
		total, miss, meh int
		accuracy         float64
		expGreat, expOk  int
	}{
		{"ss", 100, 0, 0, 1, 100, 0},
		{"hundreds only", 100, 0, 0, 0.98, 97, 3},
		{"with misses and fifties", 100, 2, 2, 0.95, 94, 2},
		{"clamped", 100, 0, 0, 0, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			great, ok := countsFromAccuracy(tt.total, tt.miss, tt.meh, tt.accuracy)

			assert.Equal(t, tt.expGreat, great)
			assert.Equal(t, tt.expOk, ok)
		})
	}
}

func TestToScore(t *testing.T) {
	attr := api.Attributes{ObjectCount: 100}

	score := scoreInput{combo: -1, miss: 1, accuracy: -1}.toScore(attr)
	assert.Equal(t, -1, score.CountGreat)
	assert.Equal(t, -1, score.MaxCombo)
	assert.Equal(t, 1, score.CountMiss)

	score = scoreInput{combo: 50, accuracy: 98}.toScore(attr)
	assert.Equal(t, 97, score.CountGreat)
	assert.Equal(t, 3, score.CountOk)
	assert.Equal(t, 50, score.MaxCombo)
}

func TestRunDifficultyTable(t *testing.T) {
	env, out := newTestEnv(formatTable)
	env.experimental = true

	require.NoError(t, env.runDifficulty(context.Background(), flagsFor(writeMap(t, 40, 200), "HD"), false, nil))

	assert.Contains(t, out.String(), "Stars")
	assert.Contains(t, out.String(), "Snap")
	assert.Contains(t, out.String(), "Difficult sliders")
	assert.Contains(t, out.String(), "HD")
}

func TestRunDifficultyJSON(t *testing.T) {
	env, out := newTestEnv(formatJSON)

	require.NoError(t, env.runDifficulty(context.Background(), flagsFor(writeMap(t, 40, 200), "NM"), false, nil))

	var attr api.Attributes
	require.NoError(t, json.Unmarshal(out.Bytes(), &attr))

	assert.Greater(t, attr.Total, 0.0)
	assert.Equal(t, 40, attr.ObjectCount)
}

func TestRunDifficultyBatch(t *testing.T) {
	env, out := newTestEnv(formatJSON)

	require.NoError(t, env.runDifficulty(context.Background(), flagsFor(writeMap(t, 40, 200), "NM"), false, []string{"DT", "HT"}))

	var attrs []api.Attributes
	require.NoError(t, json.Unmarshal(out.Bytes(), &attrs))
	require.Len(t, attrs, 3)

	assert.Greater(t, attrs[1].Total, attrs[0].Total)
	assert.Less(t, attrs[2].Total, attrs[0].Total)

	out.Reset()
	assert.Error(t, env.runDifficulty(context.Background(), flagsFor(writeMap(t, 40, 200), "NM"), false, []string{"XX"}))
}

func TestRunDifficultyStep(t *testing.T) {
	env, out := newTestEnv(formatJSON)

	require.NoError(t, env.runDifficulty(context.Background(), flagsFor(writeMap(t, 20, 200), "NM"), true, nil))

	var attrs []api.Attributes
	require.NoError(t, json.Unmarshal(out.Bytes(), &attrs))
	assert.Len(t, attrs, 20)
}

func TestRunDifficultyErrors(t *testing.T) {
	env, _ := newTestEnv(formatTable)

	err := env.runDifficulty(context.Background(), flagsFor(writeMap(t, 10, 200), "QQ"), false, nil)
	assert.Error(t, err)

	err = env.runDifficulty(context.Background(), flagsFor(filepath.Join(t.TempDir(), "missing.json"), "NM"), false, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunDifficultyUsesCache(t *testing.T) {
	cache, err := database.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	env, _ := newTestEnv(formatJSON)
	env.cache = cache
	t.Cleanup(env.close)

	path := writeMap(t, 30, 200)
	require.NoError(t, env.runDifficulty(context.Background(), flagsFor(path, "HR"), false, nil))

	lm, err := loadMap(path, "HR", 0)
	require.NoError(t, err)

	attr, found, err := cache.Get(database.NewKey(lm.m.Checksum, lm.diff, env.calculator().GetVersion()))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Greater(t, attr.Total, 0.0)
}

func TestPruneCache(t *testing.T) {
	env, _ := newTestEnv(formatJSON)
	require.NoError(t, env.pruneCache())

	cache, err := database.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	env.cache = cache
	t.Cleanup(env.close)

	lm, err := loadMap(writeMap(t, 10, 200), "NM", 0)
	require.NoError(t, err)

	current := database.NewKey(lm.m.Checksum, lm.diff, env.calculator().GetVersion())
	stale := database.NewKey(lm.m.Checksum, lm.diff, env.calculator().GetVersion()-1)

	require.NoError(t, cache.Put(current, api.Attributes{Total: 2}))
	require.NoError(t, cache.Put(stale, api.Attributes{Total: 1}))

	require.NoError(t, env.pruneCache())

	_, found, err := cache.Get(stale)
	require.NoError(t, err)
	assert.False(t, found)

	attr, found, err := cache.Get(current)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2.0, attr.Total)
}

func TestRunPerformance(t *testing.T) {
	path := writeMap(t, 60, 180)

	env, out := newTestEnv(formatJSON)
	require.NoError(t, env.runPerformance(flagsFor(path, "NM"), "", scoreInput{combo: -1, accuracy: -1}))

	var ss api.PerformanceAttributes
	require.NoError(t, json.Unmarshal(out.Bytes(), &ss))

	out.Reset()
	require.NoError(t, env.runPerformance(flagsFor(path, "NM"), "", scoreInput{combo: 30, miss: 2, accuracy: 95}))

	var worse api.PerformanceAttributes
	require.NoError(t, json.Unmarshal(out.Bytes(), &worse))

	assert.Greater(t, ss.Total, worse.Total)
	assert.Greater(t, worse.Deviation, ss.Deviation)
	assert.Zero(t, ss.EffectiveMissCount)
}

func TestRunPeaks(t *testing.T) {
	env, out := newTestEnv(formatTable)

	require.NoError(t, env.runPeaks(flagsFor(writeMap(t, 30, 200), "NM")))

	assert.Contains(t, out.String(), "Ends at")
	assert.Contains(t, out.String(), "00:01.600")
}

func TestRenderPerformanceWithoutHits(t *testing.T) {
	out := new(bytes.Buffer)

	renderPerformance(out, api.Attributes{Total: 5}, api.PerformanceAttributes{Deviation: math.Inf(1)}, true)

	assert.Contains(t, out.String(), "Deviation")
	assert.Contains(t, out.String(), "5.00*")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00.000", formatTime(0))
	assert.Equal(t, "01:02.345", formatTime(62345))
}

func TestMatchesExtension(t *testing.T) {
	env, _ := newTestEnv(formatTable)

	assert.True(t, env.matchesExtension("/replays/play.osr"))
	assert.True(t, env.matchesExtension("/replays/PLAY.OSR"))
	assert.False(t, env.matchesExtension("/replays/play.osr.tmp"))
	assert.False(t, env.matchesExtension("/replays/map.json"))
}

func TestWatchLoop(t *testing.T) {
	env, _ := newTestEnv(formatTable)

	events := make(chan fsnotify.Event)
	errs := make(chan error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string

	process := func(path string) error {
		calls = append(calls, path)

		// The first attempt sees a partially written file
		if len(calls) == 1 {
			return errors.New("unexpected EOF")
		}

		return nil
	}

	done := make(chan error)
	go func() {
		done <- env.watchLoop(ctx, events, errs, process)
	}()

	events <- fsnotify.Event{Name: "a.osr", Op: fsnotify.Create}
	events <- fsnotify.Event{Name: "a.osr", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "a.osr", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "notes.txt", Op: fsnotify.Create}
	events <- fsnotify.Event{Name: "b.osr", Op: fsnotify.Remove}
	errs <- errors.New("overflow")
	events <- fsnotify.Event{Name: "c.osr", Op: fsnotify.Create}

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"a.osr", "a.osr", "c.osr"}, calls)
}
