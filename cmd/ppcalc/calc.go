package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/beatmap/mapfile"
	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/Givikap120/danser-pp/app/database"
	"github.com/Givikap120/danser-pp/app/replay"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap"
	"github.com/rs/zerolog/log"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type environment struct {
	out          io.Writer
	format       string
	experimental bool
	extension    string

	cache *database.AttributeCache

	diffCalc api.IDifficultyCalculator
}

type loadedMap struct {
	m    *mapfile.Map
	objs []objects.IHitObject
	diff *difficulty.Difficulty
	rate float64
}

type scoreInput struct {
	combo    int
	ok       int
	meh      int
	miss     int
	accuracy float64
}

func scoreFlags() scoreInput {
	return scoreInput{
		combo:    *scoreCombo,
		ok:       *scoreOk,
		meh:      *scoreMeh,
		miss:     *scoreMiss,
		accuracy: *scoreAccuracy,
	}
}

func version() string {
	calc := flowsnap.NewDifficultyCalculator()
	return fmt.Sprintf("%d (%s)", calc.GetVersion(), calc.GetVersionMessage())
}

func (env *environment) calculator() api.IDifficultyCalculator {
	if env.diffCalc == nil {
		env.diffCalc = flowsnap.NewDifficultyCalculator()
	}

	return env.diffCalc
}

func (env *environment) close() {
	if env.cache != nil {
		if err := env.cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close attribute cache")
		}

		env.cache = nil
	}
}

// pruneCache drops attributes calculated by other versions of the calculator
func (env *environment) pruneCache() error {
	if env.cache == nil {
		log.Warn().Msg("Attribute cache is disabled, nothing to prune")
		return nil
	}

	removed, err := env.cache.Prune(env.calculator().GetVersion())
	if err != nil {
		return err
	}

	log.Info().Int64("removed", removed).Msg("Pruned attribute cache")

	return nil
}

func loadMap(path, modString string, rate float64) (*loadedMap, error) {
	mods, err := difficulty.ParseMods(modString)
	if err != nil {
		return nil, err
	}

	return loadMapWithMods(path, mods, rate)
}

func loadMapWithMods(path string, mods difficulty.Modifier, rate float64) (*loadedMap, error) {
	m, err := mapfile.Load(path)
	if err != nil {
		return nil, err
	}

	objs, err := m.HitObjects()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	diff := m.Difficulty(mods)

	if rate > 0 {
		diff.SetCustomSpeed(rate)
	}

	return &loadedMap{m: m, objs: objs, diff: diff, rate: rate}, nil
}

// attributes goes through the attribute cache when one is configured
func (env *environment) attributes(lm *loadedMap) (api.Attributes, error) {
	calculate := func() api.Attributes {
		return env.calculator().CalculateSingle(lm.objs, lm.diff)
	}

	if env.cache == nil {
		return calculate(), nil
	}

	key := database.NewKey(lm.m.Checksum, lm.diff, env.calculator().GetVersion())

	return env.cache.GetOrCalculate(key, calculate)
}

func (env *environment) runDifficulty(ctx context.Context, flags mapFlags, step bool, batch []string) error {
	lm, err := loadMap(*flags.path, *flags.mods, *flags.rate)
	if err != nil {
		return err
	}

	if step {
		stars := env.calculator().CalculateStep(lm.objs, lm.diff)

		return env.render(stars, func(w io.Writer) {
			renderStep(w, lm.objs, stars)
		})
	}

	if len(batch) > 0 {
		return env.runBatch(ctx, lm, batch)
	}

	attr, err := env.attributes(lm)
	if err != nil {
		return err
	}

	return env.render(attr, func(w io.Writer) {
		renderAttributes(w, []string{modName(lm.diff.Mods)}, []api.Attributes{attr}, env.experimental)
	})
}

func (env *environment) runBatch(ctx context.Context, lm *loadedMap, batch []string) error {
	diffs := []*difficulty.Difficulty{lm.diff}
	names := []string{modName(lm.diff.Mods)}

	for _, s := range batch {
		mods, err := difficulty.ParseMods(s)
		if err != nil {
			return err
		}

		diff := lm.m.Difficulty(mods)
		if lm.rate > 0 {
			diff.SetCustomSpeed(lm.rate)
		}

		diffs = append(diffs, diff)
		names = append(names, modName(mods))
	}

	results, err := env.calculator().CalculateBatch(ctx, lm.objs, diffs)
	if err != nil {
		return err
	}

	if env.cache != nil {
		for i, attr := range results {
			if err = env.cache.Put(database.NewKey(lm.m.Checksum, diffs[i], env.calculator().GetVersion()), attr); err != nil {
				return err
			}
		}
	}

	return env.render(results, func(w io.Writer) {
		renderAttributes(w, names, results, env.experimental)
	})
}

func (env *environment) runPerformance(flags mapFlags, replayFile string, input scoreInput) error {
	mods, err := difficulty.ParseMods(*flags.mods)
	if err != nil {
		return err
	}

	var play *replay.Play

	if replayFile != "" {
		if play, err = replay.Load(replayFile); err != nil {
			return err
		}

		mods = play.Mods

		log.Info().Str("player", play.Player).Stringer("mods", mods).Msg("Loaded replay")
	}

	lm, err := loadMapWithMods(*flags.path, mods, *flags.rate)
	if err != nil {
		return err
	}

	attr, err := env.attributes(lm)
	if err != nil {
		return err
	}

	score := input.toScore(attr)
	if play != nil {
		score = play.Score
	}

	perf := flowsnap.NewPPCalculator().Calculate(attr, score, lm.diff)

	if env.format == formatJSON && math.IsInf(perf.Deviation, 1) {
		// JSON has no infinity
		perf.Deviation = -1
	}

	return env.render(perf, func(w io.Writer) {
		renderPerformance(w, attr, perf, env.experimental)
	})
}

func (env *environment) runPeaks(flags mapFlags) error {
	lm, err := loadMap(*flags.path, *flags.mods, *flags.rate)
	if err != nil {
		return err
	}

	peaks := env.calculator().CalculateStrainPeaks(lm.objs, lm.diff)

	// Sections start counting from the second object, the first one has no strain
	first := lm.objs[min(1, len(lm.objs)-1)]

	return env.render(peaks, func(w io.Writer) {
		renderPeaks(w, peaks, first.GetStartTime(), lm.diff.Speed)
	})
}

func (env *environment) render(value any, table func(w io.Writer)) error {
	if env.format == formatJSON {
		return writeJSON(env.out, value)
	}

	table(env.out)

	return nil
}

func (input scoreInput) toScore(attr api.Attributes) api.Score {
	score := api.Score{
		MaxCombo:   input.combo,
		CountGreat: -1,
		CountOk:    input.ok,
		CountMeh:   input.meh,
		CountMiss:  input.miss,
		Accuracy:   -1,
	}

	if input.accuracy >= 0 {
		score.CountGreat, score.CountOk = countsFromAccuracy(attr.ObjectCount, input.miss, input.meh, input.accuracy/100)
	}

	return score
}

// countsFromAccuracy spreads the accuracy lost outside misses and 50s over 100s
func countsFromAccuracy(total, misses, mehs int, accuracy float64) (great, ok int) {
	remaining := max(0, total-misses-mehs)

	// accuracy*total*300 = 300*great + 100*ok + 50*meh, with great = remaining - ok
	ok = int(math.Round(1.5 * (float64(remaining) + float64(mehs)/6 - accuracy*float64(total))))
	ok = min(max(ok, 0), remaining)

	return remaining - ok, ok
}

func modName(mods difficulty.Modifier) string {
	if s := mods.String(); s != "" {
		return s
	}

	return "NM"
}
