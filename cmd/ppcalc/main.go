package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Givikap120/danser-pp/app/database"
	"github.com/Givikap120/danser-pp/app/settings"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("ppcalc", "Star rating and performance calculator for osu!standard maps")

	configDir = app.Flag("config", "Directory containing ppcalc.json").Default(".").String()
	logLevel  = app.Flag("log-level", "Overrides logLevel from settings").Short('l').String()
	output    = app.Flag("output", "Overrides output format from settings (table, json)").Short('o').String()
	prune     = app.Flag("prune", "Remove cached attributes of other calculator versions first").Bool()

	difficultyCmd   = app.Command("difficulty", "Calculate star rating")
	difficultyMap   = addMapFlags(difficultyCmd)
	difficultyStep  = difficultyCmd.Flag("step", "Print star rating after every object").Bool()
	difficultyBatch = difficultyCmd.Flag("batch", "Additional mod combinations calculated in parallel, repeatable").Strings()

	performanceCmd = app.Command("performance", "Calculate performance points of a play")
	performanceMap = addMapFlags(performanceCmd)
	replayPath     = performanceCmd.Flag("replay", "Take mods and judgements from a replay").ExistingFile()
	scoreCombo     = performanceCmd.Flag("combo", "Max combo, full combo if negative").Default("-1").Int()
	scoreOk        = performanceCmd.Flag("n100", "Amount of 100s").Default("0").Int()
	scoreMeh       = performanceCmd.Flag("n50", "Amount of 50s").Default("0").Int()
	scoreMiss      = performanceCmd.Flag("misses", "Amount of misses").Short('x').Default("0").Int()
	scoreAccuracy  = performanceCmd.Flag("acc", "Accuracy in percent, derives 100s when set").Short('a').Default("-1").Float64()

	peaksCmd = app.Command("peaks", "Print per-section strain peaks")
	peaksMap = addMapFlags(peaksCmd)

	watchCmd = app.Command("watch", "Calculate performance of replays as they appear in a directory")
	watchMap = watchCmd.Arg("map", "Map file").Required().ExistingFile()
	watchDir = watchCmd.Arg("directory", "Replay directory").Required().ExistingDir()
)

type mapFlags struct {
	path *string
	mods *string
	rate *float64
}

func addMapFlags(cmd *kingpin.CmdClause) mapFlags {
	return mapFlags{
		path: cmd.Arg("map", "Map file").Required().ExistingFile(),
		mods: cmd.Flag("mods", "Mod acronyms, e.g. HDDT").Short('m').Default("NM").String(),
		rate: cmd.Flag("rate", "Custom clock rate, overrides DT/HT").Short('r').Default("0").Float64(),
	}
}

func main() {
	app.Version(version())
	app.HelpFlag.Short('h')

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := settings.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	level := settings.LogLevel()
	if *logLevel != "" {
		level = *logLevel
	}

	setupLogging(level)

	env, err := newEnvironment()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up")
	}

	defer env.close()

	if *prune {
		if err = env.pruneCache(); err != nil {
			log.Fatal().Err(err).Msg("Failed to prune attribute cache")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case difficultyCmd.FullCommand():
		err = env.runDifficulty(ctx, difficultyMap, *difficultyStep, *difficultyBatch)
	case performanceCmd.FullCommand():
		err = env.runPerformance(performanceMap, *replayPath, scoreFlags())
	case peaksCmd.FullCommand():
		err = env.runPeaks(peaksMap)
	case watchCmd.FullCommand():
		err = env.runWatch(ctx, *watchMap, *watchDir)
	}

	if err != nil {
		log.Error().Err(err).Msg("Calculation failed")
		env.close()
		os.Exit(1)
	}
}

func newEnvironment() (*environment, error) {
	env := &environment{
		out:          os.Stdout,
		format:       settings.Output(),
		experimental: settings.Experimental(),
		extension:    settings.WatchExtension(),
	}

	if *output != "" {
		env.format = strings.ToLower(*output)
	}

	if env.format != formatTable && env.format != formatJSON {
		log.Warn().Str("output", env.format).Msg("Unknown output format, using table")
		env.format = formatTable
	}

	if settings.CacheEnabled() {
		cache, err := database.Open(settings.CachePath())
		if err != nil {
			return nil, err
		}

		env.cache = cache
	}

	return env, nil
}

func setupLogging(level string) {
	var logLevelActual zerolog.Level

	switch strings.ToUpper(level) {
	case "TRACE":
		logLevelActual = zerolog.TraceLevel
	case "DEBUG":
		logLevelActual = zerolog.DebugLevel
	case "WARN":
		logLevelActual = zerolog.WarnLevel
	case "ERROR":
		logLevelActual = zerolog.ErrorLevel
	default:
		logLevelActual = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevelActual)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}
