package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Givikap120/danser-pp/app/replay"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// runWatch calculates performance of every replay created in dir until ctx is done
func (env *environment) runWatch(ctx context.Context, mapPath, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	defer watcher.Close()

	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log.Info().Str("directory", dir).Str("extension", env.extension).Msg("Watching for replays")

	return env.watchLoop(ctx, watcher.Events, watcher.Errors, func(path string) error {
		return env.processReplay(mapPath, path)
	})
}

// watchLoop handles each matching file once. Files that fail to process are retried on their next write.
func (env *environment) watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, process func(path string) error) error {
	processed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("replays", len(processed)).Msg("Stopped watching")
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}

			log.Warn().Err(err).Msg("Watcher error")
		case event, ok := <-events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			if processed[event.Name] || !env.matchesExtension(event.Name) {
				continue
			}

			if err := process(event.Name); err != nil {
				log.Debug().Err(err).Str("file", event.Name).Msg("Replay not ready")
				continue
			}

			processed[event.Name] = true
		}
	}
}

func (env *environment) matchesExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), env.extension)
}

func (env *environment) processReplay(mapPath, path string) error {
	play, err := replay.Load(path)
	if err != nil {
		return err
	}

	lm, err := loadMapWithMods(mapPath, play.Mods, 0)
	if err != nil {
		return err
	}

	attr, err := env.attributes(lm)
	if err != nil {
		return err
	}

	perf := flowsnap.NewPPCalculator().Calculate(attr, play.Score, lm.diff)

	log.Info().
		Str("player", play.Player).
		Str("mods", modName(play.Mods)).
		Str("stars", stars(attr.Total)).
		Str("pp", pp(perf.Total)).
		Str("file", filepath.Base(path)).
		Msg("Replay calculated")

	return nil
}
