package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDelay coalesces the burst of events editors emit on save.
var reloadDelay = 250 * time.Millisecond

// Watch reloads path whenever it changes and sends each valid configuration
// on the returned channel. Invalid edits are logged and skipped. The
// directory is watched so atomic-rename saves are picked up. The channel is
// closed when ctx is done.
func Watch(ctx context.Context, path string, logger zerolog.Logger) (<-chan *Config, error) {
	log := logger.With().Str("component", "config").Str("path", path).Logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan *Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		timer := time.NewTimer(reloadDelay)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					log.Debug().Str("op", event.Op.String()).Msg("config change detected")
					timer.Reset(reloadDelay)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")

			case <-timer.C:
				cfg, err := Load(abs)
				if err != nil {
					log.Error().Err(err).Msg("ignoring invalid config change")
					continue
				}
				log.Info().Msg("config reloaded")
				select {
				case <-out:
				default:
				}
				out <- cfg
			}
		}
	}()
	return out, nil
}
