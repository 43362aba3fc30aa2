package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceWindow coalesces the write bursts editors produce into one reload.
const debounceWindow = 200 * time.Millisecond

// Watch re-reads the config file whenever it changes and invokes onChange
// with the freshly loaded configuration. It blocks until ctx is canceled.
// The watcher observes the config directory rather than the file itself so
// atomic rename-based saves are picked up.
func Watch(ctx context.Context, overrides FlagOverrides, log zerolog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := Dir()
	if err := watcher.Add(dir); err != nil {
		// Missing config dir just means there is nothing to watch yet.
		log.Debug().Str("dir", dir).Err(err).Msg("config watch disabled")
		<-ctx.Done()
		return nil
	}

	target := filepath.Base(Path())
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load(overrides)
			if err != nil {
				log.Warn().Err(err).Msg("config reload failed")
				continue
			}
			log.Debug().Msg("config reloaded")
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watch error")
		}
	}
}
