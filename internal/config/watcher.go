package config

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch monitors the config file and invokes onChange with a freshly loaded
// configuration whenever the file is rewritten. Reload failures keep the
// previous configuration and are logged, never fatal. Watch blocks until ctx
// is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if errClose := watcher.Close(); errClose != nil {
			log.Errorf("failed to close config watcher: %v", errClose)
		}
	}()

	// Watch the directory, not the file: editors and orchestrators replace
	// the file via rename, which drops a file-level watch.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var debounce *time.Timer
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts of events from a single save.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				cfg, errLoad := LoadConfig(path)
				if errLoad != nil {
					log.Warnf("config reload failed, keeping previous configuration: %v", errLoad)
					return
				}
				if warnings, errValidate := ValidateConfig(cfg); errValidate != nil {
					log.Warnf("reloaded config invalid, keeping previous configuration: %v", errValidate)
					return
				} else if len(warnings) > 0 {
					for _, w := range warnings {
						log.Warnf("config warning: %s", w)
					}
				}
				log.Infof("configuration reloaded from %s", path)
				onChange(cfg)
			})
		case errWatch, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errWatch != nil && !strings.Contains(errWatch.Error(), "bad file descriptor") {
				log.Warnf("config watcher error: %v", errWatch)
			}
		}
	}
}
