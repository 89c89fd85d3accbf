package teleport

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a configuration file whenever it changes on disk.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	base     Config
	onChange func(Config)
	log      *slog.Logger

	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// Watch starts watching the YAML file at path. Every successful reload is
// parsed on top of base and passed to onChange; failed reloads are logged
// and ignored. The directory is watched rather than the file so that
// editors replacing the file by rename are still noticed.
func Watch(path string, base Config, onChange func(Config), log *slog.Logger) (*ConfigWatcher, error) {
	if log == nil {
		log = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("teleport: failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("teleport: failed to resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("teleport: failed to watch %s: %w", path, err)
	}

	cw := &ConfigWatcher{
		watcher:  w,
		path:     abs,
		base:     base,
		onChange: onChange,
		log:      log,
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops watching.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
		<-cw.doneCh
	})
	return err
}

func (cw *ConfigWatcher) run() {
	defer close(cw.doneCh)

	// Reloads fire once the file has been quiet for reloadDebounce, so a
	// truncate followed by a write is read as a single change.
	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("teleport: config watcher error", "path", cw.path, "error", err)
		case <-cw.closeCh:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path, cw.base)
	if err != nil {
		cw.log.Warn("teleport: config reload failed", "path", cw.path, "error", err)
		return
	}
	cw.log.Info("teleport: config reloaded", "path", cw.path, "mode", cfg.Mode)
	if cw.onChange != nil {
		cw.onChange(cfg)
	}
}
