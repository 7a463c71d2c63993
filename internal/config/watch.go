package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads an OrchestratorConfig whenever its file (or an
// $include'd file discovered at watch-start time) changes on disk, and
// invokes onChange with the freshly validated config. A write that fails to
// parse or validate is logged and the previous config stays in effect; it
// never panics or brings down the caller.
type ConfigWatcher struct {
	path     string
	onChange func(*OrchestratorConfig)
	logger   *slog.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// WatchOrchestratorConfig starts watching path (and any files it
// $include's as of this call) for changes, calling onChange with each
// successfully reloaded config. Call Close to stop watching.
func WatchOrchestratorConfig(ctx context.Context, path string, onChange func(*OrchestratorConfig)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     path,
		onChange: onChange,
		logger:   slog.Default().With("component", "config_watcher"),
		debounce: 250 * time.Millisecond,
		watcher:  watcher,
	}

	for _, p := range includedPaths(path) {
		if err := watcher.Add(p); err != nil {
			cw.logger.Warn("watch config file failed", "path", p, "error", err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	cw.cancel = cancel
	cw.wg.Add(1)
	go cw.loop(watchCtx)
	return cw, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (cw *ConfigWatcher) Close() error {
	cw.cancel()
	err := cw.watcher.Close()
	cw.wg.Wait()
	return err
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	defer cw.wg.Done()

	var mu sync.Mutex
	var timer *time.Timer
	scheduleReload := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(cw.debounce, cw.reload)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watch error", "error", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadOrchestratorConfig(cw.path)
	if err != nil {
		cw.logger.Warn("config reload failed, keeping previous config", "path", cw.path, "error", err)
		return
	}
	cw.logger.Info("config reloaded", "path", cw.path)
	cw.onChange(cfg)
}

// includedPaths returns path plus every file it directly $include's,
// resolved relative to path's directory. Best-effort: a file that doesn't
// parse yet is simply left unwatched rather than failing the whole setup,
// since the caller's own LoadOrchestratorConfig call will have already
// surfaced any real config error before the watcher is started.
func includedPaths(path string) []string {
	paths := []string{path}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return paths
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return paths
	}
	raw, err := parseRawBytes([]byte(os.ExpandEnv(string(data))), absPath)
	if err != nil {
		return paths
	}
	includes, err := extractIncludes(raw)
	if err != nil {
		return paths
	}

	baseDir := filepath.Dir(absPath)
	for _, inc := range includes {
		if strings.TrimSpace(inc) == "" {
			continue
		}
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, incPath)
		}
		paths = append(paths, incPath)
	}
	return paths
}
