package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/pystyle/internal/types"
)

// DefaultWatchDelay collapses bursts of writes to one file into one check.
const DefaultWatchDelay = 100 * time.Millisecond

// ReportFunc receives the issues of a file re-checked after a change.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-checks Python files under a set of directories whenever they
// are written.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	report  ReportFunc
	logger  *zap.Logger
	delay   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher that checks files with engine and hands the
// results to report.
func NewWatcher(engine *Engine, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	return &Watcher{
		engine:  engine,
		watcher: fw,
		report:  report,
		logger:  engine.logger,
		delay:   DefaultWatchDelay,
		pending: make(map[string]*time.Timer),
	}, nil
}

// SetDelay changes how long the watcher waits after the last write.
func (w *Watcher) SetDelay(d time.Duration) {
	w.delay = d
}

// Add registers dir and all of its subdirectories.
func (w *Watcher) Add(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Run processes file events until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch events dropped", zap.Error(err))
				continue
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create) && isDir(event.Name):
		if err := w.Add(event.Name); err != nil {
			w.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
		}
	case event.Has(fsnotify.Write) && strings.HasSuffix(event.Name, ".py"):
		w.schedule(event.Name)
	}
}

// schedule checks filename once no further write arrived within the delay.
func (w *Watcher) schedule(filename string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[filename]; ok && timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[filename] == timer {
			delete(w.pending, filename)
		}
		w.mu.Unlock()
		w.check(filename)
	})
	w.pending[filename] = timer
}

func (w *Watcher) check(filename string) {
	issues, err := w.engine.Run(filename)
	if err != nil {
		w.logger.Error("error checking file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.report(filename, issues)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for name, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, name)
	}
	w.mu.Unlock()

	w.wg.Wait()
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
}
