// Package watcher regenerates artifacts when their vocabularies change.
//
// Local resources are watched with fsnotify and debounced, skipping writes
// that leave the content unchanged. Online resources are polled for their
// modification time.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/source"
)

const defaultDebounce = 500 * time.Millisecond

// Config configures watching.
type Config struct {
	// Debounce is how long changes accumulate before a regeneration.
	Debounce time.Duration
	// PollInterval is how often online resources are checked. Zero
	// disables polling.
	PollInterval time.Duration
}

// Regenerate is called with the resources that changed since the last
// call.
type Regenerate func(ctx context.Context, changed []string) error

// Watcher triggers a regeneration whenever a watched resource changes.
type Watcher struct {
	cfg        Config
	files      map[string]bool
	online     []string
	lm         config.LastModifier
	regenerate Regenerate
	fsw        *fsnotify.Watcher
	logger     *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]uint64

	// modified is the last seen modification time of each online resource.
	modified map[string]time.Time

	regenerations atomic.Int64
	failures      atomic.Int64
}

// Targets splits the resources of configs into local files (absolute
// paths, including the vocab list files) and online resources.
func Targets(configs []*config.Configuration) (local, online []string) {
	seen := make(map[string]bool)
	add := func(resource string) {
		if resource == "" {
			return
		}
		if !source.IsOnline(resource) {
			if abs, err := filepath.Abs(resource); err == nil {
				resource = abs
			}
		}
		if seen[resource] {
			return
		}
		seen[resource] = true
		if source.IsOnline(resource) {
			online = append(online, resource)
		} else {
			local = append(local, resource)
		}
	}

	for _, cfg := range configs {
		add(cfg.VocabListFile)
		for _, v := range cfg.VocabList {
			for _, resource := range v.InputResources {
				add(resource)
			}
			add(v.TermSelectionResource)
		}
	}
	return local, online
}

// New creates a watcher for the resources of configs. Online resources are
// checked through lm.
func New(cfg Config, configs []*config.Configuration, lm config.LastModifier, regenerate Regenerate, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	local, online := Targets(configs)
	files := make(map[string]bool, len(local))
	for _, path := range local {
		files[path] = true
	}

	return &Watcher{
		cfg:        cfg,
		files:      files,
		online:     online,
		lm:         lm,
		regenerate: regenerate,
		fsw:        fsw,
		logger:     logger,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]uint64),
		modified:   make(map[string]time.Time),
	}, nil
}

// Run watches until ctx is done. Failed regenerations are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addWatches(); err != nil {
		return err
	}
	started := time.Now()
	for _, resource := range w.online {
		w.modified[resource] = started
	}

	debounce := time.NewTicker(w.cfg.Debounce)
	defer debounce.Stop()

	var poll <-chan time.Time
	if w.cfg.PollInterval > 0 && len(w.online) > 0 {
		ticker := time.NewTicker(w.cfg.PollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	w.logger.Info("Watching vocabulary resources",
		slog.Int("files", len(w.files)),
		slog.Int("online", len(w.online)),
		slog.Duration("debounce", w.cfg.Debounce),
		slog.Duration("poll_interval", w.cfg.PollInterval))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-debounce.C:
			w.trigger(ctx, w.flushPending())

		case <-poll:
			w.trigger(ctx, w.pollOnline(ctx))
		}
	}
}

// Regenerations returns how many regenerations ran, and how many of them
// failed.
func (w *Watcher) Regenerations() (total, failed int64) {
	return w.regenerations.Load(), w.failures.Load()
}

// addWatches watches the directory of every local file and records the
// current content hashes.
func (w *Watcher) addWatches() error {
	dirs := make(map[string]bool)
	for path := range w.files {
		dirs[filepath.Dir(path)] = true
		if content, err := os.ReadFile(path); err == nil {
			w.setHash(path, xxhash.Sum64(content))
		}
	}

	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch directory [%s]: %w", dir, err)
		}
		w.logger.Debug("Watching directory", slog.String("path", dir))
	}
	return nil
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Resource change detected",
		slog.String("path", path),
		slog.String("op", event.Op.String()))
}

// flushPending returns the pending files whose content changed.
func (w *Watcher) flushPending() []string {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return nil
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	var changed []string
	for path := range toProcess {
		content, err := os.ReadFile(path)
		if err != nil {
			// Removed or mid-rename: the next write brings it back.
			w.logger.Warn("Failed to read changed resource",
				slog.String("path", path),
				slog.String("error", err.Error()))
			w.deleteHash(path)
			continue
		}

		hash := xxhash.Sum64(content)
		if old, ok := w.getHash(path); ok && old == hash {
			continue
		}
		w.setHash(path, hash)
		changed = append(changed, path)
	}
	sort.Strings(changed)
	return changed
}

// pollOnline returns the online resources modified since their last seen
// modification.
func (w *Watcher) pollOnline(ctx context.Context) []string {
	var changed []string
	for _, resource := range w.online {
		modified, err := w.lm.LastModified(ctx, resource)
		if err != nil {
			w.logger.Warn("Failed to check online resource",
				slog.String("resource", resource),
				slog.String("error", err.Error()))
			continue
		}
		if modified.After(w.modified[resource]) {
			w.modified[resource] = modified
			changed = append(changed, resource)
		}
	}
	return changed
}

func (w *Watcher) trigger(ctx context.Context, changed []string) {
	if len(changed) == 0 || ctx.Err() != nil {
		return
	}

	w.regenerations.Add(1)
	w.logger.Info("Regenerating artifacts", slog.Any("changed", changed))
	if err := w.regenerate(ctx, changed); err != nil {
		w.failures.Add(1)
		w.logger.Error("Regeneration failed", slog.String("error", err.Error()))
	}
}

func (w *Watcher) setHash(path string, hash uint64) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) getHash(path string) (uint64, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

func (w *Watcher) deleteHash(path string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, path)
}
