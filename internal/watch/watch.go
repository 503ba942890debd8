// Package watch re-runs the book sync when chapter files at the book root
// change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Options select the files that trigger a sync.
type Options struct {
	Root     string
	Pattern  string
	Exclude  []string
	Debounce time.Duration
}

// Trigger runs after a quiet period with the root file names that changed.
type Trigger func(ctx context.Context, changed []string) error

// Watcher observes the book root. Only the root is watched; chapters never
// live in sub directories.
type Watcher struct {
	opts    Options
	trigger Trigger
	logger  interfaces.Logger
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	hashes  map[string]string
}

// New creates a watcher. Close releases the underlying fsnotify handle when
// Run is never called.
func New(opts Options, trigger Trigger, logger interfaces.Logger) (*Watcher, error) {
	if trigger == nil {
		return nil, errors.New("watch: trigger is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if strings.TrimSpace(opts.Pattern) == "" {
		opts.Pattern = "*.md"
	}
	if opts.Root == "" {
		opts.Root = "."
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	return &Watcher{
		opts:    opts,
		trigger: trigger,
		logger:  logging.Ensure(logger),
		fsw:     fsw,
		pending: map[string]fsnotify.Op{},
		hashes:  map[string]string{},
	}, nil
}

// Close stops the fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run watches until ctx is cancelled. The current chapter contents are
// recorded first so only real edits fire the trigger.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.Seed(); err != nil {
		return err
	}
	if err := w.fsw.Add(w.opts.Root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.opts.Root, err)
	}
	w.logger.Info("watch.started", "root", w.opts.Root, "debounce", w.opts.Debounce)

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.Observe(event.Name, event.Op) {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch.error", "error", err)

		case <-timer.C:
			if _, err := w.Flush(ctx); err != nil {
				w.logger.Error("watch.sync.failed", "error", err)
			}
		}
	}
}

// Seed records the hash of every chapter candidate at the root.
func (w *Watcher) Seed() error {
	entries, err := os.ReadDir(w.opts.Root)
	if err != nil {
		return fmt.Errorf("watch: list %s: %w", w.opts.Root, err)
	}

	hashes := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || !w.Matches(entry.Name()) {
			continue
		}
		sum, err := w.hash(entry.Name())
		if err != nil {
			continue
		}
		hashes[entry.Name()] = sum
	}

	w.mu.Lock()
	w.hashes = hashes
	w.mu.Unlock()
	return nil
}

// Matches reports whether a root file name is a chapter candidate.
func (w *Watcher) Matches(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if ok, _ := doublestar.Match(w.opts.Pattern, name); !ok {
		return false
	}
	for _, pattern := range w.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}
	return true
}

// Observe queues an event. It reports false when the event is ignored.
func (w *Watcher) Observe(path string, op fsnotify.Op) bool {
	name, ok := w.rootName(path)
	if !ok || !w.Matches(name) {
		return false
	}
	if op.Has(fsnotify.Chmod) && !op.Has(fsnotify.Write) && !op.Has(fsnotify.Create) &&
		!op.Has(fsnotify.Remove) && !op.Has(fsnotify.Rename) {
		return false
	}

	w.mu.Lock()
	w.pending[name] |= op
	w.mu.Unlock()

	w.logger.Debug("watch.change.detected", "file", name, "op", op.String())
	return true
}

// Flush drains queued events, drops files whose content is unchanged, and
// fires the trigger for the rest. Hashes are refreshed afterwards so the
// sync's own renames and rewrites do not fire again.
func (w *Watcher) Flush(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	pending := w.pending
	w.pending = map[string]fsnotify.Op{}
	w.mu.Unlock()

	var changed []string
	for name := range pending {
		sum, err := w.hash(name)
		w.mu.Lock()
		previous, known := w.hashes[name]
		w.mu.Unlock()

		switch {
		case errors.Is(err, fs.ErrNotExist):
			if known {
				changed = append(changed, name)
			}
		case err != nil:
			w.logger.Warn("watch.read.failed", "file", name, "error", err)
		case !known || previous != sum:
			changed = append(changed, name)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	sort.Strings(changed)

	w.logger.Info("watch.sync.triggered", "files", changed)
	err := w.trigger(ctx, changed)
	if seedErr := w.Seed(); seedErr != nil && err == nil {
		err = seedErr
	}
	return changed, err
}

func (w *Watcher) rootName(path string) (string, bool) {
	root, err := filepath.Abs(w.opts.Root)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.ContainsRune(rel, filepath.Separator) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) hash(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.opts.Root, name))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
