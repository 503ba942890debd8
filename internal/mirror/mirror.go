package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// Options configure the docs mirror.
type Options struct {
	Naming Naming
	// FrontMatter injects Hugo front matter (title, weight) into each copy.
	FrontMatter bool
	// Prune removes mirrors that no chapter owns: files reserved by the
	// naming mode and files listed in Previous.
	Prune bool
	// Previous lists mirror names written by the last sync, usually read
	// from the docs index with Indexed.
	Previous []string
}

// File is a mirrored copy as it should exist on disk.
type File struct {
	Name    string
	Number  int
	Source  string
	Content []byte
}

// Stale is a mirrored copy whose bytes differ from the chapter.
type Stale struct {
	Name     string
	Expected []byte
	Actual   []byte
}

// Drift compares the docs directory with the chapters.
type Drift struct {
	Missing []string
	Stale   []Stale
	Orphans []string
}

// Result lists what Sync wrote, skipped and removed, by mirror file name.
type Result struct {
	Written   []string
	Unchanged []string
	Pruned    []string
}

// Writer keeps the docs directory in step with the root chapters.
type Writer struct {
	dir    string
	opts   Options
	logger interfaces.Logger
}

// New builds a Writer for dir, usually <root>/content/docs.
func New(dir string, opts Options, logger interfaces.Logger) *Writer {
	return &Writer{
		dir:    dir,
		opts:   opts,
		logger: logging.Ensure(logger),
	}
}

// Expected renders the mirrored copy of every entry.
func (w *Writer) Expected(entries []Entry) ([]File, error) {
	files := make([]File, 0, len(entries))
	seen := map[string]string{}
	for _, entry := range entries {
		name := Name(entry.Number, entry.Title, w.opts.Naming)
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("mirror: %s and %s both map to %s", other, entry.Source, name)
		}
		seen[name] = entry.Source

		content, err := Content(entry, w.opts.FrontMatter)
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:    name,
			Number:  entry.Number,
			Source:  entry.Source,
			Content: content,
		})
	}
	return files, nil
}

// Diff reports missing, stale and orphaned copies without writing.
func (w *Writer) Diff(ctx context.Context, entries []Entry) (Drift, error) {
	var drift Drift

	expected, err := w.Expected(entries)
	if err != nil {
		return drift, err
	}

	for _, file := range expected {
		if err := ctx.Err(); err != nil {
			return drift, err
		}
		actual, err := os.ReadFile(filepath.Join(w.dir, file.Name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			drift.Missing = append(drift.Missing, file.Name)
		case err != nil:
			return drift, fmt.Errorf("mirror: read %s: %w", file.Name, err)
		case !bytes.Equal(actual, file.Content):
			drift.Stale = append(drift.Stale, Stale{Name: file.Name, Expected: file.Content, Actual: actual})
		}
	}

	drift.Orphans, err = w.orphans(expected)
	return drift, err
}

// Sync writes copies whose content changed and, when pruning, removes
// orphans. On a dry run the result describes the writes without doing them.
func (w *Writer) Sync(ctx context.Context, entries []Entry, dryRun bool) (Result, error) {
	var result Result

	expected, err := w.Expected(entries)
	if err != nil {
		return result, err
	}

	if !dryRun && len(expected) > 0 {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return result, fmt.Errorf("mirror: create %s: %w", w.dir, err)
		}
	}

	for _, file := range expected {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := filepath.Join(w.dir, file.Name)
		logger := logging.WithChapterContext(w.logger, file.Source, file.Number, "mirror")

		current, err := os.ReadFile(path)
		if err == nil && bytes.Equal(current, file.Content) {
			result.Unchanged = append(result.Unchanged, file.Name)
			continue
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("mirror: read %s: %w", file.Name, err)
		}

		result.Written = append(result.Written, file.Name)
		if dryRun {
			logger.Debug("mirror.write.planned", "path", file.Name)
			continue
		}
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			return result, fmt.Errorf("mirror: write %s: %w", file.Name, err)
		}
		logger.Info("mirror.written", "path", file.Name, "bytes", len(file.Content))
	}

	if !w.opts.Prune {
		return result, nil
	}

	orphans, err := w.orphans(expected)
	if err != nil {
		return result, err
	}
	for _, name := range orphans {
		result.Pruned = append(result.Pruned, name)
		if dryRun {
			w.logger.Debug("mirror.prune.planned", "path", name)
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("mirror: remove %s: %w", name, err)
		}
		w.logger.Info("mirror.pruned", "path", name)
	}
	return result, nil
}

func (w *Writer) orphans(expected []File) ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: list %s: %w", w.dir, err)
	}

	owned := make(map[string]bool, len(expected))
	for _, file := range expected {
		owned[file.Name] = true
	}

	previous := make(map[string]bool, len(w.opts.Previous))
	for _, name := range w.opts.Previous {
		previous[name] = true
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || owned[name] {
			continue
		}
		if !w.opts.Naming.Reserved(name) && !previous[name] {
			continue
		}
		out = append(out, entry.Name())
	}
	sort.Strings(out)
	return out, nil
}
