package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-booksync/pkg/interfaces"
)

const (
	rootModule     = "booksync"
	chaptersModule = "booksync.chapters"
	mirrorModule   = "booksync.mirror"
	indexModule    = "booksync.index"
	watchModule    = "booksync.watch"
	hugoModule     = "booksync.hugo"
)

const (
	fieldChapterFile   = "chapter_file"
	fieldChapterNumber = "chapter_number"
	fieldSyncAction    = "sync_action"
	fieldRunID         = "run_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the top-level booksync logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// ChaptersLogger returns the logger used while planning and applying chapter renames.
func ChaptersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, chaptersModule)
}

// MirrorLogger returns the logger used when writing mirrored copies.
func MirrorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mirrorModule)
}

// IndexLogger returns the logger used when regenerating navigation indexes.
func IndexLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, indexModule)
}

// WatchLogger returns the logger used by the filesystem watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// HugoLogger returns the logger used around static-site generator runs.
func HugoLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, hugoModule)
}

// WithChapterContext attaches chapter file, number and sync action fields.
// Empty values and non-positive numbers are skipped.
func WithChapterContext(logger interfaces.Logger, file string, number int, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(file); trimmed != "" {
		fields[fieldChapterFile] = trimmed
	}
	if number > 0 {
		fields[fieldChapterNumber] = number
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldSyncAction] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRunID tags every entry of a sync or check run.
func WithRunID(logger interfaces.Logger, runID string) interfaces.Logger {
	if strings.TrimSpace(runID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldRunID: runID})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
