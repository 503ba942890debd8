package bookcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-booksync/internal/commands"
	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

const (
	syncOperation  = "book.sync"
	checkOperation = "book.check"
)

// ErrCheckFailed is returned when a check run reports issues.
var ErrCheckFailed = errors.New("book command: check failed")

var (
	_ command.Commander[SyncBookCommand]  = (*SyncBookHandler)(nil)
	_ command.Commander[CheckBookCommand] = (*CheckBookHandler)(nil)
)

// SyncBookHandler runs BookService.Sync through the shared command handler.
type SyncBookHandler struct {
	inner *commands.Handler[SyncBookCommand]
}

// NewSyncBookHandler creates a handler bound to service.
func NewSyncBookHandler(service interfaces.BookService, logger interfaces.Logger, opts ...commands.HandlerOption[SyncBookCommand]) *SyncBookHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncBookCommand) error {
		result, err := service.Sync(ctx, interfaces.SyncOptions{
			DryRun: msg.DryRun,
			Prune:  msg.Prune,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":     result.RunID,
			"chapters":   len(result.Chapters),
			"renamed":    len(result.Renamed),
			"normalized": len(result.Normalized),
			"mirrored":   len(result.Mirrored),
			"pruned":     len(result.Pruned),
			"indexes":    len(result.Indexes),
			"dry_run":    msg.DryRun,
		}).Info("book.command.sync.completed")
		if msg.Report != nil {
			msg.Report(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncBookCommand]{
		commands.WithLogger[SyncBookCommand](baseLogger),
		commands.WithOperation[SyncBookCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncBookCommand) map[string]any {
			fields := map[string]any{"root": msg.Root}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Prune != nil {
				fields["prune"] = *msg.Prune
			}
			return fields
		}),
		commands.WithTelemetry[SyncBookCommand](commands.DefaultTelemetry[SyncBookCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncBookHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncBookCommand].
func (h *SyncBookHandler) Execute(ctx context.Context, msg SyncBookCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckBookHandler runs BookService.Check and fails when issues are found.
type CheckBookHandler struct {
	inner *commands.Handler[CheckBookCommand]
}

// NewCheckBookHandler creates a handler bound to service.
func NewCheckBookHandler(service interfaces.BookService, logger interfaces.Logger, opts ...commands.HandlerOption[CheckBookCommand]) *CheckBookHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CheckBookCommand) error {
		report, err := service.Check(ctx, interfaces.CheckOptions{Links: msg.Links})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":   report.RunID,
			"chapters": report.Chapters,
			"issues":   len(report.Issues),
		}).Info("book.command.check.completed")
		if msg.Report != nil {
			msg.Report(report)
		}
		if !report.OK() {
			return goerrors.Wrap(ErrCheckFailed, goerrors.CategoryValidation,
				fmt.Sprintf("%d issue(s) found", len(report.Issues))).
				WithTextCode("BOOK_CHECK_FAILED").
				WithMetadata(map[string]any{"issues": len(report.Issues)})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckBookCommand]{
		commands.WithLogger[CheckBookCommand](baseLogger),
		commands.WithOperation[CheckBookCommand](checkOperation),
		commands.WithMessageFields(func(msg CheckBookCommand) map[string]any {
			return map[string]any{"root": msg.Root, "links": msg.Links}
		}),
		commands.WithTelemetry[CheckBookCommand](commands.DefaultTelemetry[CheckBookCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckBookHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CheckBookCommand].
func (h *CheckBookHandler) Execute(ctx context.Context, msg CheckBookCommand) error {
	return h.inner.Execute(ctx, msg)
}
