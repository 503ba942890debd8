package main

import (
	"context"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-booksync/cmd/booksync/internal/bootstrap"
	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/internal/watch"
)

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync once, then again whenever a root chapter changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := module.Commands.Sync.Execute(ctx, c.syncMessage(module, false)); err != nil {
				return err
			}
			return c.watch(ctx, module)
		},
	}
}

// watch blocks until ctx is cancelled. Each trigger is dispatched so a
// failed sync is retried per watch.retries; a sync that still fails is
// logged and the watcher keeps going.
func (c *cli) watch(ctx context.Context, module *bootstrap.Module) error {
	cfg := module.Config
	logger := logging.WatchLogger(module.Provider)

	trigger := func(ctx context.Context, changed []string) error {
		logger.Info("watch.changed", "files", changed)
		return dispatcher.Dispatch(ctx, c.syncMessage(module, false))
	}

	watcher, err := watch.New(watch.Options{
		Root:     module.Service.Root(),
		Pattern:  cfg.Book.Pattern,
		Exclude:  cfg.Book.Exclude,
		Debounce: cfg.Watch.Debounce,
	}, trigger, logger)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
