package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-booksync/cmd/booksync/internal/bootstrap"
	"github.com/goliatone/go-booksync/internal/hugo"
	"github.com/goliatone/go-booksync/internal/logging"
)

func (c *cli) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build [-- hugo args]",
		Short: "Check the Hugo setup, sync, then build the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, runner, err := c.prepareSite(cmd.Context())
			if err != nil {
				return err
			}
			buildArgs := append(append([]string{}, module.Config.Hugo.BuildArgs...), args...)
			return runner.Build(cmd.Context(), buildArgs)
		},
	}
}

func (c *cli) serveCommand() *cobra.Command {
	var watchChapters bool
	cmd := &cobra.Command{
		Use:   "serve [-- hugo args]",
		Short: "Check the Hugo setup, sync, then run the Hugo dev server",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, runner, err := c.prepareSite(cmd.Context())
			if err != nil {
				return err
			}
			serveArgs := append(append([]string{}, module.Config.Hugo.ServeArgs...), args...)
			if !serveWatches(cmd, watchChapters, module) {
				return runner.Serve(cmd.Context(), serveArgs)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			watched := make(chan error, 1)
			go func() { watched <- c.watch(ctx, module) }()

			serveErr := runner.Serve(ctx, serveArgs)
			cancel()
			if watchErr := <-watched; serveErr == nil {
				return watchErr
			}
			return serveErr
		},
	}
	cmd.Flags().BoolVar(&watchChapters, "watch", true, "re-sync when root chapters change (defaults to watch.enabled)")
	return cmd
}

// serveWatches reports whether serve runs the chapter watcher. An explicit
// --watch wins over the config.
func serveWatches(cmd *cobra.Command, flag bool, module *bootstrap.Module) bool {
	if cmd.Flags().Changed("watch") {
		return flag
	}
	return module.Config.Watch.Enabled
}

// prepareSite runs the Hugo preflight checks and a sync, and returns a
// runner bound to the book root.
func (c *cli) prepareSite(ctx context.Context) (*bootstrap.Module, *hugo.Runner, error) {
	module, err := c.module()
	if err != nil {
		return nil, nil, err
	}
	root := module.Service.Root()
	logger := logging.HugoLogger(module.Provider)

	site, err := hugo.Preflight(root, module.Config.Hugo)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("hugo.preflight.ok", "config", site.ConfigFile, "base_url", site.BaseURL, "themes", site.Themes)

	if err := module.Commands.Sync.Execute(ctx, c.syncMessage(module, false)); err != nil {
		return nil, nil, err
	}

	return module, &hugo.Runner{
		Binary: module.Config.Hugo.Binary,
		Dir:    root,
		Stdout: c.stdout,
		Stderr: c.stderr,
		Logger: logger,
	}, nil
}
