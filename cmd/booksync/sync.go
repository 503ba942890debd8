package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-booksync/cmd/booksync/internal/bootstrap"
	bookcmd "github.com/goliatone/go-booksync/internal/commands/book"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

func (c *cli) syncCommand() *cobra.Command {
	var (
		dryRun bool
		prune  bool
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rename and normalize chapters, refresh the mirror and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			msg := c.syncMessage(module, dryRun)
			if cmd.Flags().Changed("prune") {
				msg.Prune = &prune
			}
			return module.Commands.Sync.Execute(cmd.Context(), msg)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&prune, "prune", true, "remove mirrored chapters that no longer have a root file")
	return cmd
}

func (c *cli) syncMessage(module *bootstrap.Module, dryRun bool) bookcmd.SyncBookCommand {
	printer := c.printer()
	return bookcmd.SyncBookCommand{
		Root:   module.Service.Root(),
		DryRun: dryRun,
		Report: func(result *interfaces.SyncResult) { printer.Sync(result) },
	}
}

func (c *cli) checkCommand() *cobra.Command {
	var (
		links bool
		diff  bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report drift between chapters, mirror and indexes without writing",
		Long: `check exits with status 1 when the tree differs from what sync would produce.
Use it in CI to catch chapters committed without a sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			printer := c.printer()
			return module.Commands.Check.Execute(cmd.Context(), bookcmd.CheckBookCommand{
				Root:   module.Service.Root(),
				Links:  links,
				Report: func(rep *interfaces.CheckReport) { printer.Check(rep, diff) },
			})
		},
	}
	cmd.Flags().BoolVar(&links, "links", false, "verify internal links and heading anchors")
	cmd.Flags().BoolVar(&diff, "diff", false, "print line diffs for content drift")
	return cmd
}
