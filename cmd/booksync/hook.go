package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-booksync/internal/hooks"
)

func (c *cli) installHookCommand() *cobra.Command {
	var (
		force   bool
		command string
	)
	cmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install a git pre-commit hook that syncs and stages the book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			path, err := hooks.InstallPreCommit(module.Service.Root(), hooks.Options{
				Command: command,
				Stage:   []string{module.Config.Book.ContentDir, ":(glob)*.md"},
				Force:   force,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing hook not written by booksync")
	cmd.Flags().StringVar(&command, "command", "booksync sync", "command the hook runs before staging")
	return cmd
}
