package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) chaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "chapters",
		Aliases: []string{"list", "ls"},
		Short:   "List chapters as the next sync would number them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			list, err := module.Service.Chapters(cmd.Context())
			if err != nil {
				return err
			}
			c.printer().Chapters(list)
			return nil
		},
	}
}

func (c *cli) previewCommand() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "preview <number|file>",
		Short: "Print a chapter as sync would normalize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := c.module()
			if err != nil {
				return err
			}
			out, err := module.Service.Preview(cmd.Context(), args[0], html)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "render the chapter to HTML")
	return cmd
}
