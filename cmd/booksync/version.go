package main

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)
			title.Fprint(out, "booksync version: ")
			color.New(color.Reset).Fprintln(out, Version)
			title.Fprint(out, "Git commit: ")
			color.New(color.Reset).Fprintln(out, GitCommit)
			title.Fprint(out, "Build date: ")
			color.New(color.Reset).Fprintln(out, BuildDate)
			title.Fprint(out, "Go version: ")
			color.New(color.Reset).Fprintln(out, runtime.Version())
		},
	}
}
