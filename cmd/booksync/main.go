package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-booksync/cmd/booksync/internal/bootstrap"
	bookcmd "github.com/goliatone/go-booksync/internal/commands/book"
	"github.com/goliatone/go-booksync/internal/report"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &cli{stdout: stdout, stderr: stderr}
	root := app.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	app.close()
	if err == nil {
		return 0
	}
	// the report already listed the issues
	if !errors.Is(err, bookcmd.ErrCheckFailed) {
		report.New(stderr, app.noColor).Error(err)
	}
	return 1
}

// cli carries the global flags shared by every subcommand.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	root       string
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	modules []*bootstrap.Module
}

func (c *cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booksync",
		Short: "Keep book chapters, their site mirror and navigation indexes in sync",
		Long: `booksync normalizes the numbered chapter files at the book root, mirrors them
into the Hugo content tree and regenerates the navigation indexes.

Run it by hand, from a pre-commit hook, or in watch mode while writing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.noColor {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.root, "root", "", "book root directory (defaults to the config file's directory)")
	flags.StringVar(&c.configPath, "config", "", "config file (defaults to <root>/booksync.yaml when present)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "log format for the gologger provider: json, console, pretty")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		c.syncCommand(),
		c.checkCommand(),
		c.watchCommand(),
		c.chaptersCommand(),
		c.previewCommand(),
		c.buildCommand(),
		c.serveCommand(),
		c.installHookCommand(),
		newVersionCommand(),
	)
	return cmd
}

func (c *cli) module() (*bootstrap.Module, error) {
	module, err := moduleBuilder(bootstrap.Options{
		Root:       c.root,
		ConfigPath: c.configPath,
		LogLevel:   c.logLevel,
		LogFormat:  c.logFormat,
		NoColor:    c.noColor,
		LogWriter:  c.stderr,
	})
	if err != nil {
		return nil, err
	}
	if module == nil || module.Service == nil || module.Commands == nil {
		module.Close()
		return nil, errors.New("booksync: module not configured")
	}
	c.modules = append(c.modules, module)
	return module, nil
}

func (c *cli) close() {
	for _, module := range c.modules {
		module.Close()
	}
	c.modules = nil
}

func (c *cli) printer() *report.Printer {
	return report.New(c.stdout, c.noColor)
}
