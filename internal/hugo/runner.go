package hugo

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// Runner invokes the Hugo binary inside the book root.
type Runner struct {
	Binary string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Logger interfaces.Logger
}

// Build renders the site once.
func (r *Runner) Build(ctx context.Context, args []string) error {
	return r.run(ctx, args)
}

// Serve runs the development server until ctx is cancelled or it exits.
func (r *Runner) Serve(ctx context.Context, args []string) error {
	return r.run(ctx, append([]string{"server"}, args...))
}

func (r *Runner) run(ctx context.Context, args []string) error {
	binary := r.Binary
	if binary == "" {
		binary = "hugo"
	}
	logger := logging.Ensure(r.Logger)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	started := time.Now()
	logger.Info("hugo.started", "binary", binary, "args", args, "dir", r.Dir)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			logger.Info("hugo.stopped", "binary", binary)
			return nil
		}
		logger.Error("hugo.failed", "binary", binary, "error", err)
		return runError(binary, args, err)
	}
	logger.Info("hugo.completed", "binary", binary, "duration", time.Since(started))
	return nil
}
