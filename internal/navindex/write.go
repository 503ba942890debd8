package navindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// WriteResult lists index paths by outcome.
type WriteResult struct {
	Written   []string
	Unchanged []string
}

// Write stores documents under root, skipping those already up to date.
func Write(ctx context.Context, root string, docs []Document, dryRun bool, logger interfaces.Logger) (WriteResult, error) {
	logger = logging.Ensure(logger)

	var result WriteResult
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target := filepath.Join(root, filepath.FromSlash(doc.Path))

		current, err := os.ReadFile(target)
		if err == nil && bytes.Equal(current, doc.Content) {
			result.Unchanged = append(result.Unchanged, doc.Path)
			continue
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("navindex: read %s: %w", doc.Path, err)
		}

		result.Written = append(result.Written, doc.Path)
		if dryRun {
			logger.Debug("index.write.planned", "path", doc.Path, "kind", string(doc.Kind))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return result, fmt.Errorf("navindex: create dir for %s: %w", doc.Path, err)
		}
		if err := os.WriteFile(target, doc.Content, 0o644); err != nil {
			return result, fmt.Errorf("navindex: write %s: %w", doc.Path, err)
		}
		logger.Info("index.written", "path", doc.Path, "kind", string(doc.Kind))
	}
	return result, nil
}
