package chapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Rename records a chapter file move.
type Rename struct {
	From string
	To   string
}

// Applied lists what Apply changed, or would change on a dry run.
type Applied struct {
	Normalized []string
	Renamed    []Rename
}

type move struct {
	from, tmp, to string
	staged, done  bool
}

// Apply renames chapters to their canonical names and writes normalized
// content under root. Renames go through temporary names first so chapters
// can swap numbers. A plan with problems is rejected before any write.
func Apply(ctx context.Context, root string, plan *Plan, dryRun bool) (Applied, error) {
	var applied Applied
	if plan == nil {
		return applied, nil
	}
	if err := plan.Err(); err != nil {
		return applied, err
	}

	var moves []*move
	for _, ch := range plan.Chapters {
		if ch.Renamed() {
			applied.Renamed = append(applied.Renamed, Rename{From: ch.SourceName, To: ch.TargetName})
			moves = append(moves, &move{
				from: filepath.Join(root, ch.SourceName),
				tmp:  filepath.Join(root, fmt.Sprintf(".booksync-%s.tmp", uuid.NewString())),
				to:   filepath.Join(root, ch.TargetName),
			})
		}
		if ch.ContentChanged() {
			applied.Normalized = append(applied.Normalized, ch.TargetName)
		}
	}
	if dryRun {
		return applied, nil
	}

	if err := ctx.Err(); err != nil {
		return Applied{}, err
	}
	if err := runMoves(moves); err != nil {
		return Applied{}, err
	}

	for _, ch := range plan.Chapters {
		if !ch.ContentChanged() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		path := filepath.Join(root, ch.TargetName)
		if err := writeFile(path, ch.Normalized); err != nil {
			return applied, applyError("write", ch.TargetName, err)
		}
	}
	return applied, nil
}

func runMoves(moves []*move) error {
	for _, m := range moves {
		if err := os.Rename(m.from, m.tmp); err != nil {
			return errors.Join(applyError("stage", filepath.Base(m.from), err), rollback(moves))
		}
		m.staged = true
	}
	for _, m := range moves {
		if _, err := os.Lstat(m.to); err == nil {
			err = targetExistsError(filepath.Base(m.from), filepath.Base(m.to))
			return errors.Join(err, rollback(moves))
		}
		if err := os.Rename(m.tmp, m.to); err != nil {
			return errors.Join(applyError("rename", filepath.Base(m.from), err), rollback(moves))
		}
		m.done = true
	}
	return nil
}

// rollback restores original names for every move that got underway. Done
// moves return to their temporary names first so no original name is
// reused before it is free again.
func rollback(moves []*move) error {
	var errs []error
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if !m.done {
			continue
		}
		if err := os.Rename(m.to, m.tmp); err != nil {
			errs = append(errs, err)
			continue
		}
		m.done = false
	}
	for _, m := range moves {
		if !m.staged || m.done {
			continue
		}
		if err := os.Rename(m.tmp, m.from); err != nil {
			errs = append(errs, err)
			continue
		}
		m.staged = false
	}
	return errors.Join(errs...)
}

func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
