package chapters

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
)

// Chapter is one chapter file with its canonical number, name and content.
type Chapter struct {
	Number     int
	Heading    string
	SourceName string
	TargetName string
	Original   []byte
	Normalized []byte
	// Meta holds the chapter's own front matter, if any.
	Meta map[string]any
}

// Renamed reports whether the file must move to a new name.
func (c Chapter) Renamed() bool {
	return c.SourceName != c.TargetName
}

// ContentChanged reports whether normalization rewrites the file.
func (c Chapter) ContentChanged() bool {
	return !bytes.Equal(c.Original, c.Normalized)
}

// Problem is a chapter file the sync cannot process.
type Problem struct {
	File string
	Err  error
}

// Plan is the outcome of inspecting the book root without touching it.
type Plan struct {
	Files    []File
	Chapters []Chapter
	Problems []Problem
}

// Err joins every problem into one error, nil when the plan is clean.
func (p *Plan) Err() error {
	if p == nil || len(p.Problems) == 0 {
		return nil
	}
	errs := make([]error, 0, len(p.Problems))
	for _, problem := range p.Problems {
		errs = append(errs, problem.Err)
	}
	return errors.Join(errs...)
}

// Changed reports whether applying the plan would modify any file.
func (p *Plan) Changed() bool {
	for _, ch := range p.Chapters {
		if ch.Renamed() || ch.ContentChanged() {
			return true
		}
	}
	return false
}

// Build discovers chapters, renumbers them 1..N in discovery order, and
// computes their normalized content and canonical names.
func Build(ctx context.Context, fsys fs.FS, cfg Config) (*Plan, error) {
	files, err := Discover(ctx, fsys, cfg)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Files: files}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(fsys, file.Name)
		if err != nil {
			plan.Problems = append(plan.Problems, Problem{File: file.Name, Err: readError(file.Name, err)})
			continue
		}

		normalized, err := Normalize(data)
		if err != nil {
			if errors.Is(err, ErrHeadingMissing) {
				err = headingMissingError(file.Name)
			}
			plan.Problems = append(plan.Problems, Problem{File: file.Name, Err: err})
			continue
		}
		if SanitizeTitle(normalized.Heading) == "" {
			plan.Problems = append(plan.Problems, Problem{
				File: file.Name,
				Err:  titleEmptyError(file.Name, normalized.Heading),
			})
			continue
		}

		number := i + 1
		plan.Chapters = append(plan.Chapters, Chapter{
			Number:     number,
			Heading:    normalized.Heading,
			SourceName: file.Name,
			TargetName: FileName(number, normalized.Heading),
			Original:   data,
			Normalized: normalized.Content,
			Meta:       normalized.FrontMatter.Meta,
		})
	}

	plan.Problems = append(plan.Problems, conflicts(fsys, plan.Chapters)...)
	return plan, nil
}

// conflicts flags renames whose target is occupied by a file that is not
// itself moving away.
func conflicts(fsys fs.FS, chapters []Chapter) []Problem {
	vacated := map[string]bool{}
	for _, ch := range chapters {
		if ch.Renamed() {
			vacated[ch.SourceName] = true
		}
	}

	var problems []Problem
	for _, ch := range chapters {
		if !ch.Renamed() || vacated[ch.TargetName] {
			continue
		}
		if _, err := fs.Stat(fsys, ch.TargetName); err == nil {
			problems = append(problems, Problem{
				File: ch.SourceName,
				Err:  targetExistsError(ch.SourceName, ch.TargetName),
			})
		}
	}
	return problems
}
