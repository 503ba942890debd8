package booksync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-booksync/internal/chapters"
	"github.com/goliatone/go-booksync/internal/linkcheck"
	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/internal/navindex"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

func (s *service) Check(ctx context.Context, opts interfaces.CheckOptions) (*interfaces.CheckReport, error) {
	runID := s.runID()
	logger := logging.WithRunID(logging.RootLogger(s.provider), runID)

	plan, err := s.plan(ctx)
	if err != nil {
		return nil, err
	}

	report := &interfaces.CheckReport{RunID: runID, Chapters: len(plan.Chapters)}
	checkNumbering(report, plan)
	checkProblems(report, plan)
	checkChapters(report, plan)

	if len(plan.Chapters) > 0 {
		if err := s.checkMirror(ctx, report, plan, runID); err != nil {
			return nil, err
		}
		docs := navindex.Build(navChapters(s.summaries(plan.Chapters)), s.indexOptions())
		if err := s.checkIndexes(report, docs); err != nil {
			return nil, err
		}
		if opts.Links {
			if err := s.checkLinks(ctx, report, plan, docs); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("check.completed",
		"chapters", report.Chapters,
		"issues", len(report.Issues),
		"links", opts.Links,
	)
	return report, nil
}

func checkNumbering(report *interfaces.CheckReport, plan *chapters.Plan) {
	for _, number := range chapters.DuplicateNumbers(plan.Files) {
		var names []string
		for _, file := range plan.Files {
			if file.Number == number {
				names = append(names, file.Name)
			}
		}
		report.Add(interfaces.Issue{
			Kind:    interfaces.IssueDuplicateNumber,
			Path:    names[0],
			Message: fmt.Sprintf("number %02d used by %s", number, strings.Join(names, ", ")),
		})
	}
	for _, number := range chapters.MissingNumbers(plan.Files) {
		report.Add(interfaces.Issue{
			Kind:    interfaces.IssueNumberGap,
			Message: fmt.Sprintf("no chapter numbered %02d", number),
		})
	}
}

func checkProblems(report *interfaces.CheckReport, plan *chapters.Plan) {
	for _, problem := range plan.Problems {
		kind := interfaces.IssueChapterUnreadable
		switch {
		case errors.Is(problem.Err, chapters.ErrHeadingMissing), errors.Is(problem.Err, chapters.ErrTitleEmpty):
			kind = interfaces.IssueHeadingMissing
		case errors.Is(problem.Err, chapters.ErrTargetExists):
			kind = interfaces.IssueTargetConflict
		}
		report.Add(interfaces.Issue{
			Kind:    kind,
			Path:    problem.File,
			Message: problem.Err.Error(),
		})
	}
}

func checkChapters(report *interfaces.CheckReport, plan *chapters.Plan) {
	for _, ch := range plan.Chapters {
		if ch.Renamed() {
			report.Add(interfaces.Issue{
				Kind:    interfaces.IssueNonCanonicalName,
				Path:    ch.SourceName,
				Message: fmt.Sprintf("expected %q", ch.TargetName),
			})
		}
		if ch.ContentChanged() {
			report.Add(interfaces.Issue{
				Kind:     interfaces.IssueNormalization,
				Path:     ch.SourceName,
				Message:  "content differs from normalized form",
				Expected: string(ch.Normalized),
				Actual:   string(ch.Original),
			})
		}
	}
}

func (s *service) checkMirror(ctx context.Context, report *interfaces.CheckReport, plan *chapters.Plan, runID string) error {
	drift, err := s.mirrorWriter(nil, runID).Diff(ctx, mirrorEntries(plan.Chapters))
	if err != nil {
		return wrapStage(err, codeMirrorFailed, "compare mirror")
	}

	docsDir := s.cfg.Book.DocsDir
	for _, name := range drift.Missing {
		report.Add(interfaces.Issue{
			Kind:    interfaces.IssueMirrorMissing,
			Path:    path.Join(docsDir, name),
			Message: "mirrored copy does not exist",
		})
	}
	for _, stale := range drift.Stale {
		report.Add(interfaces.Issue{
			Kind:     interfaces.IssueMirrorStale,
			Path:     path.Join(docsDir, stale.Name),
			Message:  "mirrored copy differs from chapter",
			Expected: string(stale.Expected),
			Actual:   string(stale.Actual),
		})
	}
	for _, name := range drift.Orphans {
		report.Add(interfaces.Issue{
			Kind:    interfaces.IssueMirrorOrphan,
			Path:    path.Join(docsDir, name),
			Message: "no chapter owns this copy",
		})
	}
	return nil
}

func (s *service) checkIndexes(report *interfaces.CheckReport, docs []navindex.Document) error {
	for _, doc := range docs {
		actual, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(doc.Path)))
		if errors.Is(err, fs.ErrNotExist) {
			report.Add(interfaces.Issue{
				Kind:    interfaces.IssueIndexMissing,
				Path:    doc.Path,
				Message: fmt.Sprintf("%s index does not exist", doc.Kind),
			})
			continue
		}
		if err != nil {
			return wrapStage(err, codeIndexFailed, fmt.Sprintf("read index %s", doc.Path))
		}
		if string(actual) == string(doc.Content) {
			continue
		}

		for _, finding := range navindex.Inspect(doc, actual) {
			report.Add(findingIssue(doc.Path, finding))
		}
		report.Add(interfaces.Issue{
			Kind:     interfaces.IssueIndexDrift,
			Path:     doc.Path,
			Message:  "index differs from generated content",
			Expected: string(doc.Content),
			Actual:   string(actual),
		})
	}
	return nil
}

func findingIssue(docPath string, finding navindex.Finding) interfaces.Issue {
	issue := interfaces.Issue{Path: docPath, Line: finding.Line}
	switch finding.Kind {
	case navindex.FindingDuplicate:
		issue.Kind = interfaces.IssueIndexDuplicate
		issue.Message = fmt.Sprintf("%s listed more than once", finding.Target)
	case navindex.FindingOrder:
		issue.Kind = interfaces.IssueIndexOrder
		issue.Message = fmt.Sprintf("%s listed out of order", finding.Target)
	case navindex.FindingMissingEntry:
		issue.Kind = interfaces.IssueIndexDrift
		issue.Message = fmt.Sprintf("%s not listed", finding.Target)
	default:
		issue.Kind = interfaces.IssueIndexDrift
		issue.Message = fmt.Sprintf("%s is not a chapter", finding.Target)
	}
	return issue
}

func (s *service) checkLinks(ctx context.Context, report *interfaces.CheckReport, plan *chapters.Plan, docs []navindex.Document) error {
	var targets []string
	for _, summary := range s.summaries(plan.Chapters) {
		targets = append(targets, path.Join(s.cfg.Book.DocsDir, summary.Mirror))
	}
	for _, doc := range docs {
		targets = append(targets, doc.Path)
	}

	checker := linkcheck.New(os.DirFS(s.root), linkcheck.Options{ContentDir: s.cfg.Book.ContentDir})
	broken, err := checker.Check(ctx, targets)
	if err != nil {
		return wrapStage(err, codeLinkFailed, "check links")
	}
	for _, link := range broken {
		report.Add(interfaces.Issue{
			Kind:    interfaces.IssueBrokenLink,
			Path:    link.Source,
			Line:    link.Line,
			Message: fmt.Sprintf("%s: %s", link.Target, link.Reason),
		})
	}
	return nil
}
