// Package booksync coordinates the chapter, mirror and index steps into the
// sync and check operations.
package booksync

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-booksync/internal/chapters"
	"github.com/goliatone/go-booksync/internal/config"
	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/internal/markdown"
	"github.com/goliatone/go-booksync/internal/mirror"
	"github.com/goliatone/go-booksync/internal/navindex"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// Service extends interfaces.BookService with read-only helpers used by the
// CLI.
type Service interface {
	interfaces.BookService
	// Chapters lists chapters as the next sync would number them.
	Chapters(ctx context.Context) ([]interfaces.ChapterSummary, error)
	// Preview returns a chapter's normalized Markdown, or HTML when html is
	// set. ref is a chapter number or a root file name.
	Preview(ctx context.Context, ref string, html bool) ([]byte, error)
	// Root is the book root directory.
	Root() string
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithLoggerProvider sets the provider module loggers are drawn from.
func WithLoggerProvider(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		if provider != nil {
			s.provider = provider
		}
	}
}

// WithRunIDGenerator overrides how run IDs are minted.
func WithRunIDGenerator(generator func() string) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.runID = generator
		}
	}
}

type service struct {
	cfg      config.Config
	root     string
	provider interfaces.LoggerProvider
	runID    func() string
}

var _ Service = (*service)(nil)

// NewService builds the sync service for the book described by cfg.
func NewService(cfg config.Config, opts ...ServiceOption) Service {
	s := &service{
		cfg:   cfg,
		root:  filepath.Clean(cfg.Book.Root),
		runID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Root() string {
	return s.root
}

func (s *service) Sync(ctx context.Context, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	runID := s.runID()
	logger := logging.WithRunID(logging.RootLogger(s.provider), runID)
	result := &interfaces.SyncResult{RunID: runID, DryRun: opts.DryRun}

	plan, err := s.plan(ctx)
	if err != nil {
		logger.Error("sync.plan.failed", "error", err)
		return nil, err
	}
	for _, problem := range plan.Problems {
		logging.WithChapterContext(logger, problem.File, 0, "plan").Error("sync.chapter.rejected", "error", problem.Err)
	}

	applied, err := chapters.Apply(ctx, s.root, plan, opts.DryRun)
	if err != nil {
		return nil, err
	}
	chaptersLogger := logging.WithRunID(logging.ChaptersLogger(s.provider), runID)
	for _, rename := range applied.Renamed {
		result.Renamed = append(result.Renamed, interfaces.RenamedFile{From: rename.From, To: rename.To})
		chaptersLogger.Info("sync.chapter.renamed", "from", rename.From, "to", rename.To, "dry_run", opts.DryRun)
	}
	for _, name := range applied.Normalized {
		result.Normalized = append(result.Normalized, name)
		chaptersLogger.Info("sync.chapter.normalized", "file", name, "dry_run", opts.DryRun)
	}

	if len(plan.Chapters) == 0 {
		logger.Warn("sync.no_chapters", "root", s.root)
		return result, nil
	}

	writer := s.mirrorWriter(opts.Prune, runID)
	entries := mirrorEntries(plan.Chapters)
	mirrored, err := writer.Sync(ctx, entries, opts.DryRun)
	if err != nil {
		return nil, wrapStage(err, codeMirrorFailed, "mirror chapters")
	}

	summaries := s.summaries(plan.Chapters)
	result.Chapters = summaries
	docsDir := s.cfg.Book.DocsDir
	for _, name := range mirrored.Written {
		result.Mirrored = append(result.Mirrored, path.Join(docsDir, name))
	}
	for _, name := range mirrored.Pruned {
		result.Pruned = append(result.Pruned, path.Join(docsDir, name))
	}
	for _, name := range mirrored.Unchanged {
		result.Unchanged = append(result.Unchanged, path.Join(docsDir, name))
	}

	docs := navindex.Build(navChapters(summaries), s.indexOptions())
	indexLogger := logging.WithRunID(logging.IndexLogger(s.provider), runID)
	written, err := navindex.Write(ctx, s.root, docs, opts.DryRun, indexLogger)
	if err != nil {
		return nil, wrapStage(err, codeIndexFailed, "write navigation indexes")
	}
	result.Indexes = written.Written
	result.Unchanged = append(result.Unchanged, written.Unchanged...)

	logger.Info("sync.completed",
		"chapters", len(result.Chapters),
		"renamed", len(result.Renamed),
		"normalized", len(result.Normalized),
		"mirrored", len(result.Mirrored),
		"pruned", len(result.Pruned),
		"indexes", len(result.Indexes),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (s *service) Chapters(ctx context.Context) ([]interfaces.ChapterSummary, error) {
	plan, err := s.plan(ctx)
	if err != nil {
		return nil, err
	}
	return s.summaries(plan.Chapters), nil
}

func (s *service) Preview(ctx context.Context, ref string, html bool) ([]byte, error) {
	plan, err := s.plan(ctx)
	if err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	number, numeric := 0, false
	if n, err := strconv.Atoi(ref); err == nil {
		number, numeric = n, true
	}

	for _, ch := range plan.Chapters {
		if (numeric && ch.Number == number) || ch.SourceName == ref || ch.TargetName == ref {
			if !html {
				return ch.Normalized, nil
			}
			return markdown.Render(ch.Normalized, markdown.RenderOptions{SkipFrontMatter: true})
		}
	}
	return nil, chapterNotFound(ref)
}

func (s *service) plan(ctx context.Context) (*chapters.Plan, error) {
	plan, err := chapters.Build(ctx, os.DirFS(s.root), chapters.Config{
		Pattern: s.cfg.Book.Pattern,
		Exclude: s.cfg.Book.Exclude,
	})
	if err != nil {
		return nil, wrapStage(err, codePlanFailed, "discover chapters")
	}
	return plan, nil
}

func (s *service) docsDir() string {
	return filepath.Join(s.root, filepath.FromSlash(s.cfg.Book.DocsDir))
}

func (s *service) naming() mirror.Naming {
	return mirror.Naming(strings.ToLower(strings.TrimSpace(s.cfg.Mirror.Naming)))
}

func (s *service) mirrorWriter(prune *bool, runID string) *mirror.Writer {
	opts := mirror.Options{
		Naming:      s.naming(),
		FrontMatter: s.cfg.Mirror.FrontMatter,
		Prune:       s.cfg.Mirror.Prune,
	}
	if prune != nil {
		opts.Prune = *prune
	}
	if index, err := os.ReadFile(filepath.Join(s.docsDir(), "_index.md")); err == nil {
		opts.Previous = mirror.Indexed(index)
	}
	return mirror.New(s.docsDir(), opts, logging.WithRunID(logging.MirrorLogger(s.provider), runID))
}

func (s *service) summaries(list []chapters.Chapter) []interfaces.ChapterSummary {
	out := make([]interfaces.ChapterSummary, 0, len(list))
	for _, ch := range list {
		out = append(out, interfaces.ChapterSummary{
			Number: ch.Number,
			Title:  ch.Heading,
			Source: ch.TargetName,
			Mirror: mirror.Name(ch.Number, ch.Heading, s.naming()),
		})
	}
	return out
}

func (s *service) indexOptions() navindex.Options {
	idx := s.cfg.Index
	emit := make([]navindex.Kind, 0, len(idx.Emit))
	for _, kind := range idx.Emit {
		emit = append(emit, navindex.Kind(strings.ToLower(strings.TrimSpace(kind))))
	}
	return navindex.Options{
		Layout: navindex.Layout{
			ContentDir: s.cfg.Book.ContentDir,
			DocsDir:    s.cfg.Book.DocsDir,
		},
		Texts: navindex.Texts{
			DocsIntro:    idx.DocsIntro,
			RootIntro:    idx.RootIntro,
			RootClosing:  idx.RootClosing,
			RootOverview: idx.RootOverview,
		},
		DocsTitle:  idx.DocsTitle,
		DocsWeight: idx.DocsWeight,
		BookTitle:  s.cfg.Book.Title,
		Emit:       emit,
	}
}

func mirrorEntries(list []chapters.Chapter) []mirror.Entry {
	out := make([]mirror.Entry, 0, len(list))
	for _, ch := range list {
		out = append(out, mirror.Entry{
			Number:  ch.Number,
			Title:   ch.Heading,
			Source:  ch.TargetName,
			Content: ch.Normalized,
		})
	}
	return out
}

func navChapters(summaries []interfaces.ChapterSummary) []navindex.Chapter {
	out := make([]navindex.Chapter, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, navindex.Chapter{
			Number:  summary.Number,
			Heading: summary.Title,
			Source:  summary.Source,
			Mirror:  summary.Mirror,
		})
	}
	return out
}
