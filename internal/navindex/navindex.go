// Package navindex renders the navigation indexes that list chapters for
// Hugo (content/docs/_index.md, content/_index.md) and for readers browsing
// the repository (index.md).
package navindex

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/goliatone/go-booksync/internal/mirror"
)

// Kind identifies one of the generated index documents.
type Kind string

const (
	// KindDocs is the docs section index, content/docs/_index.md.
	KindDocs Kind = "docs"
	// KindSection is the site landing page, content/_index.md.
	KindSection Kind = "section"
	// KindHome is the repository landing page, index.md at the book root.
	KindHome Kind = "home"
)

// AllKinds lists every index in the order they are written.
var AllKinds = []Kind{KindDocs, KindSection, KindHome}

// Texts holds the paragraphs placed around the chapter lists.
type Texts struct {
	DocsIntro    string
	RootIntro    string
	RootClosing  string
	RootOverview string
}

// Layout locates the Hugo directories relative to the book root.
type Layout struct {
	ContentDir string
	DocsDir    string
}

// Options control index rendering.
type Options struct {
	Layout     Layout
	Texts      Texts
	DocsTitle  string
	DocsWeight int
	// BookTitle overrides the title taken from the first chapter heading.
	BookTitle string
	// Emit restricts which documents are produced. Empty means all.
	Emit []Kind
}

// Chapter is a chapter as listed in the indexes.
type Chapter struct {
	Number  int
	Heading string
	// Source is the root chapter file name.
	Source string
	// Mirror is the mirrored copy's file name inside the docs directory.
	Mirror string
}

// Document is a rendered index.
type Document struct {
	Kind Kind
	// Path is slash separated and relative to the book root.
	Path    string
	Content []byte
	// Targets lists the chapter link destinations in chapter order.
	Targets []string
}

// BookTitle returns the title used on the landing pages.
func BookTitle(chapters []Chapter, opts Options) string {
	if title := strings.TrimSpace(opts.BookTitle); title != "" {
		return title
	}
	if len(chapters) == 0 {
		return ""
	}
	return chapters[0].Heading
}

// Build renders the index documents. No chapters means no documents.
func Build(chapters []Chapter, opts Options) []Document {
	if len(chapters) == 0 {
		return nil
	}

	var docs []Document
	for _, kind := range AllKinds {
		if !emits(opts.Emit, kind) {
			continue
		}
		switch kind {
		case KindDocs:
			docs = append(docs, buildDocs(chapters, opts))
		case KindSection:
			docs = append(docs, buildSection(chapters, opts))
		case KindHome:
			docs = append(docs, buildHome(chapters, opts))
		}
	}
	return docs
}

func buildDocs(chapters []Chapter, opts Options) Document {
	lines := []string{
		"---",
		"title: " + quoteTitle(opts.DocsTitle),
		"bookCollapseSection: false",
		fmt.Sprintf("weight: %d", opts.DocsWeight),
		"---",
		"",
		opts.Texts.DocsIntro,
		"",
	}
	targets := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		target := "./" + mirror.LinkTarget(ch.Mirror)
		targets = append(targets, target)
		lines = append(lines, entry(ch.Heading, target))
	}
	return Document{
		Kind:    KindDocs,
		Path:    path.Join(opts.Layout.DocsDir, "_index.md"),
		Content: join(lines),
		Targets: targets,
	}
}

func buildSection(chapters []Chapter, opts Options) Document {
	lines := []string{
		"---",
		"title: " + quoteTitle(BookTitle(chapters, opts)),
		"---",
		"",
		opts.Texts.RootIntro,
		"",
		"## Chapter Guide",
		"",
	}
	prefix := docsPrefix(opts.Layout)
	targets := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		target := "./" + path.Join(prefix, mirror.LinkTarget(ch.Mirror))
		targets = append(targets, target)
		lines = append(lines, entry(ch.Heading, target))
	}
	lines = append(lines, "", opts.Texts.RootClosing)
	return Document{
		Kind:    KindSection,
		Path:    path.Join(opts.Layout.ContentDir, "_index.md"),
		Content: join(lines),
		Targets: targets,
	}
}

func buildHome(chapters []Chapter, opts Options) Document {
	lines := []string{
		"---",
		"layout: home",
		"---",
		"",
		"# " + BookTitle(chapters, opts),
		"",
		opts.Texts.RootOverview,
		"",
		"## Chapter Guide",
		"",
	}
	targets := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		target := "./" + QuotePath(ch.Source)
		targets = append(targets, target)
		lines = append(lines, entry(ch.Heading, target))
	}
	return Document{
		Kind:    KindHome,
		Path:    "index.md",
		Content: join(lines),
		Targets: targets,
	}
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// entry renders one chapter line. Brackets in the heading are escaped so
// the link text cannot close early.
func entry(heading, target string) string {
	return fmt.Sprintf("- [%s](%s)", linkTextEscaper.Replace(heading), target)
}

// join mirrors how the indexes have always been written: lines joined by
// newlines, trailing whitespace trimmed, one final newline.
func join(lines []string) []byte {
	return []byte(strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace) + "\n")
}

// docsPrefix is the docs directory as seen from the content directory.
func docsPrefix(layout Layout) string {
	content := strings.Trim(layout.ContentDir, "/")
	docs := strings.Trim(layout.DocsDir, "/")
	if content != "" && strings.HasPrefix(docs, content+"/") {
		return strings.TrimPrefix(docs, content+"/")
	}
	return docs
}

// quoteTitle renders a double quoted YAML scalar.
func quoteTitle(title string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(title)
	return `"` + escaped + `"`
}

func emits(kinds []Kind, kind Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
