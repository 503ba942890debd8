// Package linkcheck verifies internal links and heading anchors in the
// generated book pages.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-booksync/internal/markdown"
)

// BrokenLink is a link whose target or anchor cannot be found.
type BrokenLink struct {
	Source string
	Line   int
	Target string
	Reason string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s:%d: %s (%s)", b.Source, b.Line, b.Target, b.Reason)
}

// Options locate the site directories used to resolve site-absolute links.
type Options struct {
	ContentDir string
	StaticDir  string
}

// Checker resolves links against a book root.
type Checker struct {
	fsys    fs.FS
	opts    Options
	anchors map[string]map[string]bool
}

// New builds a Checker over the book root.
func New(fsys fs.FS, opts Options) *Checker {
	if opts.ContentDir == "" {
		opts.ContentDir = "content"
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	return &Checker{
		fsys:    fsys,
		opts:    opts,
		anchors: map[string]map[string]bool{},
	}
}

// Check reads every document and reports its broken links. Paths are slash
// separated and relative to the root. Missing documents are skipped.
func (c *Checker) Check(ctx context.Context, docs []string) ([]BrokenLink, error) {
	var broken []BrokenLink
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		source, err := fs.ReadFile(c.fsys, doc)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return broken, fmt.Errorf("linkcheck: read %s: %w", doc, err)
		}
		broken = append(broken, c.CheckDocument(doc, source)...)
	}
	return broken, nil
}

// CheckDocument reports broken links in source, treated as living at doc.
func (c *Checker) CheckDocument(doc string, source []byte) []BrokenLink {
	var broken []BrokenLink
	for _, link := range markdown.Links(source) {
		if reason := c.resolve(doc, source, link.Destination); reason != "" {
			broken = append(broken, BrokenLink{
				Source: doc,
				Line:   link.Line,
				Target: link.Destination,
				Reason: reason,
			})
		}
	}
	return broken
}

func (c *Checker) resolve(doc string, source []byte, destination string) string {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "empty link"
	}

	u, err := url.Parse(destination)
	if err != nil {
		return "malformed link"
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return ""
	}

	if u.Path == "" {
		if u.Fragment == "" || c.hasAnchor(doc, source, u.Fragment) {
			return ""
		}
		return fmt.Sprintf("anchor #%s not found", u.Fragment)
	}

	target, ok := c.locate(doc, u.Path)
	if !ok {
		return "target not found"
	}
	if u.Fragment == "" || !strings.HasSuffix(target, ".md") {
		return ""
	}
	data, err := fs.ReadFile(c.fsys, target)
	if err != nil {
		return "target not readable"
	}
	if !c.hasAnchor(target, data, u.Fragment) {
		return fmt.Sprintf("anchor #%s not found in %s", u.Fragment, target)
	}
	return ""
}

// locate maps a link path to a file the way Hugo serves pages: extensionless
// page links resolve to their .md source, directories to their index page.
// Site-absolute paths resolve inside the content and static directories.
func (c *Checker) locate(doc, linkPath string) (string, bool) {
	var bases []string
	if strings.HasPrefix(linkPath, "/") {
		rel := strings.TrimPrefix(linkPath, "/")
		bases = append(bases, path.Join(c.opts.ContentDir, rel), path.Join(c.opts.StaticDir, rel))
	} else {
		bases = append(bases, path.Join(path.Dir(doc), linkPath))
	}

	for _, base := range bases {
		if strings.HasPrefix(base, "../") || base == ".." {
			continue
		}
		for _, candidate := range candidates(base) {
			info, err := fs.Stat(c.fsys, candidate)
			if err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

func candidates(base string) []string {
	base = strings.TrimSuffix(base, "/")
	if base == "" || base == "." {
		return []string{"_index.md", "index.md"}
	}
	return []string{
		base,
		base + ".md",
		path.Join(base, "_index.md"),
		path.Join(base, "index.md"),
	}
}

func (c *Checker) hasAnchor(doc string, source []byte, fragment string) bool {
	ids, ok := c.anchors[doc]
	if !ok {
		ids = map[string]bool{}
		for _, h := range markdown.Headings(source) {
			ids[h.ID] = true
		}
		c.anchors[doc] = ids
	}
	if ids[fragment] {
		return true
	}
	return ids[strings.ToLower(fragment)]
}
