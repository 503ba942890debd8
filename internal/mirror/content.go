package mirror

import (
	"bytes"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-booksync/internal/markdown"
)

// Entry is a chapter as the mirror sees it.
type Entry struct {
	Number int
	Title  string
	// Source is the chapter file name at the book root.
	Source  string
	Content []byte
}

// Content returns the bytes written to the mirrored copy. Without front
// matter injection the copy is byte-identical to the chapter. With it, a
// Hugo front matter block carrying title and weight is merged over the
// chapter's own block.
func Content(entry Entry, injectFrontMatter bool) ([]byte, error) {
	if !injectFrontMatter {
		return append([]byte(nil), entry.Content...), nil
	}

	fm, body, err := markdown.SplitFrontMatter(entry.Content)
	if err != nil {
		return nil, fmt.Errorf("mirror: %s: %w", entry.Source, err)
	}

	meta := map[string]any{}
	maps.Copy(meta, fm.Meta)
	if _, ok := meta["title"]; !ok {
		meta["title"] = entry.Title
	}
	meta["weight"] = entry.Number

	encoded, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("mirror: encode front matter for %s: %w", entry.Source, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(encoded) + len(body) + 8)
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
