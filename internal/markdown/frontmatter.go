package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is a metadata block found at the top of a Markdown file.
type FrontMatter struct {
	// Raw holds the block exactly as it appears in the source, delimiters
	// and trailing newline included.
	Raw  []byte
	Meta map[string]any
}

var frontMatterDelimiters = [][]byte{[]byte("---"), []byte("+++")}

// SplitFrontMatter separates a leading YAML (---) or TOML (+++) front matter
// block from the Markdown body. Sources without a closed block are returned
// untouched as the body.
func SplitFrontMatter(source []byte) (FrontMatter, []byte, error) {
	end := frontMatterEnd(source)
	if end == 0 {
		return FrontMatter{}, source, nil
	}

	raw := source[:end]
	meta := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(raw), &meta); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return FrontMatter{
		Raw:  append([]byte(nil), raw...),
		Meta: meta,
	}, source[end:], nil
}

// frontMatterEnd returns the offset just past the closing delimiter line, or
// zero when the source does not open with a complete block.
func frontMatterEnd(source []byte) int {
	first, rest, ok := cutLine(source)
	if !ok {
		return 0
	}

	var delim []byte
	for _, candidate := range frontMatterDelimiters {
		if bytes.Equal(bytes.TrimRight(first, " \t\r"), candidate) {
			delim = candidate
			break
		}
	}
	if delim == nil {
		return 0
	}

	offset := len(source) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		offset += len(rest) - len(next)
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), delim) {
			return offset
		}
		rest = next
	}
	return 0
}

func cutLine(source []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(source, '\n'); i >= 0 {
		return source[:i], source[i+1:], true
	}
	return source, nil, false
}
