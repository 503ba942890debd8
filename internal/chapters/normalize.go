package chapters

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-booksync/internal/markdown"
)

// Normalized is a chapter rewritten into canonical form.
type Normalized struct {
	Heading     string
	FrontMatter markdown.FrontMatter
	Content     []byte
}

// Normalize rewrites a chapter so it opens with its first level one heading
// as "# Heading", followed by one blank line and the body. Anything between
// the front matter and the heading is dropped, trailing whitespace is
// trimmed and the result ends with a single newline. A leading front matter
// block is kept verbatim.
func Normalize(source []byte) (Normalized, error) {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")

	fm, body, err := markdown.SplitFrontMatter([]byte(text))
	if err != nil {
		return Normalized{}, err
	}

	heading, ok := markdown.FirstHeading(body)
	if !ok {
		return Normalized{}, ErrHeadingMissing
	}

	lines := strings.Split(string(body), "\n")
	rest := []string{}
	if heading.EndLine < len(lines) {
		rest = lines[heading.EndLine:]
	}
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}

	out := make([]string, 0, len(rest)+2)
	out = append(out, "# "+heading.Text, "")
	out = append(out, rest...)
	normalized := strings.TrimRightFunc(strings.Join(out, "\n"), unicode.IsSpace) + "\n"

	return Normalized{
		Heading:     heading.Text,
		FrontMatter: fm,
		Content:     append(append([]byte(nil), fm.Raw...), normalized...),
	}, nil
}
