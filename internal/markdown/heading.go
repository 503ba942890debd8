package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading located in a Markdown source. Line numbers are
// one-based. EndLine differs from Line for setext headings, whose underline
// closes the heading.
type Heading struct {
	Level   int
	Text    string
	ID      string
	Line    int
	EndLine int
	Setext  bool
}

var atxOpening = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)

// analyzer is only used for parsing; rendering builds its own engine.
var analyzer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func parseDocument(source []byte) ast.Node {
	return analyzer.Parser().Parse(text.NewReader(source))
}

// FirstHeading returns the first non-empty level one heading that sits at
// the top level of the document. Headings inside code blocks, block quotes
// and lists are ignored.
func FirstHeading(source []byte) (Heading, bool) {
	doc := parseDocument(source)
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		h, ok := node.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		heading, ok := toHeading(h, source)
		if !ok {
			continue
		}
		return heading, true
	}
	return Heading{}, false
}

// Headings lists every non-empty heading in document order, nested ones
// included, with the anchor ID goldmark assigns to it.
func Headings(source []byte) []Heading {
	doc := parseDocument(source)
	var out []Heading
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading, ok := toHeading(h, source); ok {
			out = append(out, heading)
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func toHeading(h *ast.Heading, source []byte) (Heading, bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return Heading{}, false
	}

	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if part := strings.TrimSpace(string(seg.Value(source))); part != "" {
			parts = append(parts, part)
		}
	}
	title := strings.Join(parts, " ")
	if title == "" {
		return Heading{}, false
	}

	first := lineAt(source, lines.At(0).Start)
	last := lineAt(source, lines.At(lines.Len()-1).Start)

	heading := Heading{
		Level:   h.Level,
		Text:    title,
		ID:      headingID(h),
		Line:    first,
		EndLine: last,
	}
	if !atxOpening.Match(sourceLine(source, first)) {
		heading.Setext = true
		heading.EndLine = last + 1
	}
	return heading, true
}

func headingID(h *ast.Heading) string {
	value, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

// lineAt converts a byte offset into a one-based line number.
func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

// sourceLine returns the one-based line without its terminator.
func sourceLine(source []byte, line int) []byte {
	for i := 1; i < line; i++ {
		next := bytes.IndexByte(source, '\n')
		if next < 0 {
			return nil
		}
		source = source[next+1:]
	}
	if end := bytes.IndexByte(source, '\n'); end >= 0 {
		source = source[:end]
	}
	return bytes.TrimRight(source, "\r")
}
