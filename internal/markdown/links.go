package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// Link is a link or image destination found in a Markdown source.
type Link struct {
	Destination string
	// Line is the one-based line the link text starts on.
	Line  int
	Image bool
	Auto  bool
}

// Links collects inline links, images and autolinks in document order.
// Reference-style links are reported with their resolved destination.
func Links(source []byte) []Link {
	doc := parseDocument(source)
	var out []Link
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Link:
			out = append(out, Link{
				Destination: string(n.Destination),
				Line:        inlineLine(n, source),
			})
		case *ast.Image:
			out = append(out, Link{
				Destination: string(n.Destination),
				Line:        inlineLine(n, source),
				Image:       true,
			})
		case *ast.AutoLink:
			out = append(out, Link{
				Destination: string(n.URL(source)),
				Line:        inlineLine(n, source),
				Auto:        true,
			})
		}
		return ast.WalkContinue, nil
	})
	return out
}

// inlineLine finds the line of an inline node from its first text segment,
// falling back to the first line of the enclosing block.
func inlineLine(node ast.Node, source []byte) int {
	var found *ast.Text
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := child.(*ast.Text); ok && entering {
			found = t
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if found != nil {
		return lineAt(source, found.Segment.Start)
	}

	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Type() == ast.TypeBlock && parent.Lines().Len() > 0 {
			return lineAt(source, parent.Lines().At(0).Start)
		}
	}
	return 0
}
