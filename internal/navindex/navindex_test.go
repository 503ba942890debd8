package navindex

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-booksync/internal/markdown"
)

func sampleChapters() []Chapter {
	return []Chapter{
		{Number: 1, Heading: "Shopify Apps for Full-Stack Developers", Source: "01 - Shopify Apps for Full-Stack Developers.md", Mirror: "chapter-01.md"},
		{Number: 2, Heading: "Admin & Checkout", Source: "02 - Admin & Checkout.md", Mirror: "chapter-02.md"},
	}
}

func sampleOptions() Options {
	return Options{
		Layout:     Layout{ContentDir: "content", DocsDir: "content/docs"},
		DocsTitle:  "Documentation",
		DocsWeight: 1,
		Texts: Texts{
			DocsIntro:    "Docs intro.",
			RootIntro:    "Root intro.",
			RootClosing:  "Root closing.",
			RootOverview: "Overview.",
		},
	}
}

func TestBuildRendersAllIndexes(t *testing.T) {
	docs := Build(sampleChapters(), sampleOptions())
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	want := map[Kind]struct {
		path    string
		content string
	}{
		KindDocs: {
			path: "content/docs/_index.md",
			content: "---\n" +
				"title: \"Documentation\"\n" +
				"bookCollapseSection: false\n" +
				"weight: 1\n" +
				"---\n" +
				"\n" +
				"Docs intro.\n" +
				"\n" +
				"- [Shopify Apps for Full-Stack Developers](./chapter-01)\n" +
				"- [Admin & Checkout](./chapter-02)\n",
		},
		KindSection: {
			path: "content/_index.md",
			content: "---\n" +
				"title: \"Shopify Apps for Full-Stack Developers\"\n" +
				"---\n" +
				"\n" +
				"Root intro.\n" +
				"\n" +
				"## Chapter Guide\n" +
				"\n" +
				"- [Shopify Apps for Full-Stack Developers](./docs/chapter-01)\n" +
				"- [Admin & Checkout](./docs/chapter-02)\n" +
				"\n" +
				"Root closing.\n",
		},
		KindHome: {
			path: "index.md",
			content: "---\n" +
				"layout: home\n" +
				"---\n" +
				"\n" +
				"# Shopify Apps for Full-Stack Developers\n" +
				"\n" +
				"Overview.\n" +
				"\n" +
				"## Chapter Guide\n" +
				"\n" +
				"- [Shopify Apps for Full-Stack Developers](./01%20-%20Shopify%20Apps%20for%20Full-Stack%20Developers.md)\n" +
				"- [Admin & Checkout](./02%20-%20Admin%20%26%20Checkout.md)\n",
		},
	}

	for _, doc := range docs {
		expected, ok := want[doc.Kind]
		if !ok {
			t.Fatalf("unexpected kind %q", doc.Kind)
		}
		if doc.Path != expected.path {
			t.Fatalf("%s: expected path %q, got %q", doc.Kind, expected.path, doc.Path)
		}
		if string(doc.Content) != expected.content {
			t.Fatalf("%s: unexpected content\nwant:\n%s\ngot:\n%s", doc.Kind, expected.content, doc.Content)
		}
		if len(doc.Targets) != 2 {
			t.Fatalf("%s: expected 2 targets, got %v", doc.Kind, doc.Targets)
		}
	}
}

func TestBuildWithoutChapters(t *testing.T) {
	if docs := Build(nil, sampleOptions()); docs != nil {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestBuildHonoursEmitAndTitleOverride(t *testing.T) {
	opts := sampleOptions()
	opts.Emit = []Kind{KindSection}
	opts.BookTitle = `The "Shopify" Book`

	docs := Build(sampleChapters(), opts)
	if len(docs) != 1 || docs[0].Kind != KindSection {
		t.Fatalf("expected only the section index, got %+v", docs)
	}
	if !strings.HasPrefix(string(docs[0].Content), "---\ntitle: \"The \\\"Shopify\\\" Book\"\n---\n") {
		t.Fatalf("unexpected front matter %q", docs[0].Content)
	}
}

func TestBuildEscapesBracketsInLinkText(t *testing.T) {
	chapters := []Chapter{
		{Number: 1, Heading: `Arrays [] and \ paths`, Source: "01 - Arrays [] and paths.md", Mirror: "chapter-01.md"},
		{Number: 2, Heading: "Unbalanced ] bracket", Source: "02 - Unbalanced ] bracket.md", Mirror: "chapter-02.md"},
	}
	opts := sampleOptions()
	opts.Emit = []Kind{KindDocs}

	docs := Build(chapters, opts)
	content := string(docs[0].Content)
	if !strings.Contains(content, "- [Arrays \\[\\] and \\\\ paths](./chapter-01)\n") {
		t.Fatalf("expected escaped link text, got:\n%s", content)
	}

	links := markdown.Links(docs[0].Content)
	if len(links) != 2 || links[0].Destination != "./chapter-01" || links[1].Destination != "./chapter-02" {
		t.Fatalf("expected both entries to parse as links, got %+v", links)
	}
	if findings := Inspect(docs[0], docs[0].Content); len(findings) != 0 {
		t.Fatalf("expected generated index to inspect clean, got %+v", findings)
	}
}

func TestQuotePath(t *testing.T) {
	cases := []struct{ input, want string }{
		{"01 - Intro.md", "01%20-%20Intro.md"},
		{"02 - Q&A: Webhooks?.md", "02%20-%20Q%26A%3A%20Webhooks%3F.md"},
		{"dir/03_a-b~c.md", "dir/03_a-b~c.md"},
		{"04 - Café.md", "04%20-%20Caf%C3%A9.md"},
	}
	for _, tc := range cases {
		if got := QuotePath(tc.input); got != tc.want {
			t.Fatalf("QuotePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestInspect(t *testing.T) {
	docs := Build(sampleChapters(), sampleOptions())
	expected := docs[0]

	if findings := Inspect(expected, expected.Content); len(findings) != 0 {
		t.Fatalf("expected no findings for generated index, got %+v", findings)
	}

	actual := []byte("- [Two](./chapter-02)\n- [One](./chapter-01)\n- [One again](./chapter-01)\n- [Old](./chapter-07)\n")
	findings := Inspect(expected, actual)

	want := []Finding{
		{Kind: FindingOrder, Line: 2, Target: "./chapter-01"},
		{Kind: FindingDuplicate, Line: 3, Target: "./chapter-01"},
		{Kind: FindingUnknown, Line: 4, Target: "./chapter-07"},
	}
	if len(findings) != len(want) {
		t.Fatalf("expected %d findings, got %+v", len(want), findings)
	}
	for i := range want {
		if findings[i] != want[i] {
			t.Fatalf("finding %d: want %+v, got %+v", i, want[i], findings[i])
		}
	}

	missing := Inspect(expected, []byte("- [One](./chapter-01)\n"))
	if len(missing) != 1 || missing[0].Kind != FindingMissingEntry || missing[0].Target != "./chapter-02" {
		t.Fatalf("expected missing entry finding, got %+v", missing)
	}
}

func TestWriteSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	docs := Build(sampleChapters(), sampleOptions())

	result, err := Write(context.Background(), root, docs, false, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(result.Written) != 3 {
		t.Fatalf("expected 3 writes, got %+v", result)
	}
	data, err := os.ReadFile(filepath.Join(root, "content", "docs", "_index.md"))
	if err != nil {
		t.Fatalf("read docs index: %v", err)
	}
	if string(data) != string(docs[0].Content) {
		t.Fatalf("docs index content mismatch")
	}

	again, err := Write(context.Background(), root, docs, false, nil)
	if err != nil {
		t.Fatalf("Write (second run): %v", err)
	}
	if len(again.Written) != 0 || len(again.Unchanged) != 3 {
		t.Fatalf("expected second write to be a no-op, got %+v", again)
	}
}
