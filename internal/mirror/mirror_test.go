package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestName(t *testing.T) {
	if got := Name(1, "Intro", NamingNumber); got != "chapter-01.md" {
		t.Fatalf("unexpected number name %q", got)
	}
	if got := Name(12, "Intro", ""); got != "chapter-12.md" {
		t.Fatalf("expected number naming by default, got %q", got)
	}
	if got := Name(2, "Setup Guide", NamingSlug); got != "02-setup-guide.md" {
		t.Fatalf("unexpected slug name %q", got)
	}
	if got := LinkTarget("chapter-03.md"); got != "chapter-03" {
		t.Fatalf("unexpected link target %q", got)
	}
}

func TestReserved(t *testing.T) {
	cases := map[string]bool{
		"chapter-01.md":         true,
		"chapter-120.md":        true,
		"02-setup-guide.md":     false,
		"2024-release-notes.md": false,
		"_index.md":             false,
		"notes.md":              false,
		"chapter-1.md":          false,
		"01 - Intro.md":         false,
	}
	for name, want := range cases {
		if got := NamingNumber.Reserved(name); got != want {
			t.Fatalf("NamingNumber.Reserved(%q) = %v, want %v", name, got, want)
		}
	}
	if NamingSlug.Reserved("02-setup-guide.md") || NamingSlug.Reserved("chapter-01.md") {
		t.Fatal("expected slug mode to reserve no names")
	}
}

func TestIndexed(t *testing.T) {
	index := []byte("---\ntitle: \"Documentation\"\n---\n\nIntro.\n\n" +
		"- [Intro](./01-intro)\n" +
		"- [Setup \\[beta\\]](./chapter-02)\n" +
		"- [Intro again](./01-intro)\n" +
		"- [Elsewhere](../other/page)\n" +
		"- [Site](https://example.com/)\n")

	got := Indexed(index)
	want := []string{"01-intro.md", "chapter-02.md"}
	if len(got) != len(want) {
		t.Fatalf("Indexed() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Indexed() = %v, want %v", got, want)
		}
	}
}

func TestContent(t *testing.T) {
	entry := Entry{Number: 1, Title: "Intro", Source: "01 - Intro.md", Content: []byte("# Intro\n\nx\n")}

	plain, err := Content(entry, false)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if string(plain) != "# Intro\n\nx\n" {
		t.Fatalf("expected verbatim copy, got %q", plain)
	}

	injected, err := Content(entry, true)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	want := "---\ntitle: Intro\nweight: 1\n---\n# Intro\n\nx\n"
	if string(injected) != want {
		t.Fatalf("unexpected front matter\nwant: %q\ngot:  %q", want, injected)
	}
}

func TestContentKeepsChapterTitle(t *testing.T) {
	entry := Entry{
		Number:  4,
		Title:   "Billing",
		Source:  "04 - Billing.md",
		Content: []byte("---\ntitle: Billing and Plans\n---\n# Billing\n"),
	}

	got, err := Content(entry, true)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	want := "---\ntitle: Billing and Plans\nweight: 4\n---\n# Billing\n"
	if string(got) != want {
		t.Fatalf("unexpected content\nwant: %q\ngot:  %q", want, got)
	}
}

func TestSyncWritesPrunesAndIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content", "docs")
	writeFile(t, filepath.Join(dir, "chapter-09.md"), "old")
	writeFile(t, filepath.Join(dir, "_index.md"), "index")
	writeFile(t, filepath.Join(dir, "extra.md"), "hand written")
	writeFile(t, filepath.Join(dir, "2024-release-notes.md"), "hand written")

	writer := New(dir, Options{Prune: true}, nil)
	entries := sampleEntries()

	result, err := writer.Sync(context.Background(), entries, false)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(result.Written) != 2 || len(result.Pruned) != 1 || result.Pruned[0] != "chapter-09.md" {
		t.Fatalf("unexpected result: %+v", result)
	}
	assertContent(t, filepath.Join(dir, "chapter-01.md"), "# Intro\n\nhello\n")
	assertContent(t, filepath.Join(dir, "_index.md"), "index")
	assertContent(t, filepath.Join(dir, "extra.md"), "hand written")
	assertContent(t, filepath.Join(dir, "2024-release-notes.md"), "hand written")

	again, err := writer.Sync(context.Background(), entries, false)
	if err != nil {
		t.Fatalf("Sync (second run): %v", err)
	}
	if len(again.Written) != 0 || len(again.Pruned) != 0 || len(again.Unchanged) != 2 {
		t.Fatalf("expected second run to be a no-op, got %+v", again)
	}
}

func TestSyncPrunesPreviousMirrorsOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content", "docs")
	writeFile(t, filepath.Join(dir, "03-old-chapter.md"), "old")
	writeFile(t, filepath.Join(dir, "chapter-01.md"), "from number mode")
	writeFile(t, filepath.Join(dir, "05-appendix.md"), "hand written")

	writer := New(dir, Options{
		Naming:   NamingSlug,
		Prune:    true,
		Previous: []string{"03-old-chapter.md", "chapter-01.md"},
	}, nil)

	result, err := writer.Sync(context.Background(), sampleEntries(), false)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(result.Pruned) != 2 || result.Pruned[0] != "03-old-chapter.md" || result.Pruned[1] != "chapter-01.md" {
		t.Fatalf("unexpected pruned list: %v", result.Pruned)
	}
	assertContent(t, filepath.Join(dir, "01-intro.md"), "# Intro\n\nhello\n")
	assertContent(t, filepath.Join(dir, "05-appendix.md"), "hand written")
}

func TestSyncDryRunWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content", "docs")
	writer := New(dir, Options{}, nil)

	result, err := writer.Sync(context.Background(), sampleEntries(), true)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(result.Written) != 2 {
		t.Fatalf("expected planned writes, got %+v", result)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected docs dir to stay absent, got %v", err)
	}
}

func TestDiff(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	writer := New(dir, Options{}, nil)
	entries := sampleEntries()

	if _, err := writer.Sync(context.Background(), entries, false); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	drift, err := writer.Diff(context.Background(), entries)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(drift.Missing)+len(drift.Stale)+len(drift.Orphans) != 0 {
		t.Fatalf("expected clean drift after sync, got %+v", drift)
	}

	writeFile(t, filepath.Join(dir, "chapter-01.md"), "edited by hand\n")
	if err := os.Remove(filepath.Join(dir, "chapter-02.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	writeFile(t, filepath.Join(dir, "chapter-05.md"), "orphan\n")

	drift, err = writer.Diff(context.Background(), entries)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(drift.Stale) != 1 || drift.Stale[0].Name != "chapter-01.md" || string(drift.Stale[0].Actual) != "edited by hand\n" {
		t.Fatalf("unexpected stale list: %+v", drift.Stale)
	}
	if len(drift.Missing) != 1 || drift.Missing[0] != "chapter-02.md" {
		t.Fatalf("unexpected missing list: %v", drift.Missing)
	}
	if len(drift.Orphans) != 1 || drift.Orphans[0] != "chapter-05.md" {
		t.Fatalf("unexpected orphans: %v", drift.Orphans)
	}
}

func sampleEntries() []Entry {
	return []Entry{
		{Number: 1, Title: "Intro", Source: "01 - Intro.md", Content: []byte("# Intro\n\nhello\n")},
		{Number: 2, Title: "Setup", Source: "02 - Setup.md", Content: []byte("# Setup\n\nsteps\n")},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Fatalf("unexpected content in %s\nwant: %q\ngot:  %q", path, want, data)
	}
}
