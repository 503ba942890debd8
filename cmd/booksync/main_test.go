package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-booksync/cmd/booksync/internal/bootstrap"
)

func writeBook(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append(args, "--no-color"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSyncThenCheck(t *testing.T) {
	root := writeBook(t, map[string]string{
		"1 - intro.md":  "# Intro\n\nHello.\n",
		"02 - Setup.md": "# Setup\n\nSteps.\n",
	})

	code, out, errOut := runCLI(t, "sync", "--root", root)
	if code != 0 {
		t.Fatalf("sync exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "2 chapter(s) synced") {
		t.Fatalf("unexpected sync output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "01 - Intro.md")); err != nil {
		t.Fatalf("expected renamed chapter: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "content", "docs", "chapter-02.md")); err != nil {
		t.Fatalf("expected mirrored chapter: %v", err)
	}

	code, out, errOut = runCLI(t, "check", "--links", "--root", root)
	if code != 0 {
		t.Fatalf("check exited %d: %s %s", code, out, errOut)
	}
	if !strings.Contains(out, "2 chapter(s), no issues") {
		t.Fatalf("unexpected check output: %s", out)
	}
}

func TestSyncDryRunWritesNothing(t *testing.T) {
	root := writeBook(t, map[string]string{"1 - intro.md": "# Intro\n"})

	code, out, errOut := runCLI(t, "sync", "--dry-run", "--root", root)
	if code != 0 {
		t.Fatalf("sync exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "would rename") || !strings.Contains(out, "dry run: nothing written") {
		t.Fatalf("unexpected dry run output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "content")); !os.IsNotExist(err) {
		t.Fatalf("expected no content dir, got %v", err)
	}
}

func TestCheckFailsOnDrift(t *testing.T) {
	root := writeBook(t, map[string]string{"01 - Intro.md": "# Intro\n"})

	code, out, errOut := runCLI(t, "check", "--root", root)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out, "mirror_missing") || !strings.Contains(out, "index_missing") {
		t.Fatalf("expected drift issues, got %s", out)
	}
	if strings.Contains(errOut, "error:") {
		t.Fatalf("expected report only, got error line: %s", errOut)
	}
}

func TestChaptersAndPreview(t *testing.T) {
	root := writeBook(t, map[string]string{
		"01 - Intro.md": "# Intro\n\n\n\nHello **there**.",
	})

	code, out, errOut := runCLI(t, "list", "--root", root)
	if code != 0 {
		t.Fatalf("list exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "01  Intro") || !strings.Contains(out, "chapter-01.md") {
		t.Fatalf("unexpected list output: %s", out)
	}

	code, out, errOut = runCLI(t, "preview", "1", "--root", root)
	if code != 0 {
		t.Fatalf("preview exited %d: %s", code, errOut)
	}
	if out != "# Intro\n\nHello **there**.\n" {
		t.Fatalf("unexpected preview: %q", out)
	}

	code, out, _ = runCLI(t, "preview", "1", "--html", "--root", root)
	if code != 0 || !strings.Contains(out, "<strong>there</strong>") {
		t.Fatalf("unexpected html preview (%d): %s", code, out)
	}

	code, _, errOut = runCLI(t, "preview", "9", "--root", root)
	if code != 1 || !strings.Contains(errOut, "error:") {
		t.Fatalf("expected missing chapter error, got %d: %s", code, errOut)
	}
}

func TestInstallHook(t *testing.T) {
	root := writeBook(t, map[string]string{".git/HEAD": "ref: refs/heads/main\n"})

	code, out, errOut := runCLI(t, "install-hook", "--root", root)
	if code != 0 {
		t.Fatalf("install-hook exited %d: %s", code, errOut)
	}
	hook := filepath.Join(root, ".git", "hooks", "pre-commit")
	if !strings.Contains(out, hook) {
		t.Fatalf("expected hook path in output, got %s", out)
	}
	data, err := os.ReadFile(hook)
	if err != nil {
		t.Fatalf("read hook: %v", err)
	}
	if !strings.Contains(string(data), "booksync sync") || !strings.Contains(string(data), "'content'") {
		t.Fatalf("unexpected hook script:\n%s", data)
	}
}

func TestBuildFailsPreflightWithoutSiteConfig(t *testing.T) {
	root := writeBook(t, map[string]string{"01 - Intro.md": "# Intro\n"})

	code, _, errOut := runCLI(t, "build", "--root", root)
	if code != 1 || !strings.Contains(errOut, "site config") {
		t.Fatalf("expected preflight failure, got %d: %s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(root, "content")); !os.IsNotExist(err) {
		t.Fatalf("expected sync to be skipped, got %v", err)
	}
}

func TestModuleBuilderErrorIsReported(t *testing.T) {
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	var got bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		got = opts
		return nil, errors.New("boom")
	}

	code, _, errOut := runCLI(t, "sync", "--root", "/book", "--log-level", "debug")
	if code != 1 || !strings.Contains(errOut, "error: boom") {
		t.Fatalf("expected bootstrap error, got %d: %s", code, errOut)
	}
	if got.Root != "/book" || got.LogLevel != "debug" || !got.NoColor {
		t.Fatalf("unexpected options: %+v", got)
	}
}

func TestServeWatchFollowsConfigUnlessFlagSet(t *testing.T) {
	module := &bootstrap.Module{}
	module.Config.Watch.Enabled = false

	cases := []struct {
		name string
		args []string
		want bool
	}{
		{name: "config default", args: nil, want: false},
		{name: "flag on", args: []string{"--watch"}, want: true},
		{name: "flag off", args: []string{"--watch=false"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := (&cli{}).serveCommand()
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			flag, err := cmd.Flags().GetBool("watch")
			if err != nil {
				t.Fatalf("GetBool: %v", err)
			}
			if got := serveWatches(cmd, flag, module); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	module.Config.Watch.Enabled = true
	if !serveWatches((&cli{}).serveCommand(), false, module) {
		t.Fatal("expected watch.enabled to turn the watcher on")
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	if code != 0 || !strings.Contains(out, "booksync version: dev") {
		t.Fatalf("unexpected version output (%d): %s", code, out)
	}
}
