package hugo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-booksync/internal/config"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestPreflightAcceptsTOMLSite(t *testing.T) {
	root := writeSite(t, map[string]string{
		"hugo.toml":                   "baseURL = \"https://example.com/book/\"\ntheme = \"hugo-book\"\n",
		"themes/hugo-book/theme.toml": "name = \"Book\"\n",
	})

	site, err := Preflight(root, config.Default().Hugo)
	require.NoError(t, err)
	assert.Equal(t, "hugo.toml", site.ConfigFile)
	assert.Equal(t, "https://example.com/book/", site.BaseURL)
	assert.Equal(t, []string{"hugo-book"}, site.Themes)
}

func TestPreflightAcceptsYAMLThemeList(t *testing.T) {
	root := writeSite(t, map[string]string{
		"config.yaml":         "baseURL: https://example.com/\ntheme:\n  - base\n  - extra\n",
		"themes/base/layout":  "x",
		"themes/extra/layout": "x",
	})

	site, err := Preflight(root, config.Default().Hugo)
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", site.ConfigFile)
	assert.Equal(t, []string{"base", "extra"}, site.Themes)
}

func TestPreflightFailures(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name:  "no config",
			files: map[string]string{"README.md": "x"},
			want:  ErrSiteConfigMissing,
		},
		{
			name:  "no base url",
			files: map[string]string{"hugo.toml": "title = \"Book\"\n"},
			want:  ErrBaseURLMissing,
		},
		{
			name:  "relative base url",
			files: map[string]string{"hugo.toml": "baseURL = \"/book/\"\n"},
			want:  ErrBaseURLInvalid,
		},
		{
			name:  "missing trailing slash",
			files: map[string]string{"hugo.toml": "baseURL = \"https://example.com/book\"\n"},
			want:  ErrBaseURLInvalid,
		},
		{
			name: "empty theme submodule",
			files: map[string]string{
				"hugo.toml":             "baseURL = \"https://example.com/\"\ntheme = \"hugo-book\"\n",
				"themes/other/file.txt": "x",
			},
			want: ErrThemeMissing,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := writeSite(t, tc.files)
			_, err := Preflight(root, config.Default().Hugo)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
		})
	}
}

func TestPreflightRejectsMalformedConfig(t *testing.T) {
	root := writeSite(t, map[string]string{"hugo.toml": "baseURL = \n"})
	_, err := Preflight(root, config.Default().Hugo)
	require.Error(t, err)
}

func TestRunnerBuildSucceeds(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true binary not available")
	}
	var out bytes.Buffer
	runner := &Runner{Binary: "true", Dir: t.TempDir(), Stdout: &out, Stderr: &out}
	require.NoError(t, runner.Build(context.Background(), []string{"--minify"}))
	require.NoError(t, runner.Serve(context.Background(), []string{"-D"}))
}

func TestRunnerReportsExternalFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false binary not available")
	}
	runner := &Runner{Binary: "false", Dir: t.TempDir(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := runner.Build(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryExternal))

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}
