// Package hugo checks the site configuration and runs the Hugo binary.
package hugo

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-booksync/internal/config"
)

// Site is the subset of the Hugo site config that preflight inspects.
type Site struct {
	ConfigFile string
	BaseURL    string
	Themes     []string
}

type siteDocument struct {
	BaseURL string `toml:"baseURL" yaml:"baseURL"`
	Theme   any    `toml:"theme" yaml:"theme"`
}

// Preflight verifies that Hugo can build the book under root: a site config
// exists, baseURL is absolute with a trailing slash, and every configured
// theme is present under the themes directory.
func Preflight(root string, cfg config.HugoConfig) (*Site, error) {
	file, err := findConfig(root, cfg.ConfigFiles)
	if err != nil {
		return nil, err
	}

	doc, err := readSite(filepath.Join(root, file))
	if err != nil {
		return nil, err
	}
	site := &Site{
		ConfigFile: file,
		BaseURL:    strings.TrimSpace(doc.BaseURL),
		Themes:     themeNames(doc.Theme),
	}

	if site.BaseURL == "" {
		return site, preflightError(ErrBaseURLMissing,
			fmt.Sprintf("%s does not set baseURL", file),
			map[string]any{"config": file})
	}
	if !validBaseURL(site.BaseURL) {
		return site, preflightError(ErrBaseURLInvalid,
			fmt.Sprintf("baseURL %q in %s", site.BaseURL, file),
			map[string]any{"config": file, "base_url": site.BaseURL})
	}

	themesDir := cfg.ThemesDir
	if themesDir == "" {
		themesDir = "themes"
	}
	for _, theme := range site.Themes {
		dir := filepath.Join(root, filepath.FromSlash(themesDir), theme)
		if !nonEmptyDir(dir) {
			return site, preflightError(ErrThemeMissing,
				fmt.Sprintf("theme %q not found in %s; run git submodule update --init", theme, themesDir),
				map[string]any{"theme": theme, "themes_dir": themesDir})
		}
	}
	return site, nil
}

func findConfig(root string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		candidates = config.Default().Hugo.ConfigFiles
	}
	for _, name := range candidates {
		info, err := os.Stat(filepath.Join(root, name))
		if err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", preflightError(ErrSiteConfigMissing,
		fmt.Sprintf("none of %s exist", strings.Join(candidates, ", ")),
		map[string]any{"candidates": candidates})
}

func readSite(path string) (siteDocument, error) {
	var doc siteDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("hugo: read %s: %w", filepath.Base(path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return doc, fmt.Errorf("hugo: parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("hugo: parse %s: %w", filepath.Base(path), err)
		}
	default:
		return doc, fmt.Errorf("hugo: unsupported config format %s", filepath.Base(path))
	}
	return doc, nil
}

// themeNames accepts both `theme = "name"` and `theme = ["a", "b"]`.
func themeNames(value any) []string {
	var names []string
	switch v := value.(type) {
	case string:
		names = append(names, v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	case []string:
		names = append(names, v...)
	}

	out := names[:0]
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validBaseURL(raw string) bool {
	if !strings.HasSuffix(raw, "/") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

func nonEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) || err != nil {
		return false
	}
	return len(entries) > 0
}
