package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	ErrRootDirRequired        = errors.New("booksync config: book root is required")
	ErrContentDirRequired     = errors.New("booksync config: content directory is required")
	ErrDocsDirOutsideContent  = errors.New("booksync config: docs directory must sit inside the content directory")
	ErrPathNotRelative        = errors.New("booksync config: book paths must be relative to the root")
	ErrMirrorNamingInvalid    = errors.New("booksync config: mirror naming must be number or slug")
	ErrIndexKindUnknown       = errors.New("booksync config: unknown index kind")
	ErrLoggingProviderUnknown = errors.New("booksync config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("booksync config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("booksync config: logging format is invalid")
	ErrWatchDebounceInvalid   = errors.New("booksync config: watch debounce must be positive")
	ErrWatchRetriesInvalid    = errors.New("booksync config: watch retries must not be negative")
	ErrHugoBinaryRequired     = errors.New("booksync config: hugo binary is required")
)

// Config drives every booksync command. It is read from booksync.yaml at
// the book root; zero files fall back to Default.
type Config struct {
	Book    BookConfig    `yaml:"book"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Index   IndexConfig   `yaml:"index"`
	Hugo    HugoConfig    `yaml:"hugo"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// BookConfig locates chapters and the Hugo content tree.
type BookConfig struct {
	Root       string   `yaml:"root"`
	ContentDir string   `yaml:"content_dir"`
	DocsDir    string   `yaml:"docs_dir"`
	Pattern    string   `yaml:"pattern"`
	Exclude    []string `yaml:"exclude"`
	// Title overrides the book title taken from the first chapter.
	Title string `yaml:"title"`
}

// MirrorConfig controls the copies under the docs directory.
type MirrorConfig struct {
	Naming      string `yaml:"naming"`
	FrontMatter bool   `yaml:"front_matter"`
	Prune       bool   `yaml:"prune"`
}

// IndexConfig holds the navigation index texts.
type IndexConfig struct {
	DocsTitle    string   `yaml:"docs_title"`
	DocsWeight   int      `yaml:"docs_weight"`
	DocsIntro    string   `yaml:"docs_intro"`
	RootIntro    string   `yaml:"root_intro"`
	RootClosing  string   `yaml:"root_closing"`
	RootOverview string   `yaml:"root_overview"`
	Emit         []string `yaml:"emit"`
}

// HugoConfig wraps the external site generator.
type HugoConfig struct {
	Binary      string   `yaml:"binary"`
	ConfigFiles []string `yaml:"config_files"`
	ThemesDir   string   `yaml:"themes_dir"`
	BuildArgs   []string `yaml:"build_args"`
	ServeArgs   []string `yaml:"serve_args"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	// Enabled controls whether serve watches chapters by default.
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
	// Retries is how many times a failed watch-triggered sync is re-run.
	Retries int `yaml:"retries"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	Focus     []string `yaml:"focus"`
	AddSource bool     `yaml:"add_source"`
}

const (
	DefaultDocsIntro = "This section collects the full Shopify app development playbook, guiding you from " +
		"platform fundamentals through extensions, deployment, and monetization."
	DefaultRootIntro = "Welcome to a hands-on journey through Shopify app development. This book reframes " +
		"the platform through familiar full-stack patterns so you can build production-ready " +
		"apps with confidence."
	DefaultRootClosing = "Work through the chapters in order or dive into the sections you need most, and refer " +
		"back as your Shopify apps evolve."
	DefaultRootOverview = "This curriculum walks you through building modern Shopify apps, mapping each concept " +
		"to familiar full-stack patterns so you can ship production features faster."
)

// Default returns the configuration the book has always been built with.
func Default() Config {
	return Config{
		Book: BookConfig{
			Root:       ".",
			ContentDir: "content",
			DocsDir:    "content/docs",
			Pattern:    "*.md",
			Exclude:    []string{"README.md", "index.md", "CHANGELOG.md", "AGENTS.md"},
		},
		Mirror: MirrorConfig{
			Naming: "number",
			Prune:  true,
		},
		Index: IndexConfig{
			DocsTitle:    "Documentation",
			DocsWeight:   1,
			DocsIntro:    DefaultDocsIntro,
			RootIntro:    DefaultRootIntro,
			RootClosing:  DefaultRootClosing,
			RootOverview: DefaultRootOverview,
			Emit:         []string{"docs", "section", "home"},
		},
		Hugo: HugoConfig{
			Binary:      "hugo",
			ConfigFiles: []string{"hugo.toml", "hugo.yaml", "hugo.yml", "config.toml", "config.yaml", "config.yml"},
			ThemesDir:   "themes",
			ServeArgs:   []string{"-D"},
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 500 * time.Millisecond,
			Retries:  1,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks cross-field rules the schema cannot express.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Book.Root) == "" {
		return ErrRootDirRequired
	}
	content := strings.TrimSpace(cfg.Book.ContentDir)
	if content == "" {
		return ErrContentDirRequired
	}
	for _, dir := range []string{content, cfg.Book.DocsDir} {
		if path.IsAbs(dir) || strings.HasPrefix(path.Clean(dir), "..") {
			return fmt.Errorf("%w: %s", ErrPathNotRelative, dir)
		}
	}
	if !strings.HasPrefix(path.Clean(cfg.Book.DocsDir)+"/", path.Clean(content)+"/") ||
		path.Clean(cfg.Book.DocsDir) == path.Clean(content) {
		return fmt.Errorf("%w: %s", ErrDocsDirOutsideContent, cfg.Book.DocsDir)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Mirror.Naming)) {
	case "", "number", "slug":
	default:
		return fmt.Errorf("%w: %s", ErrMirrorNamingInvalid, cfg.Mirror.Naming)
	}

	for _, kind := range cfg.Index.Emit {
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case "docs", "section", "home":
		default:
			return fmt.Errorf("%w: %s", ErrIndexKindUnknown, kind)
		}
	}

	if strings.TrimSpace(cfg.Hugo.Binary) == "" {
		return ErrHugoBinaryRequired
	}
	if cfg.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: %s", ErrWatchDebounceInvalid, cfg.Watch.Debounce)
	}
	if cfg.Watch.Retries < 0 {
		return fmt.Errorf("%w: %d", ErrWatchRetriesInvalid, cfg.Watch.Retries)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "console"
	}
	return provider
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
