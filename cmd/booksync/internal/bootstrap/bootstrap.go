package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-booksync/internal/booksync"
	bookcmd "github.com/goliatone/go-booksync/internal/commands/book"
	"github.com/goliatone/go-booksync/internal/config"
	"github.com/goliatone/go-booksync/internal/logging"
	"github.com/goliatone/go-booksync/internal/logging/console"
	"github.com/goliatone/go-booksync/internal/logging/gologger"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// Options captures the global CLI flags.
type Options struct {
	// Root overrides the book root. Empty means the config value, resolved
	// against the config file's directory.
	Root string
	// ConfigPath names the config file. Empty means <root>/booksync.yaml,
	// which may be absent.
	ConfigPath string
	LogLevel   string
	LogFormat  string
	NoColor    bool
	// LogWriter receives console log lines. Defaults to stderr.
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
}

// Module bundles the configured book service and its command handlers.
type Module struct {
	Config   config.Config
	Service  booksync.Service
	Commands *bookcmd.HandlerSet
	Provider interfaces.LoggerProvider
	Logger   interfaces.Logger

	registry *bookcmd.DispatchRegistry
}

// BuildModule loads configuration and wires the book service.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider, err = NewLoggerProvider(cfg.Logging, opts.LogWriter, opts.NoColor)
		if err != nil {
			return nil, err
		}
	}

	service := booksync.NewService(cfg, booksync.WithLoggerProvider(provider))
	registry := bookcmd.NewDispatchRegistry(cfg.Watch.Retries)
	handlers, err := bookcmd.RegisterBookCommands(registry, service, provider)
	if err != nil {
		registry.Close()
		return nil, err
	}

	return &Module{
		Config:   cfg,
		Service:  service,
		Commands: handlers,
		Provider: provider,
		Logger:   logging.RootLogger(provider),
		registry: registry,
	}, nil
}

// Close drops the module's dispatcher subscriptions.
func (m *Module) Close() {
	if m != nil && m.registry != nil {
		m.registry.Close()
	}
}

// LoadConfig reads the config file and applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	root := strings.TrimSpace(opts.Root)
	path := strings.TrimSpace(opts.ConfigPath)
	explicit := path != ""
	if !explicit {
		base := root
		if base == "" {
			base = "."
		}
		path = filepath.Join(base, config.FileName)
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	if root != "" {
		cfg.Book.Root = root
	} else if !filepath.IsAbs(cfg.Book.Root) {
		cfg.Book.Root = filepath.Join(filepath.Dir(path), cfg.Book.Root)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	info, err := os.Stat(cfg.Book.Root)
	if err != nil {
		return cfg, fmt.Errorf("book root %s: %w", cfg.Book.Root, err)
	}
	if !info.IsDir() {
		return cfg, fmt.Errorf("book root %s is not a directory", cfg.Book.Root)
	}
	return cfg, nil
}

// NewLoggerProvider builds the provider named in the logging config.
func NewLoggerProvider(cfg config.LoggingConfig, w io.Writer, noColor bool) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "", "console":
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		if w == nil {
			w = os.Stderr
		}
		return console.NewProvider(console.Options{
			Writer:   w,
			MinLevel: &level,
			Color:    !noColor,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrLoggingProviderUnknown, cfg.Provider)
	}
}
