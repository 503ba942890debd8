package bookcmd

import (
	"errors"

	"github.com/goliatone/go-booksync/internal/commands"
	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the book command handlers.
type HandlerSet struct {
	Sync  *SyncBookHandler
	Check *CheckBookHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	syncHandlerOpts  []commands.HandlerOption[SyncBookCommand]
	checkHandlerOpts []commands.HandlerOption[CheckBookCommand]
}

// WithSyncHandlerOptions forwards options to the SyncBookHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncBookCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithCheckHandlerOptions forwards options to the CheckBookHandler constructor.
func WithCheckHandlerOptions(opts ...commands.HandlerOption[CheckBookCommand]) Option {
	return func(cfg *options) {
		cfg.checkHandlerOpts = append(cfg.checkHandlerOpts, opts...)
	}
}

// RegisterBookCommands builds the book handlers and registers them with reg
// when it is non-nil.
func RegisterBookCommands(reg CommandRegistry, service interfaces.BookService, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("book command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "book")
	set := &HandlerSet{
		Sync:  NewSyncBookHandler(service, logger, cfg.syncHandlerOpts...),
		Check: NewCheckBookHandler(service, logger, cfg.checkHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Check); err != nil {
			return nil, err
		}
	}
	return set, nil
}
