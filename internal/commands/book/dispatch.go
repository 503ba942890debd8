package bookcmd

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// DispatchRegistry subscribes book handlers to the go-command dispatcher so
// callers can send messages with dispatcher.Dispatch instead of holding
// handlers.
type DispatchRegistry struct {
	retries int

	mu   sync.Mutex
	subs []interface{ Unsubscribe() }
}

// NewDispatchRegistry builds a registry whose sync subscription retries a
// failed run up to retries times. Checks are never retried.
func NewDispatchRegistry(retries int) *DispatchRegistry {
	return &DispatchRegistry{retries: max(retries, 0)}
}

// RegisterCommand satisfies CommandRegistry.
func (r *DispatchRegistry) RegisterCommand(handler any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch h := handler.(type) {
	case *SyncBookHandler:
		r.subs = append(r.subs, dispatcher.SubscribeCommand(h, runner.WithMaxRetries(r.retries)))
	case *CheckBookHandler:
		r.subs = append(r.subs, dispatcher.SubscribeCommand(h, runner.WithMaxRetries(0)))
	default:
		return fmt.Errorf("book command registration: unsupported handler %T", handler)
	}
	return nil
}

// Close removes every subscription made through the registry.
func (r *DispatchRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
}
