package bookcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-booksync/pkg/interfaces"
)

const (
	syncBookMessageType  = "booksync.book.sync"
	checkBookMessageType = "booksync.book.check"
)

// SyncBookCommand runs the chapter, mirror and index sync for the book at Root.
type SyncBookCommand struct {
	// Root is the book root the service was configured with.
	Root   string `json:"root"`
	DryRun bool   `json:"dry_run,omitempty"`
	// Prune overrides the configured orphan pruning when set.
	Prune *bool `json:"prune,omitempty"`
	// Report receives the result of a successful run.
	Report func(*interfaces.SyncResult) `json:"-"`
}

// Type implements command.Message.
func (SyncBookCommand) Type() string { return syncBookMessageType }

// Validate ensures the root is present before handlers execute.
func (cmd SyncBookCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Root, validation.Required, validation.By(notBlank("booksync.book.sync.root_required"))),
	)
}

// CheckBookCommand verifies the book at Root without writing.
type CheckBookCommand struct {
	Root  string `json:"root"`
	Links bool   `json:"links,omitempty"`
	// Report receives the report, including failing ones.
	Report func(*interfaces.CheckReport) `json:"-"`
}

// Type implements command.Message.
func (CheckBookCommand) Type() string { return checkBookMessageType }

// Validate ensures the root is present before handlers execute.
func (cmd CheckBookCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Root, validation.Required, validation.By(notBlank("booksync.book.check.root_required"))),
	)
}

func notBlank(code string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, "root is required")
		}
		return nil
	}
}
