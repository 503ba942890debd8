package hugo

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrSiteConfigMissing reports a book root without a site config file.
	ErrSiteConfigMissing = errors.New("hugo: site config not found")
	// ErrBaseURLMissing reports a site config without baseURL.
	ErrBaseURLMissing = errors.New("hugo: baseURL is not set")
	// ErrBaseURLInvalid reports a baseURL that is not absolute or lacks the trailing slash.
	ErrBaseURLInvalid = errors.New("hugo: baseURL must be an absolute URL ending in /")
	// ErrThemeMissing reports a theme directory that is absent or empty,
	// usually an uninitialised git submodule.
	ErrThemeMissing = errors.New("hugo: theme directory is missing or empty")
)

const (
	codePreflightFailed = "HUGO_PREFLIGHT_FAILED"
	codeRunFailed       = "HUGO_RUN_FAILED"
)

func preflightError(sentinel error, detail string, meta map[string]any) error {
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, detail).
		WithTextCode(codePreflightFailed).
		WithMetadata(meta)
}

func runError(binary string, args []string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal,
		fmt.Sprintf("%s exited with an error", binary)).
		WithTextCode(codeRunFailed).
		WithMetadata(map[string]any{"binary": binary, "args": args})
}
