package chapters

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeHeadingMissing = "CHAPTER_HEADING_MISSING"
	codeTitleEmpty     = "CHAPTER_TITLE_EMPTY"
	codeTargetExists   = "CHAPTER_TARGET_EXISTS"
	codeReadFailed     = "CHAPTER_READ_FAILED"
	codeApplyFailed    = "CHAPTER_APPLY_FAILED"
)

var (
	// ErrHeadingMissing reports a chapter without a level one heading.
	ErrHeadingMissing = errors.New("chapters: no level one heading found")
	// ErrTitleEmpty reports a heading that sanitizes to an empty file name.
	ErrTitleEmpty = errors.New("chapters: heading yields an empty file name")
	// ErrTargetExists reports a rename onto a file the sync does not own.
	ErrTargetExists = errors.New("chapters: target file name already exists")
)

func headingMissingError(file string) error {
	return goerrors.Wrap(ErrHeadingMissing, goerrors.CategoryValidation,
		fmt.Sprintf("chapter %q has no level one heading", file)).
		WithTextCode(codeHeadingMissing).
		WithMetadata(map[string]any{"file": file})
}

func titleEmptyError(file, heading string) error {
	return goerrors.Wrap(ErrTitleEmpty, goerrors.CategoryValidation,
		fmt.Sprintf("chapter %q heading %q has no usable characters", file, heading)).
		WithTextCode(codeTitleEmpty).
		WithMetadata(map[string]any{"file": file, "heading": heading})
}

func targetExistsError(source, target string) error {
	return goerrors.Wrap(ErrTargetExists, goerrors.CategoryConflict,
		fmt.Sprintf("cannot rename %q: target %q already exists", source, target)).
		WithTextCode(codeTargetExists).
		WithMetadata(map[string]any{"file": source, "target": target})
}

func readError(file string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal,
		fmt.Sprintf("read chapter %q", file)).
		WithTextCode(codeReadFailed).
		WithMetadata(map[string]any{"file": file})
}

func applyError(op, file string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal,
		fmt.Sprintf("%s %q", op, file)).
		WithTextCode(codeApplyFailed).
		WithMetadata(map[string]any{"file": file, "operation": op})
}
