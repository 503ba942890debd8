package booksync

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codePlanFailed     = "SYNC_PLAN_FAILED"
	codeMirrorFailed   = "SYNC_MIRROR_FAILED"
	codeIndexFailed    = "SYNC_INDEX_FAILED"
	codeLinkFailed     = "CHECK_LINKS_FAILED"
	codeChapterUnknown = "CHAPTER_NOT_FOUND"
)

// ErrChapterNotFound reports a preview reference that matches no chapter.
var ErrChapterNotFound = errors.New("booksync: chapter not found")

func wrapStage(err error, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).WithTextCode(code)
}

func chapterNotFound(ref string) error {
	return goerrors.Wrap(ErrChapterNotFound, goerrors.CategoryNotFound,
		fmt.Sprintf("no chapter matches %q", ref)).
		WithTextCode(codeChapterUnknown).
		WithMetadata(map[string]any{"ref": ref})
}
