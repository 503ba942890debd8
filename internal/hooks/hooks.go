// Package hooks installs the git pre-commit hook that keeps generated book
// files in step with the chapters.
package hooks

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Marker identifies hooks written by booksync.
const Marker = "# managed by booksync"

// ErrHookExists reports a pre-commit hook that booksync did not write.
var ErrHookExists = errors.New("hooks: pre-commit hook already exists")

// ErrNotRepository reports a root with no .git entry.
var ErrNotRepository = errors.New("hooks: not a git repository")

// Options describe the hook script.
type Options struct {
	// Command runs the sync, e.g. "booksync sync".
	Command string
	// Stage lists paths to git add after a successful sync.
	Stage []string
	Force bool
}

// Script renders the hook.
func Script(opts Options) []byte {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = "booksync sync"
	}

	var buf bytes.Buffer
	buf.WriteString("#!/bin/sh\n")
	buf.WriteString(Marker + "\n")
	buf.WriteString("set -e\n\n")
	buf.WriteString(command + "\n")
	if len(opts.Stage) > 0 {
		quoted := make([]string, 0, len(opts.Stage))
		for _, path := range opts.Stage {
			quoted = append(quoted, shellQuote(path))
		}
		buf.WriteString("git add -A -- " + strings.Join(quoted, " ") + "\n")
	}
	return buf.Bytes()
}

// InstallPreCommit writes the hook for the repository at root and returns
// its path. A hook without the booksync marker is only replaced with Force.
func InstallPreCommit(root string, opts Options) (string, error) {
	hooksDir, err := HooksDir(root)
	if err != nil {
		return "", err
	}

	path := filepath.Join(hooksDir, "pre-commit")
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !bytes.Contains(current, []byte(Marker)) && !opts.Force {
			return path, goerrors.Wrap(ErrHookExists, goerrors.CategoryConflict,
				fmt.Sprintf("%s was not written by booksync; use --force to replace it", path)).
				WithTextCode("HOOK_EXISTS")
		}
	case !errors.Is(err, fs.ErrNotExist):
		return path, fmt.Errorf("hooks: read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("hooks: create hooks dir: %w", err)
	}
	if err := os.WriteFile(path, Script(opts), 0o755); err != nil {
		return path, fmt.Errorf("hooks: write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return path, fmt.Errorf("hooks: chmod %s: %w", path, err)
	}
	return path, nil
}

// GitDir resolves the git directory for root. Worktrees and submodules use
// a .git file holding "gitdir: <path>".
func GitDir(root string) (string, error) {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if errors.Is(err, fs.ErrNotExist) {
		return "", goerrors.Wrap(ErrNotRepository, goerrors.CategoryNotFound,
			fmt.Sprintf("%s has no .git", root)).
			WithTextCode("HOOK_NOT_REPOSITORY")
	}
	if err != nil {
		return "", fmt.Errorf("hooks: stat %s: %w", dotGit, err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("hooks: read %s: %w", dotGit, err)
	}
	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("hooks: %s: unrecognised .git file", dotGit)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return filepath.Clean(target), nil
}

// HooksDir returns the directory git runs hooks from for the checkout at
// root. Linked worktrees share the hooks of the main repository through
// their commondir file, and core.hooksPath overrides both.
func HooksDir(root string) (string, error) {
	gitDir, err := GitDir(root)
	if err != nil {
		return "", err
	}
	common, err := CommonDir(gitDir)
	if err != nil {
		return "", err
	}

	hooksPath, err := configuredHooksPath(filepath.Join(common, "config"))
	if err != nil {
		return "", err
	}
	if hooksPath == "" {
		return filepath.Join(common, "hooks"), nil
	}
	if strings.HasPrefix(hooksPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("hooks: expand %s: %w", hooksPath, err)
		}
		hooksPath = filepath.Join(home, hooksPath[2:])
	}
	if !filepath.IsAbs(hooksPath) {
		hooksPath = filepath.Join(root, hooksPath)
	}
	return filepath.Clean(hooksPath), nil
}

// CommonDir resolves the repository directory shared by all worktrees.
// Without a commondir file gitDir is the common dir.
func CommonDir(gitDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if errors.Is(err, fs.ErrNotExist) {
		return gitDir, nil
	}
	if err != nil {
		return "", fmt.Errorf("hooks: read commondir: %w", err)
	}
	common := strings.TrimSpace(string(data))
	if common == "" {
		return gitDir, nil
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common), nil
}

// configuredHooksPath reads core.hooksPath from a git config file. Includes
// and conditional sections are not followed.
func configuredHooksPath(configFile string) (string, error) {
	data, err := os.ReadFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("hooks: read %s: %w", configFile, err)
	}

	var section, value string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if strings.HasPrefix(line, "[") {
			section = strings.ToLower(strings.TrimSpace(strings.Trim(line, "[]")))
			continue
		}
		if section != "core" {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "hooksPath") {
			continue
		}
		value = strings.Trim(strings.TrimSpace(val), `"`)
	}
	return value, nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
