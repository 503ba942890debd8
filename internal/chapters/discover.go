package chapters

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config selects which root files are chapter candidates.
type Config struct {
	// Pattern is matched against the book root, defaults to "*.md". Chapters
	// live at the root, so matches inside sub directories are ignored.
	Pattern string
	// Exclude lists doublestar patterns for file names that are never chapters.
	Exclude []string
}

func (c Config) pattern() string {
	if strings.TrimSpace(c.Pattern) == "" {
		return "*.md"
	}
	return c.Pattern
}

// File is a root file that follows the chapter naming convention.
type File struct {
	Name   string
	Number int
	Title  string
}

// Discover lists chapter files ordered by their numeric prefix. Files sharing
// a number keep name order.
func Discover(ctx context.Context, fsys fs.FS, cfg Config) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(fsys, cfg.pattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("chapters: glob %q: %w", cfg.pattern(), err)
	}

	files := make([]File, 0, len(matches))
	for _, name := range matches {
		if strings.Contains(name, "/") {
			continue
		}
		excluded, err := isExcluded(name, cfg.Exclude)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		number, title, ok := ParseFileName(name)
		if !ok {
			continue
		}
		files = append(files, File{Name: name, Number: number, Title: title})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Number != files[j].Number {
			return files[i].Number < files[j].Number
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func isExcluded(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("chapters: exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// DuplicateNumbers returns numeric prefixes used by more than one file.
func DuplicateNumbers(files []File) []int {
	seen := map[int]int{}
	for _, f := range files {
		seen[f.Number]++
	}
	var out []int
	for number, count := range seen {
		if count > 1 {
			out = append(out, number)
		}
	}
	sort.Ints(out)
	return out
}

// MissingNumbers returns the numbers absent from the 1..max sequence.
func MissingNumbers(files []File) []int {
	present := map[int]bool{}
	highest := 0
	for _, f := range files {
		present[f.Number] = true
		if f.Number > highest {
			highest = f.Number
		}
	}
	var out []int
	for n := 1; n <= highest; n++ {
		if !present[n] {
			out = append(out, n)
		}
	}
	return out
}
