package chapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fileNamePattern   = regexp.MustCompile(`^(\d+)\s*-\s*(.+)\.md$`)
	invalidTitleChars = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// ParseFileName splits a chapter file name such as "03 - Admin Extensions.md"
// into its number and title. Names outside the convention report false.
func ParseFileName(name string) (int, string, bool) {
	match := fileNamePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, "", false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, "", false
	}
	return number, strings.TrimSpace(match[2]), true
}

// SanitizeTitle drops characters that are invalid in file names on common
// platforms and collapses whitespace runs into single spaces.
func SanitizeTitle(title string) string {
	cleaned := invalidTitleChars.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// FileName returns the canonical chapter file name.
func FileName(number int, title string) string {
	return fmt.Sprintf("%02d - %s.md", number, SanitizeTitle(title))
}
