package mirror

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-booksync/internal/markdown"
)

// Naming selects how mirrored copies are named inside the docs directory.
type Naming string

const (
	// NamingNumber names copies chapter-NN.md.
	NamingNumber Naming = "number"
	// NamingSlug names copies NN-<slugified heading>.md.
	NamingSlug Naming = "slug"
)

// Valid reports whether n is a known naming mode. Empty counts as number.
func (n Naming) Valid() bool {
	switch n {
	case "", NamingNumber, NamingSlug:
		return true
	default:
		return false
	}
}

var numberNamePattern = regexp.MustCompile(`^chapter-\d{2,}\.md$`)

// Name returns the mirrored file name for a chapter.
func Name(number int, title string, naming Naming) string {
	if naming == NamingSlug {
		if s := slugify(title); s != "" {
			return fmt.Sprintf("%02d-%s.md", number, s)
		}
	}
	return fmt.Sprintf("chapter-%02d.md", number)
}

// LinkTarget strips the extension, which is how Hugo serves a content page.
func LinkTarget(name string) string {
	return strings.TrimSuffix(name, ".md")
}

// Reserved reports whether name can only be a mirror in naming mode n.
// Slug names look like pages authors write by hand (2024-release-notes.md),
// so no slug name is reserved.
func (n Naming) Reserved(name string) bool {
	switch n {
	case "", NamingNumber:
		return numberNamePattern.MatchString(name)
	default:
		return false
	}
}

// Indexed returns the mirror names linked from a docs index, which is the
// record of what the previous sync wrote. Only sibling links count.
func Indexed(index []byte) []string {
	var out []string
	seen := map[string]bool{}
	for _, link := range markdown.Links(index) {
		if link.Image || link.Auto {
			continue
		}
		target := strings.TrimPrefix(link.Destination, "./")
		if target == "" || strings.ContainsAny(target, "/#?:") || strings.HasSuffix(target, ".md") {
			continue
		}
		name := target + ".md"
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func slugify(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil {
		return ""
	}
	return strings.Trim(normalized, "-")
}
