package navindex

import (
	"github.com/goliatone/go-booksync/internal/markdown"
)

// FindingKind classifies a problem in an index that exists on disk.
type FindingKind string

const (
	FindingDuplicate    FindingKind = "duplicate"
	FindingOrder        FindingKind = "order"
	FindingUnknown      FindingKind = "unknown"
	FindingMissingEntry FindingKind = "missing_entry"
)

// Finding points at a chapter entry that breaks the index invariants:
// every chapter listed once, in ascending order, and nothing else.
type Finding struct {
	Kind   FindingKind
	Line   int
	Target string
}

// Inspect compares the chapter links of an index on disk with the
// document Build would produce.
func Inspect(expected Document, actual []byte) []Finding {
	position := make(map[string]int, len(expected.Targets))
	for i, target := range expected.Targets {
		position[target] = i
	}

	var findings []Finding
	seen := map[string]bool{}
	last := -1
	for _, link := range markdown.Links(actual) {
		target := link.Destination
		if seen[target] {
			findings = append(findings, Finding{Kind: FindingDuplicate, Line: link.Line, Target: target})
			continue
		}
		seen[target] = true

		pos, ok := position[target]
		if !ok {
			findings = append(findings, Finding{Kind: FindingUnknown, Line: link.Line, Target: target})
			continue
		}
		if pos < last {
			findings = append(findings, Finding{Kind: FindingOrder, Line: link.Line, Target: target})
		}
		last = max(last, pos)
	}

	for _, target := range expected.Targets {
		if !seen[target] {
			findings = append(findings, Finding{Kind: FindingMissingEntry, Target: target})
		}
	}
	return findings
}
