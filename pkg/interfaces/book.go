package interfaces

import "context"

// BookService keeps root chapter files, their mirrored copies under the
// site content directory, and the navigation indexes consistent.
type BookService interface {
	// Sync normalizes and renames root chapters, refreshes mirrored copies,
	// and regenerates the navigation indexes. A second run over an unchanged
	// tree writes nothing.
	Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error)
	// Check reports every way the tree deviates from what Sync would
	// produce without touching the filesystem.
	Check(ctx context.Context, opts CheckOptions) (*CheckReport, error)
}

// SyncOptions tunes a single sync run.
type SyncOptions struct {
	// DryRun computes the result without writing, renaming, or removing files.
	DryRun bool
	// Prune overrides the configured orphan-mirror pruning when non-nil.
	Prune *bool
}

// ChapterSummary describes one chapter after numbering is resolved.
type ChapterSummary struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Source string `json:"source"`
	Mirror string `json:"mirror"`
}

// RenamedFile records a root chapter rename.
type RenamedFile struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SyncResult captures everything a sync run touched. Paths are relative to
// the book root and slash separated.
type SyncResult struct {
	RunID      string           `json:"run_id"`
	DryRun     bool             `json:"dry_run"`
	Chapters   []ChapterSummary `json:"chapters"`
	Normalized []string         `json:"normalized,omitempty"`
	Renamed    []RenamedFile    `json:"renamed,omitempty"`
	Mirrored   []string         `json:"mirrored,omitempty"`
	Pruned     []string         `json:"pruned,omitempty"`
	Indexes    []string         `json:"indexes,omitempty"`
	Unchanged  []string         `json:"unchanged,omitempty"`
}

// Changed reports whether the run wrote, renamed, or removed anything.
func (r *SyncResult) Changed() bool {
	if r == nil {
		return false
	}
	return len(r.Normalized)+len(r.Renamed)+len(r.Mirrored)+len(r.Pruned)+len(r.Indexes) > 0
}

// CheckOptions tunes a check run.
type CheckOptions struct {
	// Links enables internal link and anchor verification.
	Links bool
}

// IssueKind classifies a check finding.
type IssueKind string

const (
	IssueHeadingMissing    IssueKind = "heading_missing"
	IssueTargetConflict    IssueKind = "target_conflict"
	IssueDuplicateNumber   IssueKind = "duplicate_number"
	IssueNumberGap         IssueKind = "number_gap"
	IssueNonCanonicalName  IssueKind = "non_canonical_name"
	IssueNormalization     IssueKind = "normalization_drift"
	IssueMirrorMissing     IssueKind = "mirror_missing"
	IssueMirrorStale       IssueKind = "mirror_stale"
	IssueMirrorOrphan      IssueKind = "mirror_orphan"
	IssueIndexMissing      IssueKind = "index_missing"
	IssueIndexDrift        IssueKind = "index_drift"
	IssueIndexDuplicate    IssueKind = "index_duplicate"
	IssueIndexOrder        IssueKind = "index_order"
	IssueBrokenLink        IssueKind = "broken_link"
	IssueChapterUnreadable IssueKind = "chapter_unreadable"
)

// Issue is a single check finding. Expected and Actual are populated for
// content drift so callers can render a diff.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Path     string    `json:"path"`
	Line     int       `json:"line,omitempty"`
	Message  string    `json:"message"`
	Expected string    `json:"-"`
	Actual   string    `json:"-"`
}

// CheckReport is the outcome of a check run.
type CheckReport struct {
	RunID    string  `json:"run_id"`
	Chapters int     `json:"chapters"`
	Issues   []Issue `json:"issues"`
}

// OK reports whether the tree satisfied every check.
func (r *CheckReport) OK() bool {
	return r != nil && len(r.Issues) == 0
}

// Add appends a finding.
func (r *CheckReport) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}
