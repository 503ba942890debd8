// Package report prints sync results and check reports for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-booksync/pkg/interfaces"
)

// Printer writes human readable output. Colors are dropped when NoColor is
// set; fatih/color also drops them for non-terminal writers.
type Printer struct {
	w       io.Writer
	noColor bool

	title  *color.Color
	ok     *color.Color
	warn   *color.Color
	bad    *color.Color
	subtle *color.Color
	add    *color.Color
	remove *color.Color
	hunk   *color.Color
}

// New builds a Printer.
func New(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		noColor: noColor,
		title:   color.New(color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
		subtle:  color.New(color.FgHiBlack),
		add:     color.New(color.FgGreen),
		remove:  color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.ok, p.warn, p.bad, p.subtle, p.add, p.remove, p.hunk} {
			c.DisableColor()
		}
	}
	return p
}

// Sync prints what a sync run did, or would do on a dry run.
func (p *Printer) Sync(result *interfaces.SyncResult) {
	if result == nil {
		return
	}
	verb := func(done, planned string) string {
		if result.DryRun {
			return planned
		}
		return done
	}

	for _, r := range result.Renamed {
		p.line(p.warn, verb("renamed", "would rename"), fmt.Sprintf("%s -> %s", r.From, r.To))
	}
	for _, name := range result.Normalized {
		p.line(p.warn, verb("normalized", "would normalize"), name)
	}
	for _, name := range result.Mirrored {
		p.line(p.ok, verb("mirrored", "would mirror"), name)
	}
	for _, name := range result.Pruned {
		p.line(p.remove, verb("pruned", "would prune"), name)
	}
	for _, name := range result.Indexes {
		p.line(p.ok, verb("wrote", "would write"), name)
	}

	summary := fmt.Sprintf("%d chapter(s)", len(result.Chapters))
	if !result.Changed() {
		p.ok.Fprintf(p.w, "%s, already in sync\n", summary)
		return
	}
	if result.DryRun {
		p.warn.Fprintf(p.w, "%s, dry run: nothing written\n", summary)
		return
	}
	p.ok.Fprintf(p.w, "%s synced\n", summary)
}

// Check prints every issue. With diff, content drift is shown line by line.
func (p *Printer) Check(report *interfaces.CheckReport, diff bool) {
	if report == nil {
		return
	}
	for _, issue := range report.Issues {
		location := issue.Path
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
		}
		if location == "" {
			location = "-"
		}
		p.bad.Fprintf(p.w, "%-20s", string(issue.Kind))
		fmt.Fprintf(p.w, " %s", location)
		if issue.Message != "" {
			p.subtle.Fprintf(p.w, "  %s", issue.Message)
		}
		fmt.Fprintln(p.w)
		if diff && (issue.Expected != "" || issue.Actual != "") {
			p.Diff(issue.Path, issue.Actual, issue.Expected)
		}
	}

	if report.OK() {
		p.ok.Fprintf(p.w, "%d chapter(s), no issues\n", report.Chapters)
		return
	}
	p.bad.Fprintf(p.w, "%d chapter(s), %d issue(s)\n", report.Chapters, len(report.Issues))
}

// Chapters lists chapters with their mirrored names.
func (p *Printer) Chapters(list []interfaces.ChapterSummary) {
	for _, ch := range list {
		p.title.Fprintf(p.w, "%02d", ch.Number)
		fmt.Fprintf(p.w, "  %s", ch.Title)
		p.subtle.Fprintf(p.w, "  %s -> %s\n", ch.Source, ch.Mirror)
	}
}

// Diff prints a line oriented diff from actual to expected.
func (p *Printer) Diff(name, actual, expected string) {
	p.remove.Fprintf(p.w, "--- a/%s\n", name)
	p.add.Fprintf(p.w, "+++ b/%s\n", name)

	before := splitLines(actual)
	after := splitLines(expected)
	for i := 0; i < max(len(before), len(after)); i++ {
		var a, b string
		hasA, hasB := i < len(before), i < len(after)
		if hasA {
			a = before[i]
		}
		if hasB {
			b = after[i]
		}
		if hasA && hasB && a == b {
			continue
		}
		p.hunk.Fprintf(p.w, "@@ line %d @@\n", i+1)
		if hasA {
			p.remove.Fprintf(p.w, "-%s\n", a)
		}
		if hasB {
			p.add.Fprintf(p.w, "+%s\n", b)
		}
	}
}

// Error prints a failure line.
func (p *Printer) Error(err error) {
	if err == nil {
		return
	}
	p.bad.Fprint(p.w, "error: ")
	fmt.Fprintln(p.w, err)
}

func (p *Printer) line(c *color.Color, label, text string) {
	c.Fprintf(p.w, "%-16s", label)
	fmt.Fprintf(p.w, " %s\n", text)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
