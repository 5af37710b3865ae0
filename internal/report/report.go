// Package report renders the final Markdown portfolio report. One rule
// governs everything here: no statement appears without a direct email
// quote behind it, and the header states plainly whether enrichment ran.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// Input is everything the renderer needs from a pipeline run.
type Input struct {
	Store             *flags.Store
	Projects          mail.ProjectThreads
	Roster            mail.Roster
	EnrichmentEnabled bool

	// Now allows tests to pin the generation timestamp.
	Now time.Time
}

// Render builds the full Markdown report.
func Render(in Input) string {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder

	b.WriteString("# Portfolio Health Report\n")
	fmt.Fprintf(&b, "*Generated: %s*\n", now.Format("2006-01-02 15:04"))
	if in.EnrichmentEnabled {
		b.WriteString("*AI enrichment: enabled*\n")
	} else {
		b.WriteString("*AI enrichment: disabled (no API key)*\n")
	}
	b.WriteString("\n---\n\n")

	writeSummary(&b, in.Store)

	for _, project := range in.Store.Projects() {
		writeProject(&b, project, in.Store.ByProject(project), len(in.Projects[project]), in.Roster)
	}

	return b.String()
}

// writeSummary renders the executive summary table.
func writeSummary(b *strings.Builder, store *flags.Store) {
	b.WriteString("## Executive Summary\n\n")
	b.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(b, "| Open Flags | %d |\n", store.CountByStatus(flags.Open))
	fmt.Fprintf(b, "| Resolved Flags | %d |\n", store.CountByStatus(flags.Resolved))
	fmt.Fprintf(b, "| False Positives (filtered) | %d |\n", store.CountByStatus(flags.FalsePositive))
	fmt.Fprintf(b, "| Projects Analysed | %d |\n", len(store.Projects()))
	b.WriteString("\n---\n\n")
}

// writeProject renders one project's section: counts, open flags,
// resolved flags, and suggested next steps.
func writeProject(b *strings.Builder, project string, list []*flags.Flag, emailCount int, roster mail.Roster) {
	var open, resolved []*flags.Flag
	for _, f := range list {
		switch f.Status {
		case flags.Open:
			open = append(open, f)
		case flags.Resolved:
			resolved = append(resolved, f)
		}
	}

	fmt.Fprintf(b, "## %s\n\n", project)
	fmt.Fprintf(b, "*Emails analysed: %d*\n\n", emailCount)

	b.WriteString("| Status | Action Items | Risks |\n|---|---|---|\n")
	fmt.Fprintf(b, "| Open | %d | %d |\n", countType(open, flags.ActionItem), countType(open, flags.Risk))
	fmt.Fprintf(b, "| Resolved | %d | %d |\n\n", countType(resolved, flags.ActionItem), countType(resolved, flags.Risk))

	if len(open) > 0 {
		b.WriteString("### Requires Attention\n\n")
		for _, f := range open {
			writeFlag(b, f, false, roster)
			b.WriteString("\n")
		}
	}

	if len(resolved) > 0 {
		b.WriteString("### Recently Resolved\n\n")
		for _, f := range resolved {
			writeFlag(b, f, true, roster)
			b.WriteString("\n")
		}
	}

	writeNextSteps(b, open)
	b.WriteString("---\n\n")
}

// writeFlag renders a single flag with its evidence quote. A roster entry
// matching the owner address adds the colleague's name and role.
func writeFlag(b *strings.Builder, f *flags.Flag, showResolution bool, roster mail.Roster) {
	fmt.Fprintf(b, "**[%s]** `%s`\n", f.Type, f.SourceFile)

	if f.Owner != "" {
		if c, ok := roster[strings.ToLower(f.Owner)]; ok {
			fmt.Fprintf(b, "  - Owner: %s (%s, %s)\n", f.Owner, c.Name, c.Role)
		} else {
			fmt.Fprintf(b, "  - Owner: %s\n", f.Owner)
		}
	}
	if f.Priority != "" {
		fmt.Fprintf(b, "  - Priority: %s\n", f.Priority)
	}
	if f.Summary != "" {
		fmt.Fprintf(b, "  - Summary: %s\n", f.Summary)
	}

	fmt.Fprintf(b, "  - Evidence: *%q*\n", f.TriggerSnippet)

	if showResolution && f.Resolution != nil {
		fmt.Fprintf(b, "  - Resolution: *%q* (`%s`)\n", f.Resolution.Snippet, f.Resolution.SourceFile)
	}
}

// writeNextSteps renders one suggestion per (file, type) pair with open
// flags.
func writeNextSteps(b *strings.Builder, open []*flags.Flag) {
	if len(open) == 0 {
		return
	}
	b.WriteString("### Suggested Next Steps\n\n")

	seen := make(map[string]bool)
	for _, f := range open {
		key := f.SourceFile + "|" + string(f.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		if f.Type == flags.ActionItem {
			fmt.Fprintf(b, "- Follow up on unanswered action item in `%s`.\n", f.SourceFile)
		} else {
			fmt.Fprintf(b, "- Investigate risk in `%s`: assign an owner and a resolution path.\n", f.SourceFile)
		}
	}
	b.WriteString("\n")
}

// countType counts flags of one type in a list.
func countType(list []*flags.Flag, t flags.Type) int {
	n := 0
	for _, f := range list {
		if f.Type == t {
			n++
		}
	}
	return n
}
