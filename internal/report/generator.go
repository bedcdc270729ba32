package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/markguard/markguard/internal/schema"
)

// RenderMarkdown renders the human-readable audit report. Every declared
// category appears, including empty ones, so readers see the full audit
// surface rather than guessing what was checked.
func RenderMarkdown(r schema.Report) string {
	var sb strings.Builder

	title := "Accessibility Audit Report"
	if r.Domain == schema.DomainSEO {
		title = "SEO Audit Report"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Project: %s\n", r.ProjectRoot)
	fmt.Fprintf(&sb, "- Ecosystem: %s\n", r.SourceEcosystem)
	fmt.Fprintf(&sb, "- Total issues: %d (%d auto-fixable)\n\n", r.Summary.Total, r.Summary.AutoFixable)

	sb.WriteString("## Summary by Severity\n\n")
	sb.WriteString("| Severity | Count |\n|---|---|\n")
	for _, sev := range schema.Severities() {
		fmt.Fprintf(&sb, "| %s | %d |\n", sev, r.Summary.BySeverity[sev])
	}
	sb.WriteString("\n## Summary by Category\n\n")
	sb.WriteString("| Category | Count |\n|---|---|\n")
	for _, cat := range schema.Categories(r.Domain) {
		fmt.Fprintf(&sb, "| %s | %d |\n", cat, r.Summary.ByCategory[cat])
	}
	sb.WriteString("\n")

	byCategory := make(map[schema.Category][]schema.Finding)
	for _, f := range r.Issues {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	for _, cat := range schema.Categories(r.Domain) {
		fmt.Fprintf(&sb, "## %s\n\n", cat)
		issues := byCategory[cat]
		if len(issues) == 0 {
			sb.WriteString("No issues found.\n\n")
			continue
		}
		for _, f := range issues {
			fmt.Fprintf(&sb, "### %s [%s] %s:%d\n\n", f.ID, strings.ToUpper(string(f.Severity)), f.File, f.Line)
			fmt.Fprintf(&sb, "- Problem: %s\n", f.Problem)
			fmt.Fprintf(&sb, "- Impact: %s\n", f.Impact)
			fmt.Fprintf(&sb, "- Recommended fix: %s\n", f.RecommendedFix)
			fmt.Fprintf(&sb, "- Auto-fixable: %t\n", f.AutoFixPossible)
			if f.ComplianceTag != "" {
				fmt.Fprintf(&sb, "- Compliance: %s\n", f.ComplianceTag)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderFixMarkdown renders the human-readable fix report.
func RenderFixMarkdown(r schema.FixReport) string {
	var sb strings.Builder

	fixed, skipped, manual := r.Counts()
	fmt.Fprintf(&sb, "# Fix Report\n\n")
	fmt.Fprintf(&sb, "- Run: %s\n", r.RunID)
	fmt.Fprintf(&sb, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Selector: %s\n", r.Selector)
	fmt.Fprintf(&sb, "- Fixed: %d, Skipped: %d, Manual review: %d\n\n", fixed, skipped, manual)

	writeBucket := func(heading string, outcomes []schema.FixOutcome, detail func(o schema.FixOutcome) string) {
		fmt.Fprintf(&sb, "## %s (%d)\n\n", heading, len(outcomes))
		if len(outcomes) == 0 {
			sb.WriteString("None.\n\n")
			return
		}
		sorted := make([]schema.FixOutcome, len(outcomes))
		copy(sorted, outcomes)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FindingID < sorted[j].FindingID })
		for _, o := range sorted {
			fmt.Fprintf(&sb, "- **%s** %s:%d: %s\n", o.FindingID, o.File, o.Line, detail(o))
		}
		sb.WriteString("\n")
	}

	writeBucket("Fixed", r.Fixed, func(o schema.FixOutcome) string { return o.Action })
	writeBucket("Skipped", r.Skipped, func(o schema.FixOutcome) string { return o.Reason })
	writeBucket("Manual Review", r.Manual, func(o schema.FixOutcome) string { return o.RecommendedFix })

	return sb.String()
}
