// Package report aggregates scanner output into the persisted audit report
// and renders the human-readable documents.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/markguard/markguard/internal/schema"
)

// Build merges one run's findings into a Report: stable sort by
// (category rank, severity rank), sequential ID assignment after sorting,
// then summary counts. IDs are positional; they are only meaningful
// relative to the report they were generated with.
func Build(projectRoot, ecosystem string, domain schema.Domain, findings []schema.Finding) schema.Report {
	issues := make([]schema.Finding, len(findings))
	copy(issues, findings)

	sort.SliceStable(issues, func(i, j int) bool {
		ci := schema.CategoryRank(domain, issues[i].Category)
		cj := schema.CategoryRank(domain, issues[j].Category)
		if ci != cj {
			return ci < cj
		}
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})

	prefix := domain.IDPrefix()
	for i := range issues {
		issues[i].ID = fmt.Sprintf("%s-%03d", prefix, i+1)
	}

	return schema.Report{
		GeneratedAt:     time.Now().UTC(),
		ProjectRoot:     projectRoot,
		SourceEcosystem: ecosystem,
		Domain:          domain,
		Summary:         summarize(domain, issues),
		Issues:          issues,
	}
}

// summarize zero-fills every declared severity and category so consumers
// can rely on the full key set being present.
func summarize(domain schema.Domain, issues []schema.Finding) schema.Summary {
	s := schema.Summary{
		Total:      len(issues),
		BySeverity: make(map[schema.Severity]int),
		ByCategory: make(map[schema.Category]int),
	}
	for _, sev := range schema.Severities() {
		s.BySeverity[sev] = 0
	}
	for _, cat := range schema.Categories(domain) {
		s.ByCategory[cat] = 0
	}
	for _, f := range issues {
		s.BySeverity[f.Severity]++
		s.ByCategory[f.Category]++
		if f.AutoFixPossible {
			s.AutoFixable++
		}
	}
	return s
}
