// Package ingest accepts structured findings produced by an external
// runtime audit tool and maps them onto the engine's schema. The engine
// never drives a browser itself; it only consumes whatever such a tool
// emits.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/markguard/markguard/internal/logging"
	"github.com/markguard/markguard/internal/schema"
)

// Load reads an external tool's JSON export and normalizes each record
// into a Finding for the given domain. The export is an array of objects;
// unknown fields are ignored and malformed records are skipped with a
// warning, so one bad record never loses the rest.
func Load(path string, domain schema.Domain) ([]schema.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read external findings: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse external findings: %w", err)
	}

	var findings []schema.Finding
	for i, r := range raw {
		f, err := normalize(r, domain)
		if err != nil {
			logging.Logger.Warnw("skipping malformed external record", "index", i, "error", err)
			continue
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// Merge folds external findings into a prior report's issues,
// de-duplicating by fingerprint so re-ingesting the same export leaves the
// set unchanged. Prior IDs are cleared: IDs are positional and reassigned
// when the report is rebuilt.
func Merge(prior, external []schema.Finding) []schema.Finding {
	seen := make(map[string]bool)
	var merged []schema.Finding
	for _, f := range prior {
		f.ID = ""
		seen[f.Fingerprint] = true
		merged = append(merged, f)
	}
	for _, f := range external {
		if f.Fingerprint != "" && seen[f.Fingerprint] {
			continue
		}
		seen[f.Fingerprint] = true
		merged = append(merged, f)
	}
	return merged
}

// normalize maps one loosely-typed record onto a Finding. External tools
// vary in field naming; only category, file, and problem are required.
func normalize(r map[string]any, domain schema.Domain) (schema.Finding, error) {
	f := schema.Finding{
		Domain: domain,
		Line:   1,
	}

	if cat, ok := stringField(r, "category"); ok {
		f.Category = schema.Category(cat)
	} else {
		return f, fmt.Errorf("missing category")
	}
	if schema.CategoryRank(domain, f.Category) >= len(schema.Categories(domain)) {
		return f, fmt.Errorf("unknown category %q for domain %s", f.Category, domain)
	}

	if file, ok := stringField(r, "file"); ok {
		f.File = file
	} else {
		return f, fmt.Errorf("missing file")
	}
	if problem, ok := stringField(r, "problem"); ok {
		f.Problem = problem
	} else if desc, ok := stringField(r, "description"); ok {
		f.Problem = desc
	} else {
		return f, fmt.Errorf("missing problem")
	}

	if sev, ok := stringField(r, "severity"); ok && schema.Severity(sev).Valid() {
		f.Severity = schema.Severity(sev)
	} else {
		f.Severity = schema.SeverityMedium
	}
	if line, ok := r["line"].(float64); ok && line >= 1 {
		f.Line = int(line)
	}
	if impact, ok := stringField(r, "impact"); ok {
		f.Impact = impact
	}
	if fix, ok := stringField(r, "recommendedFix"); ok {
		f.RecommendedFix = fix
	} else {
		f.RecommendedFix = "Review the reported defect and remediate manually."
	}
	if tag, ok := stringField(r, "complianceTag"); ok {
		f.ComplianceTag = tag
	}
	// Externally sourced findings are never auto-fixed: the engine cannot
	// re-derive a pattern it did not match itself.
	f.AutoFixPossible = false

	f.Fingerprint = schema.ComputeFingerprint(f)
	return f, nil
}

func stringField(r map[string]any, key string) (string, bool) {
	v, ok := r[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
