// Package rules implements the pattern-rule scanner that turns file
// contents into findings. It is deliberately not a parser: rules are
// line-oriented regular expressions over raw text, and the imprecision
// that brings is an accepted property of the design.
package rules

import (
	"regexp"

	"github.com/markguard/markguard/internal/schema"
)

// Refinement lets a rule adjust its finding from the matched text, e.g.
// the decorative-image heuristic picking different wording and severity.
type Refinement struct {
	Problem        string
	RecommendedFix string
	Severity       schema.Severity
}

// Rule is one pluggable defect pattern. The engine treats the pattern
// strings as data; swapping a rule set never changes engine behavior.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Category schema.Category
	Severity schema.Severity

	Problem        string
	Impact         string
	RecommendedFix string

	AutoFix       bool
	ComplianceTag string

	// Absent inverts the rule: it fires once, at line 1, when the pattern
	// does not occur anywhere in the file (e.g. a page with no <title>).
	Absent bool

	// AppliesTo gates the rule on the file as a whole. Absence rules use
	// it to only fire on complete documents.
	AppliesTo func(content string) bool

	// Skip suppresses a match that already appears remediated by a
	// competing attribute. Precision over recall: when in doubt, no
	// finding. loc is the match's [start, end) offset pair.
	Skip func(content string, loc []int) bool

	// Refine adjusts problem text, fix text, or severity from the matched
	// text. The result is advisory; downstream must tolerate it being
	// wrong. Nil fields in the returned Refinement keep the defaults.
	Refine func(match string) Refinement
}

// finding builds the Finding for one match of r in file.
func (r Rule) finding(domain schema.Domain, file string, line int, match string) schema.Finding {
	problem := r.Problem
	fix := r.RecommendedFix
	sev := r.Severity
	if r.Refine != nil {
		ref := r.Refine(match)
		if ref.Problem != "" {
			problem = ref.Problem
		}
		if ref.RecommendedFix != "" {
			fix = ref.RecommendedFix
		}
		if ref.Severity != "" {
			sev = ref.Severity
		}
	}

	f := schema.Finding{
		Domain:          domain,
		Category:        r.Category,
		Severity:        sev,
		File:            file,
		Line:            line,
		Problem:         problem,
		Impact:          r.Impact,
		RecommendedFix:  fix,
		AutoFixPossible: r.AutoFix,
		ComplianceTag:   r.ComplianceTag,
	}
	f.Fingerprint = schema.ComputeFingerprint(f)
	return f
}
