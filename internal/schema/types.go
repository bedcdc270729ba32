package schema

import "time"

// Severity ranks how badly a finding hurts the audited site.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityOrder is the fixed total order used for report sorting.
var severityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the sort position of s. Unknown severities sort last.
func (s Severity) Rank() int {
	for i, v := range severityOrder {
		if v == s {
			return i
		}
	}
	return len(severityOrder)
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s.Rank() < len(severityOrder)
}

// Severities returns the declared severities in rank order.
func Severities() []Severity {
	out := make([]Severity, len(severityOrder))
	copy(out, severityOrder)
	return out
}

// Domain identifies which audit produced a finding.
type Domain string

const (
	DomainAccessibility Domain = "accessibility"
	DomainSEO           Domain = "seo"
)

// IDPrefix returns the identifier prefix assigned to findings of the domain.
func (d Domain) IDPrefix() string {
	if d == DomainSEO {
		return "SEO"
	}
	return "A11Y"
}

// Category is a closed per-domain classification of findings.
type Category string

// Accessibility categories.
const (
	CategorySemantics       Category = "semantics"
	CategoryAccessibleNames Category = "accessible-names"
	CategoryImages          Category = "images"
	CategoryForms           Category = "forms"
	CategoryARIA            Category = "aria"
	CategoryKeyboard        Category = "keyboard"
	CategoryPatterns        Category = "patterns"
	CategoryDynamic         Category = "dynamic"
)

// SEO categories.
const (
	CategoryTitle           Category = "title"
	CategoryMetaDescription Category = "meta-description"
	CategoryHeadings        Category = "headings"
	CategorySemanticHTML    Category = "semantic-html"
	CategoryURLStructure    Category = "url-structure"
	CategorySEOImages       Category = "seo-images"
	CategoryInternalLinks   Category = "internal-links"
	CategoryGTM             Category = "gtm"
)

var categoryOrder = map[Domain][]Category{
	DomainAccessibility: {
		CategorySemantics,
		CategoryAccessibleNames,
		CategoryImages,
		CategoryForms,
		CategoryARIA,
		CategoryKeyboard,
		CategoryPatterns,
		CategoryDynamic,
	},
	DomainSEO: {
		CategoryTitle,
		CategoryMetaDescription,
		CategoryHeadings,
		CategorySemanticHTML,
		CategoryURLStructure,
		CategorySEOImages,
		CategoryInternalLinks,
		CategoryGTM,
	},
}

// Categories returns the declared categories of a domain in rank order.
// Consumers may rely on every one of these appearing in a report, even
// with a zero count.
func Categories(d Domain) []Category {
	cats := categoryOrder[d]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// CategoryRank returns the sort position of c within domain d.
// Unknown categories sort last.
func CategoryRank(d Domain, c Category) int {
	for i, v := range categoryOrder[d] {
		if v == c {
			return i
		}
	}
	return len(categoryOrder[d])
}

// ManualOnly reports whether a category is permanently excluded from
// automated remediation. This is policy, not a per-finding heuristic:
// remediation in these categories requires judgment about live behavior.
func (c Category) ManualOnly() bool {
	return c == CategoryDynamic || c == CategoryGTM
}

// Finding is one detected defect instance. Created by exactly one scanner
// pass and immutable afterwards.
type Finding struct {
	ID              string   `json:"id,omitempty"`
	Domain          Domain   `json:"domain"`
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	File            string   `json:"file"`
	Line            int      `json:"line"`
	Problem         string   `json:"problem"`
	Impact          string   `json:"impact"`
	RecommendedFix  string   `json:"recommendedFix"`
	AutoFixPossible bool     `json:"autoFixPossible"`
	ComplianceTag   string   `json:"complianceTag,omitempty"`
	Fingerprint     string   `json:"fingerprint,omitempty"`
}

// Summary aggregates finding counts for one report.
type Summary struct {
	Total       int              `json:"total"`
	BySeverity  map[Severity]int `json:"bySeverity"`
	ByCategory  map[Category]int `json:"byCategory"`
	AutoFixable int              `json:"autoFixable"`
}

// Report is one audit run's complete output. It is the sole state shared
// between the audit phase and the fix phase; assigned IDs are positional
// and only meaningful relative to this report.
type Report struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	ProjectRoot     string    `json:"projectRoot"`
	SourceEcosystem string    `json:"sourceEcosystem"`
	Domain          Domain    `json:"domain"`
	Summary         Summary   `json:"summary"`
	Issues          []Finding `json:"issues"`
}

// Disposition classifies the result of one fix attempt.
type Disposition string

const (
	DispositionFixed        Disposition = "fixed"
	DispositionSkipped      Disposition = "skipped"
	DispositionManualReview Disposition = "manualReview"
)

// FixOutcome records what happened to one finding during a fix run.
type FixOutcome struct {
	FindingID   string      `json:"findingId"`
	File        string      `json:"file"`
	Line        int         `json:"line"`
	Disposition Disposition `json:"disposition"`
	// Action describes exactly what changed; set when fixed.
	Action string `json:"action,omitempty"`
	// Reason explains a skip; set when skipped.
	Reason string `json:"reason,omitempty"`
	// RecommendedFix carries the human guidance for manual review items.
	RecommendedFix string `json:"recommendedFix,omitempty"`
}

// FixReport aggregates one fix run.
type FixReport struct {
	RunID       string       `json:"runId"`
	GeneratedAt time.Time    `json:"generatedAt"`
	ProjectRoot string       `json:"projectRoot"`
	Selector    string       `json:"selector"`
	DryRun      bool         `json:"dryRun"`
	Fixed       []FixOutcome `json:"fixed"`
	Skipped     []FixOutcome `json:"skipped"`
	Manual      []FixOutcome `json:"manualReview"`
}

// Counts returns the fixed/skipped/manual-review totals.
func (r FixReport) Counts() (fixed, skipped, manual int) {
	return len(r.Fixed), len(r.Skipped), len(r.Manual)
}

// Add routes an outcome into its disposition bucket.
func (r *FixReport) Add(o FixOutcome) {
	switch o.Disposition {
	case DispositionFixed:
		r.Fixed = append(r.Fixed, o)
	case DispositionManualReview:
		r.Manual = append(r.Manual, o)
	default:
		r.Skipped = append(r.Skipped, o)
	}
}
