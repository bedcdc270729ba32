package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, SeverityCritical.Rank())
	assert.Equal(t, 1, SeverityHigh.Rank())
	assert.Equal(t, 2, SeverityMedium.Rank())
	assert.Equal(t, 3, SeverityLow.Rank())
	assert.Equal(t, 4, Severity("bogus").Rank())

	assert.True(t, SeverityHigh.Valid())
	assert.False(t, Severity("bogus").Valid())
}

func TestCategoryRank(t *testing.T) {
	assert.Equal(t, 0, CategoryRank(DomainAccessibility, CategorySemantics))
	assert.Equal(t, 2, CategoryRank(DomainAccessibility, CategoryImages))
	assert.Equal(t, 0, CategoryRank(DomainSEO, CategoryTitle))

	// Unknown categories sort after every declared one.
	assert.Equal(t, len(Categories(DomainSEO)), CategoryRank(DomainSEO, Category("bogus")))
}

func TestCategoriesAreClosedPerDomain(t *testing.T) {
	a11y := Categories(DomainAccessibility)
	seo := Categories(DomainSEO)
	assert.Len(t, a11y, 8)
	assert.Len(t, seo, 8)

	for _, cat := range a11y {
		assert.NotContains(t, seo, cat)
	}
}

func TestManualOnlyPolicy(t *testing.T) {
	assert.True(t, CategoryDynamic.ManualOnly())
	assert.True(t, CategoryGTM.ManualOnly())
	assert.False(t, CategoryImages.ManualOnly())
	assert.False(t, CategoryTitle.ManualOnly())
}

func TestIDPrefix(t *testing.T) {
	assert.Equal(t, "A11Y", DomainAccessibility.IDPrefix())
	assert.Equal(t, "SEO", DomainSEO.IDPrefix())
}

func TestFixReportAddAndCounts(t *testing.T) {
	var r FixReport
	r.Add(FixOutcome{FindingID: "A11Y-001", Disposition: DispositionFixed, Action: "did a thing"})
	r.Add(FixOutcome{FindingID: "A11Y-002", Disposition: DispositionSkipped, Reason: "already fixed"})
	r.Add(FixOutcome{FindingID: "A11Y-003", Disposition: DispositionManualReview})
	r.Add(FixOutcome{FindingID: "A11Y-004", Disposition: DispositionSkipped})

	fixed, skipped, manual := r.Counts()
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 1, manual)
}

func TestFingerprintStableAcrossRuns(t *testing.T) {
	f := Finding{Category: CategoryImages, File: "index.html", Problem: "image is missing an alt attribute"}
	first := ComputeFingerprint(f)
	require.NotEmpty(t, first)

	// Positional fields do not participate.
	f.ID = "A11Y-042"
	f.Line = 99
	f.Severity = SeverityLow
	assert.Equal(t, first, ComputeFingerprint(f))

	f.Problem = "something else"
	assert.NotEqual(t, first, ComputeFingerprint(f))
}
