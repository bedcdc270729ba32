package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markguard/markguard/internal/schema"
)

func TestSaveAndLoadAuditRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, ".markguard")

	rep := Build(root, "nextjs", schema.DomainAccessibility, sampleFindings())
	require.NoError(t, store.SaveAudit(rep))

	assert.FileExists(t, store.AuditJSONPath(schema.DomainAccessibility))
	assert.FileExists(t, store.AuditMarkdownPath(schema.DomainAccessibility))

	loaded, err := store.LoadAudit(schema.DomainAccessibility)
	require.NoError(t, err)
	assert.Equal(t, rep.SourceEcosystem, loaded.SourceEcosystem)
	assert.Equal(t, rep.Summary.Total, loaded.Summary.Total)
	require.Len(t, loaded.Issues, len(rep.Issues))
	assert.Equal(t, rep.Issues[0].ID, loaded.Issues[0].ID)
	assert.Equal(t, rep.Issues[0].Problem, loaded.Issues[0].Problem)
}

func TestLoadAuditMissingReportDirectsUserToAudit(t *testing.T) {
	store := NewStore(t.TempDir(), ".markguard")

	_, err := store.LoadAudit(schema.DomainSEO)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'markguard audit' first")
}

func TestLoadAuditToleratesExtraFields(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, ".markguard")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".markguard"), 0o755))

	// A report written by a future version with additional fields.
	payload := `{
		"generatedAt": "2026-01-02T03:04:05Z",
		"projectRoot": "/proj",
		"sourceEcosystem": "html",
		"domain": "seo",
		"futureField": {"nested": true},
		"summary": {"total": 1, "bySeverity": {}, "byCategory": {}, "autoFixable": 0},
		"issues": [{"id": "SEO-001", "domain": "seo", "category": "title", "severity": "critical",
			"file": "index.html", "line": 1, "problem": "page has no <title> element",
			"impact": "", "recommendedFix": "add one", "autoFixPossible": true, "extra": 42}]
	}`
	require.NoError(t, os.WriteFile(store.AuditJSONPath(schema.DomainSEO), []byte(payload), 0o644))

	rep, err := store.LoadAudit(schema.DomainSEO)
	require.NoError(t, err)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, "SEO-001", rep.Issues[0].ID)
}

func TestSaveAuditUnwritableDestinationFails(t *testing.T) {
	root := t.TempDir()
	// Occupy the report dir path with a file so MkdirAll fails.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".markguard"), []byte("in the way"), 0o644))

	store := NewStore(root, ".markguard")
	err := store.SaveAudit(Build(root, "html", schema.DomainSEO, nil))
	assert.Error(t, err)
}

func TestSaveFixWritesMarkdown(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, ".markguard")

	r := schema.FixReport{RunID: "run-1", Selector: "all"}
	r.Add(schema.FixOutcome{FindingID: "SEO-001", Disposition: schema.DispositionFixed, Action: "inserted title"})
	require.NoError(t, store.SaveFix(schema.DomainSEO, r))

	data, err := os.ReadFile(store.FixMarkdownPath(schema.DomainSEO))
	require.NoError(t, err)
	assert.Contains(t, string(data), "inserted title")
}
