package fix

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markguard/markguard/internal/report"
	"github.com/markguard/markguard/internal/rules"
	"github.com/markguard/markguard/internal/schema"
)

// auditProject writes source files, runs the accessibility audit, and
// persists the report, returning the store and the report.
func auditProject(t *testing.T, root string, files map[string]string) (*report.Store, schema.Report) {
	t.Helper()
	var names []string
	for rel, content := range files {
		writeProjectFile(t, root, rel, content)
		names = append(names, rel)
	}

	scanner := rules.NewScanner(schema.DomainAccessibility, rules.AccessibilityRules())
	findings := scanner.ScanFiles(root, names)
	rep := report.Build(root, "html", schema.DomainAccessibility, findings)

	store := report.NewStore(root, ".markguard")
	require.NoError(t, store.SaveAudit(rep))
	return store, rep
}

// auditProjectSEO is auditProject for the SEO domain.
func auditProjectSEO(t *testing.T, root string, files map[string]string) (*report.Store, schema.Report) {
	t.Helper()
	var names []string
	for rel, content := range files {
		writeProjectFile(t, root, rel, content)
		names = append(names, rel)
	}

	scanner := rules.NewScanner(schema.DomainSEO, rules.SEORules())
	findings := scanner.ScanFiles(root, names)
	rep := report.Build(root, "html", schema.DomainSEO, findings)

	store := report.NewStore(root, ".markguard")
	require.NoError(t, store.SaveAudit(rep))
	return store, rep
}

func newTestOrchestrator(root string, store *report.Store) *Orchestrator {
	return NewOrchestrator(root, store, 2*time.Second)
}

func TestRunMissingReportIsFatal(t *testing.T) {
	root := t.TempDir()
	store := report.NewStore(root, ".markguard")

	_, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, SelectorAll, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'markguard audit' first")
}

func TestRunEmptySelectionIsSuccessfulNoOp(t *testing.T) {
	root := t.TempDir()
	store, _ := auditProject(t, root, map[string]string{"index.html": `<img src="icon.png">`})

	result, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, "A11Y-999", false)
	require.NoError(t, err)

	fixed, skipped, manual := result.Counts()
	assert.Zero(t, fixed+skipped+manual)
}

func TestRunDryRunPurity(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"index.html": "<img src=\"icon.png\">\n<div onClick={go}>x</div>",
	}
	store, rep := auditProject(t, root, files)
	require.NotEmpty(t, rep.Issues)

	before, err := os.Stat(filepath.Join(root, "index.html"))
	require.NoError(t, err)

	result, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, SelectorAll, true)
	require.NoError(t, err)

	// Every auto-fixable finding previews inline.
	for _, o := range result.Fixed {
		assert.Contains(t, o.Action, "would apply: ")
	}

	after, err := os.Stat(filepath.Join(root, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, "<img src=\"icon.png\">\n<div onClick={go}>x</div>", readProjectFile(t, root, "index.html"))

	// Dry runs never persist a fix report and never write backups.
	assert.NoFileExists(t, store.FixMarkdownPath(schema.DomainAccessibility))
	assert.NoFileExists(t, filepath.Join(root, "index.html.bak"))
}

func TestRunAppliesSelectedCategory(t *testing.T) {
	root := t.TempDir()
	store, rep := auditProject(t, root, map[string]string{
		"index.html": `<img src="photo-of-team.jpg">`,
	})
	require.Len(t, rep.Issues, 1)

	result, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, "images", false)
	require.NoError(t, err)

	require.Len(t, result.Fixed, 1)
	assert.Contains(t, readProjectFile(t, root, "index.html"), PlaceholderAltText)
	assert.FileExists(t, store.FixMarkdownPath(schema.DomainAccessibility))
}

func TestRunSelectByExactID(t *testing.T) {
	root := t.TempDir()
	store, rep := auditProject(t, root, map[string]string{
		"a.html": `<img src="icon-a.png">`,
		"b.html": `<img src="icon-b.png">`,
	})
	require.Len(t, rep.Issues, 2)

	target := rep.Issues[0]
	result, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, target.ID, false)
	require.NoError(t, err)

	require.Len(t, result.Fixed, 1)
	assert.Equal(t, target.ID, result.Fixed[0].FindingID)

	// Only the selected finding's file changed.
	other := rep.Issues[1]
	assert.NotContains(t, readProjectFile(t, root, other.File), "alt=")
}

func TestRunRoutesManualOnlyAndNonFixable(t *testing.T) {
	root := t.TempDir()
	store, rep := auditProject(t, root, map[string]string{
		"page.jsx": "<div dangerouslySetInnerHTML={{__html: x}} />\n<span tabindex=\"3\">jump</span>",
	})
	require.Len(t, rep.Issues, 2)

	result, err := newTestOrchestrator(root, store).Run(schema.DomainAccessibility, SelectorAll, false)
	require.NoError(t, err)

	require.Len(t, result.Manual, 1)
	assert.NotEmpty(t, result.Manual[0].RecommendedFix)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "no automatic remedy available", result.Skipped[0].Reason)
}

func TestRunRelocatesLaterFindingsInSameFile(t *testing.T) {
	root := t.TempDir()
	page := "<!DOCTYPE html>\n<html>\n<head>\n</head>\n<body>\n<h1>First</h1>\n<h1>Second</h1>\n</body>\n</html>\n"
	store, _ := auditProjectSEO(t, root, map[string]string{"index.html": page})

	result, err := newTestOrchestrator(root, store).Run(schema.DomainSEO, SelectorAll, false)
	require.NoError(t, err)

	// The title and meta fixes each insert a line into <head>, pushing the
	// extra h1 below its audit-time line; it must still be found and
	// demoted, not skipped as missing.
	fixed, _, _ := result.Counts()
	assert.Equal(t, 3, fixed)
	assert.Empty(t, result.Skipped)

	mutated := readProjectFile(t, root, "index.html")
	assert.Contains(t, mutated, "<title>"+PlaceholderTitle+"</title>")
	assert.Contains(t, mutated, PlaceholderMetaDesc)
	assert.Contains(t, mutated, "<h1>First</h1>")
	assert.Contains(t, mutated, "<h2>Second</h2>")
	assert.NotContains(t, mutated, "<h1>Second</h1>")
}

func TestRunBatchIsolation(t *testing.T) {
	root := t.TempDir()
	store, rep := auditProject(t, root, map[string]string{
		"a.html": `<img src="icon-a.png">`,
		"b.html": `<img src="icon-b.png">`,
		"c.html": `<img src="icon-c.png">`,
	})
	require.Len(t, rep.Issues, 3)

	orch := newTestOrchestrator(root, store)
	calls := 0
	orch.handlerFor = func(c schema.Category) Handler {
		calls++
		if calls == 2 {
			return panicHandler{}
		}
		return HandlerFor(c)
	}

	result, err := orch.Run(schema.DomainAccessibility, SelectorAll, false)
	require.NoError(t, err)

	// The crash became a skip; the other two findings still fixed, and
	// the report accounts for all three.
	fixed, skipped, manual := result.Counts()
	assert.Equal(t, 2, fixed)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, manual)
	assert.Contains(t, result.Skipped[0].Reason, "handler panicked")
}

func TestRunHandlerTimeout(t *testing.T) {
	root := t.TempDir()
	store, rep := auditProject(t, root, map[string]string{"a.html": `<img src="icon.png">`})
	require.Len(t, rep.Issues, 1)

	orch := NewOrchestrator(root, store, 20*time.Millisecond)
	orch.handlerFor = func(schema.Category) Handler { return hangHandler{} }

	result, err := orch.Run(schema.DomainAccessibility, SelectorAll, false)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "timed out")
}

func TestSelect(t *testing.T) {
	issues := []schema.Finding{
		{ID: "A11Y-001", Category: schema.CategoryImages},
		{ID: "A11Y-002", Category: schema.CategoryImages},
		{ID: "A11Y-003", Category: schema.CategorySemantics},
	}

	assert.Len(t, Select(issues, "all"), 3)
	assert.Len(t, Select(issues, "ALL"), 3)
	assert.Len(t, Select(issues, "images"), 2)

	byID := Select(issues, "A11Y-003")
	require.Len(t, byID, 1)
	assert.Equal(t, schema.CategorySemantics, byID[0].Category)

	assert.Empty(t, Select(issues, "nonsense"))
	assert.Empty(t, Select(issues, "A11Y-9"))
}

type panicHandler struct{}

func (panicHandler) Apply(string, schema.Finding) (string, error) {
	panic("simulated handler crash")
}

type hangHandler struct{}

func (hangHandler) Apply(string, schema.Finding) (string, error) {
	time.Sleep(10 * time.Second)
	return "", nil
}
