package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markguard/markguard/internal/schema"
)

func a11yScanner() *Scanner {
	return NewScanner(schema.DomainAccessibility, AccessibilityRules())
}

func seoScanner() *Scanner {
	return NewScanner(schema.DomainSEO, SEORules())
}

func findByCategory(findings []schema.Finding, cat schema.Category) []schema.Finding {
	var out []schema.Finding
	for _, f := range findings {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

func TestLineOf(t *testing.T) {
	content := "a\nb\nc"
	assert.Equal(t, 1, LineOf(content, 0))
	assert.Equal(t, 2, LineOf(content, 2))
	assert.Equal(t, 3, LineOf(content, 4))
	assert.Equal(t, 3, LineOf(content, 100))
}

func TestImgMissingAltDecorativeHeuristic(t *testing.T) {
	content := "<html>\n<img src=\"/images/icon-arrow.png\">\n</html>"
	findings := findByCategory(a11yScanner().ScanContent("index.html", content), schema.CategoryImages)

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, schema.SeverityMedium, f.Severity)
	assert.Contains(t, f.Problem, "likely decorative")
	assert.Contains(t, f.Problem, `missing alt=""`)
	assert.True(t, f.AutoFixPossible)
	assert.Equal(t, "WCAG 1.1.1 (A)", f.ComplianceTag)
}

func TestImgMissingAltContentImage(t *testing.T) {
	content := `<img src="/photos/team-standup.jpg">`
	findings := findByCategory(a11yScanner().ScanContent("index.html", content), schema.CategoryImages)

	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "image is missing an alt attribute", findings[0].Problem)
}

func TestImgWithAltIsSkipped(t *testing.T) {
	content := `<img src="/images/icon.png" alt="">` + "\n" + `<img alt="chart" src="/chart.png">`
	findings := findByCategory(a11yScanner().ScanContent("index.html", content), schema.CategoryImages)
	assert.Empty(t, findings)
}

func TestDivAsButton(t *testing.T) {
	content := "<div class=\"cta\" onClick={submit}>\n  Send\n</div>"
	findings := findByCategory(a11yScanner().ScanContent("form.jsx", content), schema.CategorySemantics)

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, schema.SeverityCritical, f.Severity)
	assert.Contains(t, f.Problem, "used as interactive control without semantic role")
	assert.Equal(t, 1, f.Line)
}

func TestDivWithRoleIsSkipped(t *testing.T) {
	content := `<div role="button" tabindex="0" onClick={submit}>Send</div>`
	findings := findByCategory(a11yScanner().ScanContent("form.jsx", content), schema.CategorySemantics)
	assert.Empty(t, findings)
}

func TestInputLabelAssociationSuppressesFinding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"bare input", `<input type="text" name="email">`, 1},
		{"aria-label", `<input type="text" aria-label="Email">`, 0},
		{"label for reference", `<label for="email">Email</label><input id="email" type="text">`, 0},
		{"hidden input", `<input type="hidden" name="csrf">`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := findByCategory(a11yScanner().ScanContent("form.html", tt.content), schema.CategoryForms)
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestClickHandlerNeedsKeyboardEquivalent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"span with click only", `<span onClick={open}>Details</span>`, 1},
		{"key handler present", `<span onClick={open} onKeyDown={open}>Details</span>`, 0},
		{"native button", `<button onClick={open}>Details</button>`, 0},
		{"native anchor", `<a href="/x" onclick="track()">Docs</a>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := findByCategory(a11yScanner().ScanContent("page.jsx", tt.content), schema.CategoryKeyboard)
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestAbsenceRulesOnlyFireOnFullDocuments(t *testing.T) {
	fullDoc := "<html>\n<head>\n</head>\n<body></body>\n</html>"
	fragment := `<div class="card">partial template</div>`

	full := seoScanner().ScanContent("index.html", fullDoc)
	assert.Len(t, findByCategory(full, schema.CategoryTitle), 1)
	assert.Len(t, findByCategory(full, schema.CategoryMetaDescription), 1)
	// Absence findings are file-level, anchored at line 1.
	assert.Equal(t, 1, findByCategory(full, schema.CategoryTitle)[0].Line)

	frag := seoScanner().ScanContent("card.html", fragment)
	assert.Empty(t, findByCategory(frag, schema.CategoryTitle))
	assert.Empty(t, findByCategory(frag, schema.CategoryMetaDescription))
}

func TestTitlePresentSuppressesAbsenceRule(t *testing.T) {
	content := "<html><head><title>Home</title>\n<meta name=\"description\" content=\"x\"></head></html>"
	findings := seoScanner().ScanContent("index.html", content)
	assert.Empty(t, findByCategory(findings, schema.CategoryTitle))
	assert.Empty(t, findByCategory(findings, schema.CategoryMetaDescription))
}

func TestMultipleH1FlagsOnlyExtras(t *testing.T) {
	content := "<html><head><title>t</title></head>\n<h1>Main</h1>\n<h1>Second</h1>\n<h1>Third</h1>\n</html>"
	findings := findByCategory(seoScanner().ScanContent("index.html", content), schema.CategoryHeadings)

	require.Len(t, findings, 2)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, 4, findings[1].Line)
}

func TestSkippedHeadingLevel(t *testing.T) {
	content := "<html><head><title>t</title><meta name=\"description\" content=\"x\"></head>\n" +
		"<h1>Main</h1>\n<h3>Deep</h3>\n<h4>Fine</h4>\n</html>"
	findings := findByCategory(seoScanner().ScanContent("index.html", content), schema.CategoryHeadings)

	// h1 to h3 skips a level; h3 to h4 does not.
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)
	assert.Contains(t, findings[0].Problem, "skips over")
	assert.False(t, findings[0].AutoFixPossible)
}

func TestDynamicContentIsManualOnlyCategory(t *testing.T) {
	content := `<div dangerouslySetInnerHTML={{__html: md}} />`
	findings := findByCategory(a11yScanner().ScanContent("post.jsx", content), schema.CategoryDynamic)

	require.Len(t, findings, 1)
	assert.True(t, findings[0].Category.ManualOnly())
	assert.False(t, findings[0].AutoFixPossible)
}

func TestScanFilesSkipsUnreadable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.html"), []byte(`<img src="a.png">`), 0o644))

	findings := a11yScanner().ScanFiles(root, []string{"missing.html", "ok.html"})
	require.Len(t, findByCategory(findings, schema.CategoryImages), 1)
	assert.Equal(t, "ok.html", findings[0].File)
}

func TestFindingsCarryFingerprints(t *testing.T) {
	findings := a11yScanner().ScanContent("index.html", `<img src="x.png">`)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.NotEmpty(t, f.Fingerprint)
	}
}
