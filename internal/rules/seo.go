package rules

import (
	"regexp"
	"strings"

	"github.com/markguard/markguard/internal/schema"
)

var (
	titleTagRe      = regexp.MustCompile(`(?i)<title[^>]*>`)
	longTitleRe     = regexp.MustCompile(`(?i)<title[^>]*>[^<]{61,}</title>`)
	metaDescAbsRe   = regexp.MustCompile(`(?i)<meta\b[^>]*\bname\s*=\s*["']description["']`)
	h1TagRe         = regexp.MustCompile(`(?i)<h1\b`)
	headingTagRe    = regexp.MustCompile(`(?i)<h([1-6])\b`)
	subHeadingRe    = regexp.MustCompile(`(?i)<h([2-6])\b`)
	underscoreURLRe = regexp.MustCompile(`(?i)\b(href|src)\s*=\s*["'][^"':]*_[^"']*["']`)
	genericAnchorRe = regexp.MustCompile(`(?i)<a\b[^>]*>\s*(click here|read more|learn more|more info|here)\s*</a>`)
	divLandmarkRe   = regexp.MustCompile(`(?i)<div\b[^>]*\b(id|class(Name)?)\s*=\s*["'][^"']*\b(header|footer|nav|sidebar)\b[^"']*["']`)
	gtmSnippetRe    = regexp.MustCompile(`(?i)googletagmanager\.com|GTM-[A-Z0-9]+`)
)

// isFullDocument gates page-level rules: partial templates and components
// legitimately have no <head>.
func isFullDocument(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "<head") || strings.Contains(lower, "<html")
}

// headingLevel extracts the digit from an <hN tag match.
func headingLevel(tag string) int {
	return int(tag[len(tag)-1] - '0')
}

// SEORules returns the representative SEO rule set.
func SEORules() []Rule {
	return []Rule{
		{
			Name:      "missing-title",
			Pattern:   titleTagRe,
			Absent:    true,
			AppliesTo: isFullDocument,
			Category:  schema.CategoryTitle,
			Severity:  schema.SeverityCritical,
			Problem:   "page has no <title> element",
			Impact:    "Search engines show the URL instead of a title; rankings suffer for every query.",
			RecommendedFix: "Add a unique, descriptive <title> of 50-60 characters inside " +
				"<head>.",
			AutoFix: true,
		},
		{
			Name:           "title-too-long",
			Pattern:        longTitleRe,
			Category:       schema.CategoryTitle,
			Severity:       schema.SeverityMedium,
			Problem:        "page title exceeds 60 characters and will be truncated in results",
			Impact:         "Truncated titles lose keywords and lower click-through rates.",
			RecommendedFix: "Shorten the title to at most 60 characters, front-loading the keywords.",
			AutoFix:        false,
		},
		{
			Name:      "missing-meta-description",
			Pattern:   metaDescAbsRe,
			Absent:    true,
			AppliesTo: isFullDocument,
			Category:  schema.CategoryMetaDescription,
			Severity:  schema.SeverityHigh,
			Problem:   "page has no meta description",
			Impact:    "Search engines synthesize an arbitrary snippet, hurting click-through.",
			RecommendedFix: "Add <meta name=\"description\" content=\"...\"> of 150-160 characters " +
				"summarizing the page.",
			AutoFix: true,
		},
		{
			Name:     "multiple-h1",
			Pattern:  h1TagRe,
			Category: schema.CategoryHeadings,
			Severity: schema.SeverityMedium,
			Problem:  "page has more than one <h1> element",
			Impact:   "Multiple h1s dilute the page's topical signal for search engines.",
			RecommendedFix: "Keep a single <h1> for the main topic and demote the others to " +
				"<h2>.",
			AutoFix: true,
			Skip: func(content string, loc []int) bool {
				// The first h1 is fine; flag only the extras.
				first := h1TagRe.FindStringIndex(content)
				return first != nil && first[0] == loc[0]
			},
		},
		{
			Name:      "skipped-heading-level",
			Pattern:   subHeadingRe,
			AppliesTo: isFullDocument,
			Category:  schema.CategoryHeadings,
			Severity:  schema.SeverityLow,
			Problem:   "heading level skips over the previous level",
			Impact:    "A broken heading outline weakens the page structure search engines extract.",
			RecommendedFix: "Use the next heading level down instead of skipping one, and adjust " +
				"the visual size with CSS.",
			AutoFix: false,
			Skip: func(content string, loc []int) bool {
				level := headingLevel(content[loc[0]:loc[1]])
				prev := 1
				if m := headingTagRe.FindAllStringIndex(content[:loc[0]], -1); len(m) > 0 {
					last := m[len(m)-1]
					prev = headingLevel(content[last[0]:last[1]])
				}
				return level <= prev+1
			},
		},
		{
			Name:     "div-landmark",
			Pattern:  divLandmarkRe,
			Category: schema.CategorySemanticHTML,
			Severity: schema.SeverityLow,
			Problem:  "layout landmark implemented as a generic div",
			Impact:   "Search engines and assistive technology cannot identify the page region.",
			RecommendedFix: "Use the semantic element (<header>, <footer>, <nav>, <aside>) instead " +
				"of a classed div.",
			AutoFix: false,
		},
		{
			Name:           "underscore-url",
			Pattern:        underscoreURLRe,
			Category:       schema.CategoryURLStructure,
			Severity:       schema.SeverityLow,
			Problem:        "URL uses underscores instead of hyphens",
			Impact:         "Search engines treat underscores as word joiners, weakening keyword matching.",
			RecommendedFix: "Rename the path to use hyphens as word separators and add a redirect.",
			AutoFix:        false,
		},
		{
			Name:           "img-missing-alt-seo",
			Pattern:        imgTagRe,
			Category:       schema.CategorySEOImages,
			Severity:       schema.SeverityMedium,
			Problem:        "image without alt text is invisible to image search",
			Impact:         "Image search traffic is lost and page relevance signals weaken.",
			RecommendedFix: "Add descriptive, keyword-relevant alt text to the image.",
			AutoFix:        false,
			Skip: func(content string, loc []int) bool {
				return matchHasAttr(content, loc, altAttrRe)
			},
		},
		{
			Name:           "generic-anchor-text",
			Pattern:        genericAnchorRe,
			Category:       schema.CategoryInternalLinks,
			Severity:       schema.SeverityLow,
			Problem:        "internal link uses generic anchor text",
			Impact:         "Generic anchors pass no topical relevance to the linked page.",
			RecommendedFix: "Rewrite the anchor text to describe the destination page.",
			AutoFix:        false,
		},
		{
			Name:      "missing-gtm",
			Pattern:   gtmSnippetRe,
			Absent:    true,
			AppliesTo: isFullDocument,
			Category:  schema.CategoryGTM,
			Severity:  schema.SeverityLow,
			Problem:   "no tag manager container detected on the page",
			Impact:    "Traffic and conversion data for the page is not being collected.",
			RecommendedFix: "Confirm whether analytics is loaded elsewhere; if not, install the " +
				"tag manager snippet in <head> and after <body>.",
			AutoFix: false,
		},
	}
}
