package rules

import (
	"regexp"
	"strings"

	"github.com/markguard/markguard/internal/schema"
)

var (
	imgTagRe          = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttrRe         = regexp.MustCompile(`(?i)\balt\s*=`)
	decorativeSrcRe   = regexp.MustCompile(`(?i)(icon|logo|bullet|divider|spacer|decoration)`)
	clickableDivRe    = regexp.MustCompile(`(?i)<div\b[^>]*\bonclick\b[^>]*>`)
	roleAttrRe        = regexp.MustCompile(`(?i)\brole\s*=`)
	bareInputRe       = regexp.MustCompile(`(?i)<input\b[^>]*>`)
	labelledRe        = regexp.MustCompile(`(?i)\b(aria-label|aria-labelledby)\s*=`)
	nonLabelledTypeRe = regexp.MustCompile(`(?i)\btype\s*=\s*["'](hidden|submit|button|reset|image)["']`)
	iconButtonRe      = regexp.MustCompile(`(?i)<button\b[^>]*>\s*<(svg|img|i)\b`)
	positiveTabRe     = regexp.MustCompile(`(?i)\btabindex\s*=\s*["']?[1-9][0-9]*["']?`)
	hiddenFocusableRe = regexp.MustCompile(`(?i)<(a|button|input|select|textarea)\b[^>]*\baria-hidden\s*=\s*["']true["'][^>]*>`)
	clickHandlerRe    = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)\b[^>]*\bonclick\b[^>]*>`)
	keyHandlerRe      = regexp.MustCompile(`(?i)\bonkey(down|up|press)\b`)
	nativeClickableRe = regexp.MustCompile(`(?i)^<(a|button|input|select|textarea|summary)\b`)
	widgetClassRe     = regexp.MustCompile(`(?i)class(Name)?\s*=\s*["'][^"']*(modal|carousel|dropdown|tooltip)[^"']*["']`)
	rawHTMLInjectRe   = regexp.MustCompile(`dangerouslySetInnerHTML|innerHTML\s*=|document\.write\(`)
	idAttrRe          = regexp.MustCompile(`(?i)\bid\s*=\s*["']([^"']+)["']`)
)

// matchHasAttr reports whether the matched tag text carries the attribute.
func matchHasAttr(content string, loc []int, attr *regexp.Regexp) bool {
	return attr.MatchString(content[loc[0]:loc[1]])
}

// AccessibilityRules returns the representative accessibility rule set.
// Problem wording is stable; downstream filters match on substrings.
func AccessibilityRules() []Rule {
	return []Rule{
		{
			Name:     "div-as-button",
			Pattern:  clickableDivRe,
			Category: schema.CategorySemantics,
			Severity: schema.SeverityCritical,
			Problem:  "div used as interactive control without semantic role",
			Impact:   "Screen reader and keyboard users cannot discover or operate the control.",
			RecommendedFix: "Replace the div with a <button type=\"button\"> element, or add " +
				"role=\"button\", tabIndex={0} and a keyboard handler.",
			AutoFix:       true,
			ComplianceTag: "WCAG 4.1.2 (A)",
			Skip: func(content string, loc []int) bool {
				// Already carries an explicit role; treat as remediated.
				return matchHasAttr(content, loc, roleAttrRe)
			},
		},
		{
			Name:     "icon-button-no-name",
			Pattern:  iconButtonRe,
			Category: schema.CategoryAccessibleNames,
			Severity: schema.SeverityHigh,
			Problem:  "icon-only button has no accessible name",
			Impact:   "Assistive technology announces the button as unlabeled.",
			RecommendedFix: "Add an aria-label describing the action, or include visually " +
				"hidden text inside the button.",
			AutoFix:       true,
			ComplianceTag: "WCAG 4.1.2 (A)",
			Skip: func(content string, loc []int) bool {
				return matchHasAttr(content, loc, labelledRe)
			},
		},
		{
			Name:     "img-missing-alt",
			Pattern:  imgTagRe,
			Category: schema.CategoryImages,
			Severity: schema.SeverityHigh,
			Problem:  "image is missing an alt attribute",
			Impact:   "Screen readers fall back to the filename or skip the image entirely.",
			RecommendedFix: "Add an alt attribute describing the image, or alt=\"\" if it is " +
				"purely decorative.",
			AutoFix:       true,
			ComplianceTag: "WCAG 1.1.1 (A)",
			Skip: func(content string, loc []int) bool {
				return matchHasAttr(content, loc, altAttrRe)
			},
			Refine: func(match string) Refinement {
				if decorativeSrcRe.MatchString(match) {
					// Heuristic only; the reviewer may disagree.
					return Refinement{
						Problem:        "image appears likely decorative but is missing alt=\"\"",
						RecommendedFix: "Add alt=\"\" so assistive technology skips the decorative image.",
						Severity:       schema.SeverityMedium,
					}
				}
				return Refinement{}
			},
		},
		{
			Name:     "input-missing-label",
			Pattern:  bareInputRe,
			Category: schema.CategoryForms,
			Severity: schema.SeverityHigh,
			Problem:  "form input has no associated label",
			Impact:   "Users of assistive technology cannot tell what the field expects.",
			RecommendedFix: "Associate a <label for=...> with the input, or add an aria-label " +
				"describing the field.",
			AutoFix:       true,
			ComplianceTag: "WCAG 3.3.2 (A)",
			Skip: func(content string, loc []int) bool {
				match := content[loc[0]:loc[1]]
				if labelledRe.MatchString(match) || nonLabelledTypeRe.MatchString(match) {
					return true
				}
				// An id referenced by a label elsewhere in the file counts
				// as labelled.
				if m := idAttrRe.FindStringSubmatch(match); m != nil {
					return strings.Contains(content, `for="`+m[1]+`"`) || strings.Contains(content, `for='`+m[1]+`'`)
				}
				return false
			},
		},
		{
			Name:     "aria-hidden-focusable",
			Pattern:  hiddenFocusableRe,
			Category: schema.CategoryARIA,
			Severity: schema.SeverityHigh,
			Problem:  "focusable element is hidden from assistive technology with aria-hidden=\"true\"",
			Impact:   "Keyboard focus lands on an element screen readers cannot announce.",
			RecommendedFix: "Remove aria-hidden=\"true\" from the focusable element, or remove it " +
				"from the tab order as well.",
			AutoFix:       true,
			ComplianceTag: "WCAG 4.1.2 (A)",
		},
		{
			Name:     "click-without-key-handler",
			Pattern:  clickHandlerRe,
			Category: schema.CategoryKeyboard,
			Severity: schema.SeverityHigh,
			Problem:  "click handler on an element with no keyboard equivalent",
			Impact:   "Keyboard-only users can see the control but cannot activate it.",
			RecommendedFix: "Add an onKeyDown handler activating on Enter and Space, or move the " +
				"click handler onto a native interactive element.",
			AutoFix:       false,
			ComplianceTag: "WCAG 2.1.1 (A)",
			Skip: func(content string, loc []int) bool {
				// Native interactive elements already fire on Enter/Space.
				match := content[loc[0]:loc[1]]
				return nativeClickableRe.MatchString(match) || keyHandlerRe.MatchString(match)
			},
		},
		{
			Name:           "positive-tabindex",
			Pattern:        positiveTabRe,
			Category:       schema.CategoryKeyboard,
			Severity:       schema.SeverityMedium,
			Problem:        "positive tabindex overrides the natural focus order",
			Impact:         "Keyboard navigation jumps unpredictably across the page.",
			RecommendedFix: "Use tabindex=\"0\" and rely on DOM order for focus sequence.",
			AutoFix:        false,
			ComplianceTag:  "WCAG 2.4.3 (A)",
		},
		{
			Name:     "custom-widget-pattern",
			Pattern:  widgetClassRe,
			Category: schema.CategoryPatterns,
			Severity: schema.SeverityLow,
			Problem:  "custom widget detected; verify it follows the matching ARIA pattern",
			Impact: "Hand-rolled modals, carousels and dropdowns commonly miss focus " +
				"management and ARIA state.",
			RecommendedFix: "Compare the widget against the WAI-ARIA Authoring Practices pattern " +
				"and add the missing roles, states and keyboard support.",
			AutoFix:       false,
			ComplianceTag: "WCAG 4.1.2 (A)",
		},
		{
			Name:     "raw-html-injection",
			Pattern:  rawHTMLInjectRe,
			Category: schema.CategoryDynamic,
			Severity: schema.SeverityMedium,
			Problem:  "dynamically injected markup cannot be statically audited",
			Impact:   "Injected content may introduce inaccessible markup at runtime.",
			RecommendedFix: "Audit the rendered output with a runtime tool and ensure injected " +
				"content meets the same accessibility bar as static markup.",
			AutoFix:       false,
			ComplianceTag: "WCAG 4.1.2 (A)",
		},
	}
}
