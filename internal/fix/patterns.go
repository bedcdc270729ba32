package fix

import "regexp"

// Handlers re-derive the scanner's match against the current file content
// instead of trusting the finding; the file may have changed since the
// audit ran. These mirror the rule patterns for the auto-fixable
// categories.
var (
	imgTagRe       = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttrRe      = regexp.MustCompile(`(?i)\balt\s*=`)
	clickableDivRe = regexp.MustCompile(`(?i)<div\b[^>]*\bonclick\b[^>]*>`)
	roleAttrRe     = regexp.MustCompile(`(?i)\brole\s*=`)
	iconButtonRe   = regexp.MustCompile(`(?i)<button\b[^>]*>\s*<(svg|img|i)\b`)
	bareInputRe    = regexp.MustCompile(`(?i)<input\b[^>]*>`)
	labelledRe     = regexp.MustCompile(`(?i)\b(aria-label|aria-labelledby)\s*=`)
	ariaHiddenRe   = regexp.MustCompile(`(?i)\s*\baria-hidden\s*=\s*["']true["']`)
	hiddenFocusRe  = regexp.MustCompile(`(?i)<(a|button|input|select|textarea)\b[^>]*\baria-hidden\s*=\s*["']true["'][^>]*>`)
	titleTagRe     = regexp.MustCompile(`(?i)<title[^>]*>`)
	metaDescRe     = regexp.MustCompile(`(?i)<meta\b[^>]*\bname\s*=\s*["']description["']`)
	headOpenRe     = regexp.MustCompile(`(?i)<head[^>]*>`)
	h1OpenRe       = regexp.MustCompile(`(?i)<h1\b`)
	h1CloseRe      = regexp.MustCompile(`(?i)</h1\s*>`)
	divOpenRe      = regexp.MustCompile(`(?i)<div\b[^>]*>`)
	divCloseRe     = regexp.MustCompile(`(?i)</div\s*>`)
	interactiveRe  = regexp.MustCompile(`(?i)<(button|a|input|select|textarea)\b`)
)
