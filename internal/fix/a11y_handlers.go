package fix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/markguard/markguard/internal/rules"
	"github.com/markguard/markguard/internal/schema"
)

// imageAltHandler inserts an alt attribute immediately after the img tag's
// name token. Decorative images (per the scanner's advisory heuristic,
// carried in the problem text) get alt=""; everything else gets a
// placeholder a human must replace.
type imageAltHandler struct{}

func (imageAltHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	loc, ok := matchOnLine(content, imgTagRe, f.Line)
	if !ok {
		return "", fmt.Errorf("%w: no img tag at %s:%d", ErrTargetNotFound, f.File, f.Line)
	}
	if altAttrRe.MatchString(content[loc[0]:loc[1]]) {
		return "", fmt.Errorf("%w: alt attribute already present at %s:%d", ErrAlreadyFixed, f.File, f.Line)
	}

	decorative := strings.Contains(f.Problem, "likely decorative")
	attr := ` alt=""`
	if !decorative {
		attr = ` alt="` + PlaceholderAltText + `"`
	}

	insertAt := loc[0] + len("<img")
	mutated := content[:insertAt] + attr + content[insertAt:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	if decorative {
		return fmt.Sprintf(`inserted alt="" on the decorative image at %s:%d`, f.File, f.Line), nil
	}
	return fmt.Sprintf(`inserted alt="%s" at %s:%d; replace the placeholder with a real description`,
		PlaceholderAltText, f.File, f.Line), nil
}

// retagDivButtonHandler rewrites a clickable div to a semantic button,
// including the matching closing tag. It refuses rather than guess when
// the closing tag cannot be resolved or the div wraps another interactive
// element (nesting interactive controls is invalid markup).
type retagDivButtonHandler struct{}

func (retagDivButtonHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	loc, ok := matchOnLine(content, clickableDivRe, f.Line)
	if !ok {
		return "", fmt.Errorf("%w: no clickable div at %s:%d", ErrTargetNotFound, f.File, f.Line)
	}
	openTag := content[loc[0]:loc[1]]
	if roleAttrRe.MatchString(openTag) {
		return "", fmt.Errorf("%w: element at %s:%d already carries a role", ErrAlreadyFixed, f.File, f.Line)
	}

	rest := content[loc[1]:]
	closeStart, closeEnd, found := matchingDivClose(rest)
	if !found {
		return "", fmt.Errorf("%w: no matching closing tag for the div at %s:%d", ErrUnsafe, f.File, f.Line)
	}
	if interactiveRe.MatchString(rest[:closeStart]) {
		return "", fmt.Errorf("%w: div at %s:%d contains a nested interactive element", ErrUnsafe, f.File, f.Line)
	}

	newOpen := `<button type="button"` + openTag[len("<div"):]
	mutated := content[:loc[0]] + newOpen + rest[:closeStart] + "</button>" + rest[closeEnd:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	closeLine := rules.LineOf(content, loc[1]+closeStart)
	return fmt.Sprintf(`retagged div at %s:%d to <button type="button">, closing tag updated on line %d`,
		f.File, f.Line, closeLine), nil
}

// matchingDivClose finds the closing tag balancing an already-opened div.
// rest starts right after the opening tag. Returns offsets into rest.
func matchingDivClose(rest string) (start, end int, found bool) {
	opens := divOpenRe.FindAllStringIndex(rest, -1)
	closes := divCloseRe.FindAllStringIndex(rest, -1)

	depth := 1
	i, j := 0, 0
	for j < len(closes) {
		if i < len(opens) && opens[i][0] < closes[j][0] {
			// A self-closing <div ... /> never takes a closing tag.
			if !strings.HasSuffix(rest[opens[i][0]:opens[i][1]], "/>") {
				depth++
			}
			i++
			continue
		}
		depth--
		if depth == 0 {
			return closes[j][0], closes[j][1], true
		}
		j++
	}
	return 0, 0, false
}

// ariaLabelHandler inserts an aria-label placeholder after a tag's name
// token. Shared by the accessible-names and forms categories; only the
// pattern and tag prefix differ.
type ariaLabelHandler struct {
	pattern   *regexp.Regexp
	tagPrefix string
}

func (h ariaLabelHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	loc, ok := matchOnLine(content, h.pattern, f.Line)
	if !ok {
		return "", fmt.Errorf("%w: no matching element at %s:%d", ErrTargetNotFound, f.File, f.Line)
	}
	if labelledRe.MatchString(content[loc[0]:loc[1]]) {
		return "", fmt.Errorf("%w: aria-label already present at %s:%d", ErrAlreadyFixed, f.File, f.Line)
	}

	insertAt := loc[0] + len(h.tagPrefix)
	mutated := content[:insertAt] + ` aria-label="` + PlaceholderLabel + `"` + content[insertAt:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	return fmt.Sprintf(`inserted aria-label="%s" at %s:%d; replace the placeholder with a real label`,
		PlaceholderLabel, f.File, f.Line), nil
}

// removeAriaHiddenHandler strips aria-hidden="true" from a focusable
// element.
type removeAriaHiddenHandler struct{}

func (removeAriaHiddenHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	loc, ok := matchOnLine(content, hiddenFocusRe, f.Line)
	if !ok {
		// Distinguish an already-applied fix from a vanished target: the
		// focusable element still on that line means the attribute is gone.
		if interactiveRe.MatchString(lineText(content, f.Line)) {
			return "", fmt.Errorf("%w: aria-hidden already removed at %s:%d", ErrAlreadyFixed, f.File, f.Line)
		}
		return "", fmt.Errorf("%w: no hidden focusable element at %s:%d", ErrTargetNotFound, f.File, f.Line)
	}

	match := content[loc[0]:loc[1]]
	mutated := content[:loc[0]] + ariaHiddenRe.ReplaceAllString(match, "") + content[loc[1]:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	return fmt.Sprintf(`removed aria-hidden="true" from the focusable element at %s:%d`, f.File, f.Line), nil
}

// lineText returns the 1-based line of content, or "" when out of range.
func lineText(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
