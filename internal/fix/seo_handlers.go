package fix

import (
	"fmt"
	"regexp"

	"github.com/markguard/markguard/internal/rules"
	"github.com/markguard/markguard/internal/schema"
)

// headInsertHandler inserts one element right after the opening <head>
// tag. Used for missing titles and meta descriptions; the inserted text
// always carries a placeholder because the real value needs a human.
type headInsertHandler struct {
	element string
	present *regexp.Regexp
}

func (h headInsertHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	if h.present.MatchString(content) {
		return "", fmt.Errorf("%w: element already present in %s", ErrAlreadyFixed, f.File)
	}
	loc := headOpenRe.FindStringIndex(content)
	if loc == nil {
		return "", fmt.Errorf("%w: no <head> element in %s to insert into", ErrUnsafe, f.File)
	}

	mutated := content[:loc[1]] + "\n  " + h.element + content[loc[1]:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	return fmt.Sprintf("inserted %s into the <head> of %s; replace the placeholder with real content",
		h.element, f.File), nil
}

// demoteHeadingHandler rewrites an extra <h1> to <h2>, including the
// closing tag. The first h1 in the document is always kept.
type demoteHeadingHandler struct{}

func (demoteHeadingHandler) Apply(projectRoot string, f schema.Finding) (string, error) {
	content, err := readTarget(projectRoot, f)
	if err != nil {
		return "", err
	}

	locs := h1OpenRe.FindAllStringIndex(content, -1)
	if len(locs) <= 1 {
		return "", fmt.Errorf("%w: only one h1 remains in %s", ErrAlreadyFixed, f.File)
	}

	loc, ok := matchOnLine(content, h1OpenRe, f.Line)
	if !ok {
		return "", fmt.Errorf("%w: no h1 at %s:%d", ErrTargetNotFound, f.File, f.Line)
	}
	if loc[0] == locs[0][0] {
		return "", fmt.Errorf("%w: the h1 at %s:%d is now the document's first and must stay", ErrUnsafe, f.File, f.Line)
	}

	closeLoc := h1CloseRe.FindStringIndex(content[loc[1]:])
	if closeLoc == nil {
		return "", fmt.Errorf("%w: no closing tag for the h1 at %s:%d", ErrUnsafe, f.File, f.Line)
	}
	closeStart := loc[1] + closeLoc[0]
	closeEnd := loc[1] + closeLoc[1]

	mutated := content[:loc[0]] + "<h2" + content[loc[0]+len("<h1"):closeStart] + "</h2>" + content[closeEnd:]
	if err := writeWithBackup(projectRoot, f.File, content, mutated); err != nil {
		return "", err
	}

	closeLine := rules.LineOf(content, closeStart)
	return fmt.Sprintf("demoted the h1 at %s:%d to h2, closing tag updated on line %d", f.File, f.Line, closeLine), nil
}
