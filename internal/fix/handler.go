// Package fix applies conservative, reversible textual fixes to findings
// selected from a persisted audit report.
package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/markguard/markguard/internal/rules"
	"github.com/markguard/markguard/internal/schema"
)

// Placeholder tokens inserted whenever the correct value requires human
// judgment. Handlers never invent factual content; they insert one of
// these greppable markers instead.
const (
	PlaceholderAltText  = "TODO-ALT-TEXT"
	PlaceholderLabel    = "TODO-LABEL"
	PlaceholderTitle    = "TODO-PAGE-TITLE"
	PlaceholderMetaDesc = "TODO-META-DESCRIPTION"
)

// ErrAlreadyFixed signals the idempotency guard: the defect is no longer
// present in the current file content.
var ErrAlreadyFixed = errors.New("already fixed")

// ErrTargetNotFound signals that the file, line, or pattern the finding
// points at no longer exists.
var ErrTargetNotFound = errors.New("target not found")

// ErrUnsafe signals structural ambiguity the handler refuses to guess
// through, e.g. an unresolved closing tag.
var ErrUnsafe = errors.New("unsafe to automate")

// Handler performs the narrowly scoped text mutation for one category.
// Implementations must re-locate the defect in the current file content
// rather than trusting the finding, guard for already-applied fixes, and
// back the file up before writing.
type Handler interface {
	// Apply attempts the fix and returns a human-readable description of
	// exactly what changed.
	Apply(projectRoot string, f schema.Finding) (action string, err error)
}

// handlers maps every auto-fixable category to its handler. Categories
// absent here either never emit auto-fixable findings or are manual-only
// by policy; registry_test.go enforces that the rule sets and this table
// stay in agreement.
var handlers = map[schema.Category]Handler{
	schema.CategorySemantics:       retagDivButtonHandler{},
	schema.CategoryAccessibleNames: ariaLabelHandler{pattern: iconButtonRe, tagPrefix: "<button"},
	schema.CategoryImages:          imageAltHandler{},
	schema.CategoryForms:           ariaLabelHandler{pattern: bareInputRe, tagPrefix: "<input"},
	schema.CategoryARIA:            removeAriaHiddenHandler{},
	schema.CategoryTitle:           headInsertHandler{element: "<title>" + PlaceholderTitle + "</title>", present: titleTagRe},
	schema.CategoryMetaDescription: headInsertHandler{element: `<meta name="description" content="` + PlaceholderMetaDesc + `">`, present: metaDescRe},
	schema.CategoryHeadings:        demoteHeadingHandler{},
}

// HandlerFor returns the handler registered for a category, or nil when
// the category has no automated remedy.
func HandlerFor(c schema.Category) Handler {
	return handlers[c]
}

// readTarget loads the finding's file relative to the project root.
func readTarget(projectRoot string, f schema.Finding) (string, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, f.File))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTargetNotFound, f.File, err)
	}
	return string(data), nil
}

// writeWithBackup writes a .bak copy of the original content next to the
// file, then writes the mutated content. The backup is the sole recovery
// mechanism; there is no transaction log.
func writeWithBackup(projectRoot, file, original, mutated string) error {
	full := filepath.Join(projectRoot, file)

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}
	mode := info.Mode().Perm()

	if err := os.WriteFile(full+".bak", []byte(original), mode); err != nil {
		return fmt.Errorf("write backup for %s: %w", file, err)
	}
	if err := os.WriteFile(full, []byte(mutated), mode); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

// matchOnLine returns the [start, end) offsets of the pattern match whose
// 1-based line number equals line. The file may have changed since the
// audit ran, so a missing match is a per-finding failure, not a crash.
func matchOnLine(content string, pattern *regexp.Regexp, line int) ([]int, bool) {
	for _, loc := range pattern.FindAllStringIndex(content, -1) {
		if rules.LineOf(content, loc[0]) == line {
			return loc, true
		}
	}
	return nil, false
}
