package fix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markguard/markguard/internal/logging"
	"github.com/markguard/markguard/internal/report"
	"github.com/markguard/markguard/internal/schema"
)

// SelectorAll selects every finding in the report.
const SelectorAll = "all"

// Orchestrator drives one fix run: load the persisted report, select a
// subset of findings, dispatch each to its handler, and account for every
// outcome. Findings are applied strictly one at a time: findings can share
// a file, and an earlier fix can shift line numbers a later fix depends
// on, so sequential application is a correctness requirement. The run
// tracks those shifts per file so later findings re-locate against the
// current content rather than the audit-time line.
type Orchestrator struct {
	projectRoot    string
	store          *report.Store
	handlerTimeout time.Duration

	// handlerFor resolves a category's handler. Tests substitute it to
	// simulate crashing or hanging handlers.
	handlerFor func(schema.Category) Handler
}

// NewOrchestrator builds an orchestrator for projectRoot using the given
// report store.
func NewOrchestrator(projectRoot string, store *report.Store, handlerTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		projectRoot:    projectRoot,
		store:          store,
		handlerTimeout: handlerTimeout,
		handlerFor:     HandlerFor,
	}
}

// Run executes one fix pass over the domain's persisted report. A missing
// report is fatal; everything past loading is recovered into per-finding
// outcomes. Dry runs never touch the filesystem and never persist a fix
// report, so repeated previews are side-effect-free.
func (o *Orchestrator) Run(domain schema.Domain, selector string, dryRun bool) (schema.FixReport, error) {
	fixReport := schema.FixReport{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		ProjectRoot: o.projectRoot,
		Selector:    selector,
		DryRun:      dryRun,
	}

	audit, err := o.store.LoadAudit(domain)
	if err != nil {
		return fixReport, err
	}

	// An empty selection is a successful no-op, not an error.
	selected := Select(audit.Issues, selector)

	shifts := make(map[string][]lineShift)
	for _, f := range selected {
		fixReport.Add(o.dispatch(f, dryRun, shifts))
	}

	if !dryRun {
		if err := o.store.SaveFix(domain, fixReport); err != nil {
			return fixReport, err
		}
	}
	return fixReport, nil
}

// Select filters the report's findings by exact ID, category name, or
// "all". Unknown selectors yield an empty set.
func Select(issues []schema.Finding, selector string) []schema.Finding {
	selector = strings.TrimSpace(selector)
	if strings.EqualFold(selector, SelectorAll) {
		return issues
	}

	var out []schema.Finding
	for _, f := range issues {
		if f.ID == selector || string(f.Category) == selector {
			out = append(out, f)
		}
	}
	return out
}

// lineShift records that a fix at line at changed the file's line count by
// delta. Anchors stay in audit-time coordinates, so every later finding's
// audit line compares against them directly.
type lineShift struct {
	at    int
	delta int
}

// shiftedLine maps a finding's audit-time line onto the file's current
// content after earlier fixes in the same run.
func shiftedLine(shifts []lineShift, line int) int {
	shifted := line
	for _, s := range shifts {
		if line > s.at {
			shifted += s.delta
		}
	}
	return shifted
}

// dispatch routes one finding to its outcome. Manual-only categories are
// excluded from automation by policy before any handler is consulted.
func (o *Orchestrator) dispatch(f schema.Finding, dryRun bool, shifts map[string][]lineShift) schema.FixOutcome {
	outcome := schema.FixOutcome{
		FindingID: f.ID,
		File:      f.File,
		Line:      f.Line,
	}

	if f.Category.ManualOnly() {
		outcome.Disposition = schema.DispositionManualReview
		outcome.RecommendedFix = f.RecommendedFix
		return outcome
	}

	if !f.AutoFixPossible {
		outcome.Disposition = schema.DispositionSkipped
		outcome.Reason = "no automatic remedy available"
		return outcome
	}

	if dryRun {
		outcome.Disposition = schema.DispositionFixed
		outcome.Action = "would apply: " + f.RecommendedFix
		return outcome
	}

	handler := o.handlerFor(f.Category)
	if handler == nil {
		outcome.Disposition = schema.DispositionSkipped
		outcome.Reason = fmt.Sprintf("no handler registered for category %s", f.Category)
		return outcome
	}

	// An earlier fix in this run may have inserted or removed lines in
	// the same file; the handler must look at the line's current position.
	target := f
	target.Line = shiftedLine(shifts[f.File], f.Line)
	outcome.Line = target.Line

	before := o.fileLines(f.File)
	action, err := o.invoke(handler, target)
	if err != nil {
		// One handler's failure never aborts the batch.
		logging.Logger.Debugw("fix handler failed", "finding", f.ID, "error", err)
		outcome.Disposition = schema.DispositionSkipped
		outcome.Reason = err.Error()
		return outcome
	}

	if delta := o.fileLines(f.File) - before; delta != 0 {
		shifts[f.File] = append(shifts[f.File], lineShift{at: f.Line, delta: delta})
	}

	outcome.Disposition = schema.DispositionFixed
	outcome.Action = action
	return outcome
}

// fileLines counts the file's lines, 0 when unreadable. Only the
// difference across a successful fix matters.
func (o *Orchestrator) fileLines(file string) int {
	data, err := os.ReadFile(filepath.Join(o.projectRoot, file))
	if err != nil {
		return 0
	}
	return strings.Count(string(data), "\n") + 1
}

type handlerResult struct {
	action string
	err    error
}

// invoke runs a handler with crash containment and a timeout: a panic or
// hang in one handler becomes a skipped outcome.
func (o *Orchestrator) invoke(h Handler, f schema.Finding) (string, error) {
	ch := make(chan handlerResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- handlerResult{err: fmt.Errorf("handler panicked: %v", r)}
			}
		}()
		action, err := h.Apply(o.projectRoot, f)
		ch <- handlerResult{action: action, err: err}
	}()

	select {
	case res := <-ch:
		return res.action, res.err
	case <-time.After(o.handlerTimeout):
		return "", fmt.Errorf("handler timed out after %s", o.handlerTimeout)
	}
}
