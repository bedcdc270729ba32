package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markguard/markguard/internal/schema"
)

// Store persists audit and fix reports under a fixed directory inside the
// project root. It is the sole state shared between the audit phase and a
// later fix phase.
type Store struct {
	projectRoot string
	reportDir   string
}

// NewStore creates a store rooted at projectRoot writing into reportDir
// (relative to the root).
func NewStore(projectRoot, reportDir string) *Store {
	return &Store{projectRoot: projectRoot, reportDir: reportDir}
}

// AuditJSONPath returns the fixed location of a domain's structured report.
func (s *Store) AuditJSONPath(domain schema.Domain) string {
	return filepath.Join(s.projectRoot, s.reportDir, fmt.Sprintf("audit-%s.json", domain))
}

// AuditMarkdownPath returns the fixed location of a domain's rendered report.
func (s *Store) AuditMarkdownPath(domain schema.Domain) string {
	return filepath.Join(s.projectRoot, s.reportDir, fmt.Sprintf("audit-%s-report.md", domain))
}

// FixMarkdownPath returns the fixed location of the rendered fix report.
func (s *Store) FixMarkdownPath(domain schema.Domain) string {
	return filepath.Join(s.projectRoot, s.reportDir, fmt.Sprintf("fix-%s-report.md", domain))
}

// SaveAudit persists both the structured and the rendered report. An
// unwritable destination is fatal for the audit as a whole: a silently
// missing report is worse than a crash.
func (s *Store) SaveAudit(r schema.Report) error {
	dir := filepath.Join(s.projectRoot, s.reportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %s: %w", dir, err)
	}

	jsonPath := s.AuditJSONPath(r.Domain)
	fh, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", jsonPath, err)
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	mdPath := s.AuditMarkdownPath(r.Domain)
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	return nil
}

// LoadAudit reads a previously persisted report. A missing report gets a
// user-directed message; there is nothing to fix against without one.
func (s *Store) LoadAudit(domain schema.Domain) (schema.Report, error) {
	var r schema.Report
	path := s.AuditJSONPath(domain)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, fmt.Errorf("no audit report at %s: run 'markguard audit' first", path)
	}
	if err != nil {
		return r, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}

// SaveFix persists the rendered fix report. Never called for dry runs.
func (s *Store) SaveFix(domain schema.Domain, r schema.FixReport) error {
	dir := filepath.Join(s.projectRoot, s.reportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %s: %w", dir, err)
	}
	path := s.FixMarkdownPath(domain)
	if err := os.WriteFile(path, []byte(RenderFixMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
