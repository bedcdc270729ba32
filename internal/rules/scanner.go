package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/markguard/markguard/internal/logging"
	"github.com/markguard/markguard/internal/schema"
)

// Scanner applies one domain's rule set to a source set. Scanners never
// mutate files, and a failure on one file never aborts the rest.
type Scanner struct {
	domain schema.Domain
	rules  []Rule
}

// NewScanner builds a scanner for one audit domain.
func NewScanner(domain schema.Domain, rules []Rule) *Scanner {
	return &Scanner{domain: domain, rules: rules}
}

// Domain returns the audit domain this scanner reports under.
func (s *Scanner) Domain() schema.Domain { return s.domain }

// ScanFiles scans every file (root-relative paths) and returns the
// concatenated findings. Unreadable files are skipped.
func (s *Scanner) ScanFiles(projectRoot string, files []string) []schema.Finding {
	var findings []schema.Finding
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(projectRoot, file))
		if err != nil {
			logging.Logger.Debugw("skipping unreadable file", "file", file, "error", err)
			continue
		}
		findings = append(findings, s.scanFileIsolated(file, string(content))...)
	}
	return findings
}

// scanFileIsolated contains a regex-engine panic on one file so the scan
// of the remaining files continues.
func (s *Scanner) scanFileIsolated(file, content string) (findings []schema.Finding) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Warnw("scan aborted on file", "file", file, "panic", r)
			findings = nil
		}
	}()
	return s.ScanContent(file, content)
}

// ScanContent applies every rule to one file's content.
func (s *Scanner) ScanContent(file, content string) []schema.Finding {
	var findings []schema.Finding
	for _, rule := range s.rules {
		if rule.AppliesTo != nil && !rule.AppliesTo(content) {
			continue
		}

		if rule.Absent {
			if !rule.Pattern.MatchString(content) {
				findings = append(findings, rule.finding(s.domain, file, 1, ""))
			}
			continue
		}

		for _, loc := range rule.Pattern.FindAllStringIndex(content, -1) {
			if rule.Skip != nil && rule.Skip(content, loc) {
				continue
			}
			line := LineOf(content, loc[0])
			findings = append(findings, rule.finding(s.domain, file, line, content[loc[0]:loc[1]]))
		}
	}
	return findings
}

// LineOf converts a byte offset into a 1-based line number.
func LineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}
