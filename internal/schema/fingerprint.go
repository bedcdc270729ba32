package schema

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// ComputeFingerprint derives a content-based key for a finding from its
// category, file, and problem text. Unlike the positional ID it survives
// re-audits of an unchanged defect, but it is informational only: two
// distinct defects on the same file can collide when a rule fires twice.
func ComputeFingerprint(f Finding) string {
	h := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s", f.Category, f.File, f.Problem)))
	return hex.EncodeToString(h[:8])
}
