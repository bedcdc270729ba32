// Package resolver turns a project root plus an ecosystem tag into the
// ordered set of source files an audit run should scan.
package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/markguard/markguard/internal/logging"
)

// Ecosystem is the closed classification of the scanned project's stack.
type Ecosystem string

const (
	EcosystemNextJS Ecosystem = "nextjs"
	EcosystemReact  Ecosystem = "react"
	EcosystemVue    Ecosystem = "vue"
	// EcosystemHTML is the plain-markup fallback scanned from the root.
	EcosystemHTML Ecosystem = "html"
)

// maxDepth bounds the recursive walk below each candidate root.
const maxDepth = 8

// ecosystemRoots maps an ecosystem to the directories worth scanning,
// relative to the project root. The html entry falls back to the root.
var ecosystemRoots = map[Ecosystem][]string{
	EcosystemNextJS: {"app", "pages", "src", "components"},
	EcosystemReact:  {"src", "public"},
	EcosystemVue:    {"src", "public"},
	EcosystemHTML:   {"."},
}

var ecosystemExtensions = map[Ecosystem][]string{
	EcosystemNextJS: {".jsx", ".tsx", ".js", ".ts", ".html"},
	EcosystemReact:  {".jsx", ".tsx", ".js", ".ts", ".html"},
	EcosystemVue:    {".vue", ".js", ".ts", ".html"},
	EcosystemHTML:   {".html", ".htm"},
}

// prunedDirs are dependency caches and build outputs never worth scanning.
var prunedDirs = map[string]bool{
	"node_modules": true,
	".next":        true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"coverage":     true,
	"vendor":       true,
}

// ParseEcosystem maps a user-supplied tag onto the closed enumeration,
// defaulting to plain markup.
func ParseEcosystem(tag string) Ecosystem {
	switch Ecosystem(strings.ToLower(strings.TrimSpace(tag))) {
	case EcosystemNextJS:
		return EcosystemNextJS
	case EcosystemReact:
		return EcosystemReact
	case EcosystemVue:
		return EcosystemVue
	default:
		return EcosystemHTML
	}
}

// DetectEcosystem inspects the project's package.json dependencies and file
// markers to classify its stack. Detection failure is not an error; the
// plain-markup fallback always works.
func DetectEcosystem(projectRoot string) Ecosystem {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return EcosystemHTML
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		logging.Logger.Warnw("unparseable package.json, assuming plain markup", "error", err)
		return EcosystemHTML
	}

	has := func(name string) bool {
		_, a := pkg.Dependencies[name]
		_, b := pkg.DevDependencies[name]
		return a || b
	}

	switch {
	case has("next"):
		return EcosystemNextJS
	case has("vue") || has("nuxt"):
		return EcosystemVue
	case has("react"):
		return EcosystemReact
	default:
		return EcosystemHTML
	}
}

// Resolve returns the ordered, de-duplicated list of candidate files for an
// audit of projectRoot. ignoreGlobs use doublestar syntax and are matched
// against root-relative paths. Unreadable directories are skipped; a
// project with no matching directories yields an empty set, not an error.
func Resolve(projectRoot string, eco Ecosystem, ignoreGlobs []string) []string {
	exts := ecosystemExtensions[eco]
	seen := make(map[string]bool)
	var files []string

	for _, dir := range ecosystemRoots[eco] {
		base := filepath.Join(projectRoot, dir)
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			continue
		}
		walk(base, 0, exts, func(path string) {
			rel, err := filepath.Rel(projectRoot, path)
			if err != nil {
				return
			}
			rel = filepath.ToSlash(rel)
			if seen[rel] || ignored(rel, ignoreGlobs) {
				return
			}
			seen[rel] = true
			files = append(files, rel)
		})
	}

	sort.Strings(files)
	return files
}

// walk recurses below dir up to maxDepth, pruning hidden entries and known
// cache/build directories. Read failures skip the directory, never abort.
func walk(dir string, depth int, exts []string, emit func(path string)) {
	if depth > maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Logger.Debugw("skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			if prunedDirs[name] {
				continue
			}
			walk(full, depth+1, exts, emit)
			continue
		}
		if matchesExtension(name, exts) {
			emit(full)
		}
	}
}

func matchesExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func ignored(rel string, globs []string) bool {
	for _, g := range globs {
		ok, err := doublestar.Match(g, rel)
		if err != nil {
			logging.Logger.Warnw("bad ignore glob", "glob", g, "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
