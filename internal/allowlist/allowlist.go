// Package allowlist decides which file extensions protect a file from being
// swept. Matching is case-insensitive and ignores the leading dot.
package allowlist

import (
	"path/filepath"
	"strings"

	"desktop-cleaner/internal/errors"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// AllowList is an ordered, deduplicated set of extension patterns.
type AllowList struct {
	entries  []string
	patterns []glob.Glob
}

// Normalize lower-cases entries, strips a leading dot, drops blanks and
// duplicates while keeping first-seen order.
func Normalize(extensions []string) []string {
	cleaned := lo.Map(extensions, func(ext string, _ int) string {
		return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	})
	return lo.Uniq(lo.Compact(cleaned))
}

// New compiles the given extensions. Entries may contain glob wildcards
// ("htm*"); plain entries only match themselves.
func New(extensions []string) (*AllowList, error) {
	entries := Normalize(extensions)
	patterns := make([]glob.Glob, 0, len(entries))

	for _, entry := range entries {
		g, err := glob.Compile(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid extension pattern %q", entry)
		}
		patterns = append(patterns, g)
	}

	return &AllowList{entries: entries, patterns: patterns}, nil
}

// Entries returns a copy of the normalized entries.
func (a *AllowList) Entries() []string {
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// MatchExtension reports whether ext (with or without its dot) is allowed.
// An empty extension never matches.
func (a *AllowList) MatchExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return false
	}
	for _, p := range a.patterns {
		if p.Match(ext) {
			return true
		}
	}
	return false
}

// Protects reports whether the file at path keeps its place on the Desktop.
func (a *AllowList) Protects(path string) bool {
	return a.MatchExtension(Extension(path))
}

// Extension returns the extension of path without the leading dot. A name
// whose only dot is the first character (".profile") has no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
