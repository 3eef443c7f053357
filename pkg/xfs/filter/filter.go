// Package filter implements the name-matching collaborator the core
// decoder never depends on directly (see pkg/xfs.Matcher). It backs the
// `-P` pattern flag on the xfsrescue CLI.
package filter

import "github.com/gobwas/glob"

// Glob matches entry names against a single shell-glob pattern.
type Glob struct {
	g glob.Glob
}

// New compiles a glob pattern (e.g. "*.log", "config.*") into a Matcher.
func New(pattern string) (*Glob, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Glob{g: g}, nil
}

// Match reports whether name matches the compiled pattern.
func (m *Glob) Match(name string) bool {
	return m.g.Match(name)
}

// MatchAll is the zero-value Matcher that accepts every name; used when no
// -P flag was given.
type MatchAll struct{}

// Match always returns true.
func (MatchAll) Match(string) bool { return true }
