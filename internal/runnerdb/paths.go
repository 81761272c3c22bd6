package runnerdb

import (
	"fmt"
	"os"
)

// ProbeFunc reports whether a path currently exists. Injected so path
// resolution can be tested without touching the real filesystem.
type ProbeFunc func(path string) bool

// pathExists is the default probe (works for both files and directories).
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PathResolver picks the database file from an ordered candidate list.
type PathResolver struct {
	candidates []string
	probe      ProbeFunc
}

// NewPathResolver builds a resolver over candidates. A nil probe uses the
// real filesystem.
func NewPathResolver(candidates []string, probe ProbeFunc) *PathResolver {
	if probe == nil {
		probe = pathExists
	}
	return &PathResolver{candidates: candidates, probe: probe}
}

// Resolve returns the first candidate that currently exists. Resolution is
// repeated on every call, so a candidate created or removed between queries
// takes effect immediately.
func (pr *PathResolver) Resolve() (string, error) {
	for _, path := range pr.candidates {
		if pr.probe(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %d candidate paths", ErrNoDatabase, len(pr.candidates))
}

// Candidates returns the configured candidate list, for startup reporting.
func (pr *PathResolver) Candidates() []string {
	return pr.candidates
}
