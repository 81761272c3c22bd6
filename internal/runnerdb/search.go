package runnerdb

import (
	"sort"
	"strings"

	"github.com/dvoa-timing/runnerdb/internal/record"
)

// DefaultSearchLimit is used when a caller passes a non-positive limit.
const DefaultSearchLimit = 50

// minTermLen is the shortest normalized term that produces any matches.
const minTermLen = 2

const (
	scoreExactFull   = 100
	scorePrefixFull  = 50
	scorePrefixLast  = 30
	scorePrefixFirst = 20
	scoreSubstring   = 10
)

// searchIndex ranks runners matching term, returning at most limit results.
//
// The scan walks the index in iteration order and stops collecting once
// limit candidates are found; only those candidates are then sorted by
// descending score, ties keeping scan order. A higher-scoring runner later
// in the scan can therefore be missed — that matches the behavior of the
// software this replaces and is pinned by tests.
func searchIndex(idx *Index, term string, limit int) []record.Runner {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < minTermLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	type scored struct {
		runner record.Runner
		score  int
	}

	var candidates []scored
	for _, r := range idx.Runners() {
		s := scoreRunner(r, term)
		if s == 0 {
			continue
		}
		candidates = append(candidates, scored{runner: r, score: s})
		if len(candidates) == limit {
			break
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	results := make([]record.Runner, len(candidates))
	for i, c := range candidates {
		results[i] = c.runner
	}
	return results
}

// scoreRunner returns the match score of r for the normalized term, or 0
// when r does not match.
func scoreRunner(r record.Runner, term string) int {
	first := strings.ToLower(r.FirstName)
	last := strings.ToLower(r.LastName)
	full := first + " " + last

	switch {
	case full == term:
		return scoreExactFull
	case strings.HasPrefix(full, term):
		return scorePrefixFull
	case strings.HasPrefix(last, term):
		return scorePrefixLast
	case strings.HasPrefix(first, term):
		return scorePrefixFirst
	case strings.Contains(first, term) || strings.Contains(last, term) || strings.Contains(full, term):
		return scoreSubstring
	default:
		return 0
	}
}
