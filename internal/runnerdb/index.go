package runnerdb

import "github.com/dvoa-timing/runnerdb/internal/record"

// Index is the in-memory index mapping normalized name keys to runners.
//
// It is rebuilt wholesale on every successful load and never persisted.
// Keys are not unique in the source file; a later slot with the same key
// overwrites the earlier one (last-write-wins) while keeping the position
// of the first occurrence, so iteration order stays the file order and is
// deterministic across queries.
type Index struct {
	byKey map[string]record.Runner
	keys  []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byKey: make(map[string]record.Runner)}
}

// Put inserts or overwrites the runner under its normalized key.
func (ix *Index) Put(r record.Runner) {
	key := r.Key()
	if _, ok := ix.byKey[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.byKey[key] = r
}

// Get returns the runner stored under key.
func (ix *Index) Get(key string) (record.Runner, bool) {
	r, ok := ix.byKey[key]
	return r, ok
}

// Len returns the number of indexed runners.
func (ix *Index) Len() int {
	return len(ix.byKey)
}

// Runners returns all runners in iteration order.
func (ix *Index) Runners() []record.Runner {
	out := make([]record.Runner, 0, len(ix.keys))
	for _, key := range ix.keys {
		out = append(out, ix.byKey[key])
	}
	return out
}
