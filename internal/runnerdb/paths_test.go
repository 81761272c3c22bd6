package runnerdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReturnsFirstExisting(t *testing.T) {
	existing := map[string]bool{"B": true}
	probe := func(path string) bool { return existing[path] }

	pr := NewPathResolver([]string{"A", "B", "C"}, probe)

	path, err := pr.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "B", path)

	// B disappears, A appears: the next resolution must pick A.
	existing["B"] = false
	existing["A"] = true

	path, err = pr.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "A", path)
}

func TestResolveFailsWhenNothingExists(t *testing.T) {
	pr := NewPathResolver([]string{"A", "B"}, func(string) bool { return false })

	_, err := pr.Resolve()
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestResolvePrefersEarlierCandidate(t *testing.T) {
	probe := func(string) bool { return true }
	pr := NewPathResolver([]string{"A", "B", "C"}, probe)

	path, err := pr.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "A", path)
}

func TestResolveWithDefaultProbe(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.wpersons")
	present := filepath.Join(dir, "present.wpersons")
	require.NoError(t, os.WriteFile(present, nil, 0644))

	pr := NewPathResolver([]string{missing, present}, nil)

	path, err := pr.Resolve()
	require.NoError(t, err)
	assert.Equal(t, present, path)
}
