package runnerdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoa-timing/runnerdb/internal/record"
)

func writeRunners(t *testing.T, path string, runners ...record.Runner) {
	t.Helper()

	data := record.EncodeHeader()
	for _, r := range runners {
		data = append(data, record.Encode(r)...)
	}
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func newTestStore(t *testing.T, candidates ...string) *Store {
	t.Helper()
	return NewStore(NewPathResolver(candidates, nil), discardLogger())
}

func TestStoreServesLoadedIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.wpersons")
	writeRunners(t, path,
		record.Runner{FirstName: "Jane", LastName: "Doe", ExternalID: 1},
		record.Runner{FirstName: "John", LastName: "Smith", ExternalID: 2},
	)

	store := newTestStore(t, path)

	runners, err := store.AllRunners()
	require.NoError(t, err)
	require.Len(t, runners, 2)
	assert.Equal(t, "Jane Doe", runners[0].FullName())

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRunners)
	assert.Equal(t, path, stats.FilePath)
	assert.False(t, stats.LastModified.IsZero())
	assert.WithinDuration(t, time.Now(), stats.LastChecked, time.Minute)
}

func TestStoreCacheHitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.wpersons")
	writeRunners(t, path, record.Runner{FirstName: "Jane", LastName: "Doe"})

	store := newTestStore(t, path)

	first, err := store.Stats()
	require.NoError(t, err)
	second, err := store.Stats()
	require.NoError(t, err)

	assert.Equal(t, first.TotalRunners, second.TotalRunners)
	assert.True(t, first.LastModified.Equal(second.LastModified))

	// Unchanged mtime means the file is not re-read, even if its bytes
	// changed underneath: mtime is the sole staleness signal.
	writeRunners(t, path,
		record.Runner{FirstName: "Jane", LastName: "Doe"},
		record.Runner{FirstName: "New", LastName: "Comer"},
	)
	require.NoError(t, os.Chtimes(path, first.LastModified, first.LastModified))

	third, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, first.TotalRunners, third.TotalRunners)
}

func TestStoreReloadsOnNewerModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.wpersons")
	writeRunners(t, path,
		record.Runner{FirstName: "Jane", LastName: "Doe"},
		record.Runner{FirstName: "Old", LastName: "Timer"},
	)

	store := newTestStore(t, path)

	runners, err := store.AllRunners()
	require.NoError(t, err)
	require.Len(t, runners, 2)

	// Full rewrite: the new index must reflect exactly the new content,
	// not a union of old and new.
	writeRunners(t, path, record.Runner{FirstName: "New", LastName: "Comer"})
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	runners, err = store.AllRunners()
	require.NoError(t, err)
	require.Len(t, runners, 1)
	assert.Equal(t, "New Comer", runners[0].FullName())
}

func TestStoreSourceUnavailableUntilFileAppears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.wpersons")
	store := newTestStore(t, path)

	_, err := store.AllRunners()
	require.ErrorIs(t, err, ErrNoDatabase)

	// Resolution is retried per query, so the store recovers as soon as a
	// candidate shows up.
	writeRunners(t, path, record.Runner{FirstName: "Jane", LastName: "Doe"})

	runners, err := store.AllRunners()
	require.NoError(t, err)
	assert.Len(t, runners, 1)
}

func TestStorePathFallbackSwitchesFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.wpersons")
	pathB := filepath.Join(dir, "b.wpersons")
	writeRunners(t, pathB, record.Runner{FirstName: "From", LastName: "B"})

	store := newTestStore(t, pathA, pathB)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, pathB, stats.FilePath)

	// A higher-priority candidate appearing switches the source even if
	// its mtime is older.
	writeRunners(t, pathA, record.Runner{FirstName: "From", LastName: "A"})
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(pathA, past, past))

	runners, err := store.AllRunners()
	require.NoError(t, err)
	require.Len(t, runners, 1)
	assert.Equal(t, "From A", runners[0].FullName())
}

func TestStoreFailedReloadKeepsPreviousIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.wpersons")
	writeRunners(t, path, record.Runner{FirstName: "Jane", LastName: "Doe"})

	store := newTestStore(t, path)
	_, err := store.AllRunners()
	require.NoError(t, err)

	// Replace the file with a directory: resolution and stat succeed but
	// the read fails, scoped to this query.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))
	dirFuture := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, dirFuture, dirFuture))

	_, err = store.AllRunners()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoDatabase)

	// Once the file is back the store recovers, still holding state from
	// before the failure.
	require.NoError(t, os.Remove(path))
	writeRunners(t, path, record.Runner{FirstName: "Jane", LastName: "Doe"})
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	runners, err := store.AllRunners()
	require.NoError(t, err)
	assert.Len(t, runners, 1)
}

func TestStoreSearchAppliesDefaultLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.wpersons")
	writeRunners(t, path,
		record.Runner{FirstName: "John", LastName: "Smith"},
		record.Runner{FirstName: "Johnny", LastName: "Appleseed"},
	)

	store := newTestStore(t, path)

	results, err := store.Search("john", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = store.Search("j", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
