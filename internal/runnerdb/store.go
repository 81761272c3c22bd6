package runnerdb

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dvoa-timing/runnerdb/internal/metrics"
	"github.com/dvoa-timing/runnerdb/internal/record"
)

// Stats describes the state of the store at query time.
type Stats struct {
	TotalRunners int
	FilePath     string
	LastModified time.Time
	LastChecked  time.Time
}

// Store owns the runner index and keeps it synchronized with the database
// file on disk. Every query re-resolves the path and reloads the file when
// its modification time is newer than the one recorded at the previous
// load.
//
// The store never writes or locks the database file; the timing software
// owns it and may rewrite it at any moment. Queries are serialized by a
// mutex so the refresh policy is the only mutator and the index is always
// swapped whole, never observed mid-update.
type Store struct {
	mu       sync.Mutex
	resolver *PathResolver
	log      *slog.Logger

	index   *Index
	path    string
	modTime time.Time
	loaded  bool
}

// NewStore builds a store over the given resolver. A nil logger discards
// nothing and uses slog's default.
func NewStore(resolver *PathResolver, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{resolver: resolver, log: log}
}

// Search returns ranked runners matching term, at most limit (default 50).
func (s *Store) Search(term string, limit int) ([]record.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return nil, err
	}
	metrics.SearchesTotal.Inc()
	return searchIndex(s.index, term, limit), nil
}

// AllRunners returns every indexed runner in index iteration order.
func (s *Store) AllRunners() ([]record.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s.index.Runners(), nil
}

// Stats returns index size and source file metadata.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalRunners: s.index.Len(),
		FilePath:     s.path,
		LastModified: s.modTime,
		LastChecked:  time.Now(),
	}, nil
}

// Refresh runs the staleness check outside of a query, e.g. from the file
// watcher. Errors follow the same scoping as queries: a failed attempt
// leaves the previous index intact.
func (s *Store) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh()
}

// refresh re-resolves the database path and reloads the file when it is
// stale or was never loaded. Callers must hold s.mu.
//
// A reload failure on a resolved path keeps the previous index (if any)
// authoritative and surfaces the error only for the triggering query.
func (s *Store) refresh() error {
	path, err := s.resolver.Resolve()
	if err != nil {
		return err
	}

	fi, err := os.Stat(path)
	if err != nil {
		metrics.ReloadFailuresTotal.Inc()
		return fmt.Errorf("stat %s: %w", path, err)
	}

	// Same file and not newer than the recorded mtime: serve the current
	// index untouched. A path change always reloads, even when the other
	// file's mtime is older.
	if s.loaded && path == s.path && !fi.ModTime().After(s.modTime) {
		return nil
	}

	idx, err := loadFile(path, s.log)
	if err != nil {
		metrics.ReloadFailuresTotal.Inc()
		s.log.Warn("reload failed, serving previous index", "path", path, "error", err)
		return fmt.Errorf("reload %s: %w", path, err)
	}

	s.index = idx
	s.path = path
	s.modTime = fi.ModTime()
	s.loaded = true
	metrics.ReloadsTotal.Inc()
	metrics.IndexSize.Set(float64(idx.Len()))
	return nil
}

// Resolver exposes the store's path resolver, for startup reporting and
// the file watcher.
func (s *Store) Resolver() *PathResolver {
	return s.resolver
}
