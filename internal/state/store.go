package state

import (
	"sync"
	"time"

	"github.com/novelia/novelia/internal/api"
)

// Snapshot is the latest listing data available to the UI.
type Snapshot struct {
	Books     []api.Book
	Filter    api.Filter
	Fetched   bool
	FetchedAt time.Time
	LastError error
}

// Empty reports whether a successful fetch returned no records. This is a
// distinct display state from LastError being set.
func (s Snapshot) Empty() bool {
	return s.Fetched && s.LastError == nil && len(s.Books) == 0
}

// Store coordinates listing refreshes. Every refresh is stamped with a
// generation; only results for the most recently issued generation may
// update the snapshot. Responses that arrive out of order are dropped
// whole, so the grid never shows a mix of two fetches' records.
type Store struct {
	mu       sync.RWMutex
	gen      uint64
	snapshot Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin stamps a new refresh for the given filter and returns its
// generation. The caller passes the generation back to Apply.
func (s *Store) Begin(filter api.Filter) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.snapshot.Filter = filter
	return s.gen
}

// Apply installs the result of the refresh stamped gen. A stale generation
// is ignored and Apply reports false. On error the previous records are
// kept but the error is recorded for display.
func (s *Store) Apply(gen uint64, books []api.Book, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.FetchedAt = time.Now()
		return true
	}

	s.snapshot.Books = cloneBooks(books)
	s.snapshot.Fetched = true
	s.snapshot.LastError = nil
	s.snapshot.FetchedAt = time.Now()
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	return snap
}

func cloneBooks(books []api.Book) []api.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]api.Book, len(books))
	copy(dup, books)
	return dup
}
