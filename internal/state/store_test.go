package state

import (
	"errors"
	"testing"

	"github.com/novelia/novelia/internal/api"
)

func book(id int64, title string) api.Book {
	return api.Book{ID: id, Title: title}
}

func TestStore_AppliesCurrentGeneration(t *testing.T) {
	store := &Store{}

	gen := store.Begin(api.Filter{})
	if !store.Apply(gen, []api.Book{book(1, "A")}, nil) {
		t.Fatalf("Apply with current generation returned false")
	}

	snap := store.Snapshot()
	if !snap.Fetched || len(snap.Books) != 1 || snap.Books[0].ID != 1 {
		t.Fatalf("snapshot = %#v, want fetched single book id=1", snap)
	}
}

func TestStore_StaleResponseIsDroppedWhole(t *testing.T) {
	store := &Store{}

	first := store.Begin(api.Filter{Search: "old"})
	second := store.Begin(api.Filter{Search: "new"})

	// The refresh issued last resolves first.
	if !store.Apply(second, []api.Book{book(2, "New")}, nil) {
		t.Fatalf("Apply for the latest generation returned false")
	}
	// The older refresh arrives late and must be ignored.
	if store.Apply(first, []api.Book{book(1, "Old")}, nil) {
		t.Fatalf("Apply accepted a stale generation")
	}

	snap := store.Snapshot()
	if len(snap.Books) != 1 || snap.Books[0].ID != 2 {
		t.Fatalf("snapshot books = %#v, want only the latest fetch's records", snap.Books)
	}
	if snap.Filter.Search != "new" {
		t.Fatalf("snapshot filter = %q, want filter of the latest Begin", snap.Filter.Search)
	}
}

func TestStore_ErrorKeepsPreviousRecords(t *testing.T) {
	store := &Store{}

	gen := store.Begin(api.Filter{})
	store.Apply(gen, []api.Book{book(1, "A"), book(2, "B")}, nil)

	gen = store.Begin(api.Filter{})
	fetchErr := errors.New("backend unreachable")
	if !store.Apply(gen, nil, fetchErr) {
		t.Fatalf("Apply with error returned false")
	}

	snap := store.Snapshot()
	if len(snap.Books) != 2 {
		t.Fatalf("books = %d, want previous records kept on error", len(snap.Books))
	}
	if !errors.Is(snap.LastError, fetchErr) {
		t.Fatalf("LastError = %v, want recorded fetch error", snap.LastError)
	}
	if snap.Empty() {
		t.Fatalf("Empty() = true on error, want the error state to stay distinct")
	}
}

func TestStore_EmptyIsDistinctFromError(t *testing.T) {
	store := &Store{}

	if store.Snapshot().Empty() {
		t.Fatalf("Empty() = true before any fetch")
	}

	gen := store.Begin(api.Filter{})
	store.Apply(gen, nil, nil)

	snap := store.Snapshot()
	if !snap.Empty() {
		t.Fatalf("Empty() = false after an empty successful fetch")
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil after success", snap.LastError)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := &Store{}
	gen := store.Begin(api.Filter{})
	store.Apply(gen, []api.Book{book(1, "A")}, nil)

	snap := store.Snapshot()
	snap.Books[0].Title = "mutated"

	if store.Snapshot().Books[0].Title != "A" {
		t.Fatalf("mutating a snapshot leaked into the store")
	}
}
