// Package state provides the shared listing snapshot and the stale-response
// guard that keeps rapid refreshes from corrupting the visible grid.
//
// # Refresh Protocol
//
//	gen := store.Begin(filter)   // stamp the request before issuing it
//	books, err := client.ListBooks(ctx, filter)
//	store.Apply(gen, books, err) // dropped whole if a newer Begin happened
//
// Two refreshes issued in rapid succession may resolve in either order; the
// generation check guarantees the snapshot always reflects the refresh that
// was issued last, never the one that merely arrived last, and never a mix
// of the two.
//
// # Error Semantics
//
// Apply with a non-nil error keeps the previous records and records the
// error, so the UI can keep showing the last good data alongside a failure
// message. An empty successful fetch is a distinct state (Snapshot.Empty)
// from a failed one.
//
// # Concurrency
//
// The store is a plain RWMutex snapshot container in the single-writer,
// many-reader style; snapshots are returned as defensive copies.
package state
