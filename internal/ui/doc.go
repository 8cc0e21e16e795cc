// Package ui implements the Novelia terminal interface on Bubble Tea.
//
// The Model is a single-threaded event loop: keyboard input and command
// results arrive as messages, and all state changes happen in Update. Slow
// work (catalog fetches, auth calls, uploads, downloads) runs in commands
// off the loop and reports back with a message.
//
// Catalog refreshes are generation-stamped through state.Store: each
// refresh begins a new generation and the result message carries it, so a
// late response for a superseded filter is dropped whole instead of
// overwriting newer records.
//
// Views needing a session (admin, profile, downloads, event attendance)
// pass through session.Gate first; a guest is redirected to the sign-in
// form and returned to the interrupted view after authenticating. An
// unauthorized response from any command clears the stored session and
// forces the sign-in view.
package ui
