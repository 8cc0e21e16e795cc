package session

import (
	"errors"
	"fmt"

	"github.com/novelia/novelia/internal/api"
)

// ErrNoSession means no token is stored; the caller must route the user to
// the login view before any protected work runs.
var ErrNoSession = errors.New("not signed in")

// Gate enforces the authentication and role checks ahead of protected
// operations, and centralizes the one cross-cutting rule: an Unauthorized
// response observed anywhere destroys the session.
type Gate struct {
	store *Store
}

// NewGate wraps a session store.
func NewGate(store *Store) *Gate {
	return &Gate{store: store}
}

// Require returns the current session, or ErrNoSession when there is none.
// With admin set, a session whose cached profile lacks the staff role fails
// with api.ErrForbidden instead.
func (g *Gate) Require(admin bool) (Session, error) {
	sess, ok := g.store.Get()
	if !ok {
		return Session{}, ErrNoSession
	}
	if admin && !sess.User.IsAdmin() {
		return Session{}, fmt.Errorf("admin role required: %w", api.ErrForbidden)
	}
	return sess, nil
}

// Invalidate clears stored credentials when err is an Unauthorized failure
// and reports whether it did. Components funnel every backend error through
// here so an expired token forces re-login no matter where it surfaces.
func (g *Gate) Invalidate(err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	_ = g.store.Clear()
	return true
}
