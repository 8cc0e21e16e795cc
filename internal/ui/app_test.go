package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/session"
	"github.com/novelia/novelia/internal/state"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	sessions, err := session.Open(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}

	m := New(Options{
		Catalog:  state.NewStore(),
		Sessions: sessions,
		Gate:     session.NewGate(sessions),
	})
	m.ready = true
	m.width = 120
	m.height = 40
	return m
}

func applyMsg(t *testing.T, m Model, msg interface{}) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next
}

func TestCatalogMsg_InstallsBooks(t *testing.T) {
	m := newTestModel(t)
	gen := m.catalog.Begin(api.Filter{})

	m = applyMsg(t, m, catalogMsg{gen: gen, books: []api.Book{{ID: 1, Title: "Dune"}}})

	if len(m.snapshot.Books) != 1 || m.snapshot.Books[0].Title != "Dune" {
		t.Fatalf("snapshot = %+v, want one book Dune", m.snapshot.Books)
	}
}

func TestCatalogMsg_StaleGenerationDropped(t *testing.T) {
	m := newTestModel(t)

	stale := m.catalog.Begin(api.Filter{Search: "old"})
	fresh := m.catalog.Begin(api.Filter{Search: "new"})

	m = applyMsg(t, m, catalogMsg{gen: fresh, books: []api.Book{{ID: 2, Title: "Fresh"}}})
	m = applyMsg(t, m, catalogMsg{gen: stale, books: []api.Book{{ID: 1, Title: "Stale"}}})

	if len(m.snapshot.Books) != 1 || m.snapshot.Books[0].Title != "Fresh" {
		t.Fatalf("stale response overwrote the fresh one: %+v", m.snapshot.Books)
	}
}

func TestCatalogMsg_ErrorKeepsPriorBooks(t *testing.T) {
	m := newTestModel(t)

	gen := m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, books: []api.Book{{ID: 1, Title: "Kept"}}})

	gen = m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, err: fmt.Errorf("GET /books/: %w", api.ErrUnreachable)})

	if len(m.snapshot.Books) != 1 || m.snapshot.Books[0].Title != "Kept" {
		t.Fatalf("error refresh dropped prior records: %+v", m.snapshot.Books)
	}
	if !m.noticeErr {
		t.Fatalf("expected an error notice after a failed refresh")
	}
}

func TestUnauthorized_ClearsSessionAndForcesLogin(t *testing.T) {
	m := newTestModel(t)
	if err := m.sessions.Set(session.Session{Token: "tok", User: api.User{Email: "a@b.c"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	gen := m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, err: fmt.Errorf("GET /books/: %w", api.ErrUnauthorized)})

	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %v, want ViewLogin", m.currentView)
	}
	if _, ok := m.sessions.Get(); ok {
		t.Fatalf("session survived an unauthorized response")
	}
}

func TestEnterProtected_GuestRedirectsToLogin(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.enterProtected(ViewProfile, false)
	m = updated.(Model)

	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %v, want ViewLogin", m.currentView)
	}
	if m.pendingView != ViewProfile {
		t.Fatalf("pendingView = %v, want ViewProfile", m.pendingView)
	}
}

func TestEnterProtected_MemberBlockedFromAdmin(t *testing.T) {
	m := newTestModel(t)
	if err := m.sessions.Set(session.Session{Token: "tok", User: api.User{Email: "a@b.c"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	updated, _ := m.enterProtected(ViewAdmin, true)
	m = updated.(Model)

	if m.currentView == ViewAdmin {
		t.Fatalf("non-admin reached the admin view")
	}
	if !m.noticeErr {
		t.Fatalf("expected a forbidden notice")
	}
}

func TestInstallSession_ResumesPendingView(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewLogin
	m.pendingView = ViewEvents

	updated, _ := m.installSession(api.Credentials{
		Token: "tok",
		User:  api.User{Email: "a@b.c", FirstName: "Ada"},
	}, "Welcome back")
	m = updated.(Model)

	if m.currentView != ViewEvents {
		t.Fatalf("currentView = %v, want ViewEvents", m.currentView)
	}
	if _, ok := m.sessions.Get(); !ok {
		t.Fatalf("session was not persisted")
	}
}

func TestRenderBrowse_FailedFirstFetchShowsError(t *testing.T) {
	m := newTestModel(t)
	gen := m.catalog.Begin(api.Filter{})

	m = applyMsg(t, m, catalogMsg{gen: gen, err: api.ErrUnreachable})

	out := m.renderBrowse()
	if !strings.Contains(out, "Could not load the catalog") {
		t.Fatalf("renderBrowse after failed first fetch = %q, want the error panel", out)
	}
	if strings.Contains(out, "Loading catalog") {
		t.Fatalf("renderBrowse still shows the loading text after a failure")
	}
	if !strings.Contains(out, "Press r to retry") {
		t.Fatalf("error panel is missing the retry hint")
	}
}

func TestRenderBrowse_LaterErrorKeepsGridVisible(t *testing.T) {
	m := newTestModel(t)

	gen := m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, books: []api.Book{{ID: 1, Title: "Dune", Author: "Herbert"}}})

	gen = m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, err: api.ErrUnreachable})

	out := m.renderBrowse()
	if !strings.Contains(out, "Dune") {
		t.Fatalf("a refresh failure hid the previously loaded grid")
	}
	if strings.Contains(out, "Could not load the catalog") {
		t.Fatalf("error panel shown while prior records are still displayable")
	}
}

func TestKeyBindings_DriveViewSwitching(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, keyPress('v'))
	if m.currentView != ViewEvents {
		t.Fatalf("after 'v' currentView = %v, want ViewEvents", m.currentView)
	}

	m = applyMsg(t, m, keyPress('b'))
	if m.currentView != ViewBrowse {
		t.Fatalf("after 'b' currentView = %v, want ViewBrowse", m.currentView)
	}

	m = applyMsg(t, m, keyPress('?'))
	if !m.showHelp {
		t.Fatalf("'?' did not open the help overlay")
	}
}

func TestHelpOverlay_ReflectsBindings(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, keyPress('?'))

	out := m.renderHelp()
	for _, binding := range []string{"Cycle genre", "Delete book", "Cycle theme"} {
		if !strings.Contains(out, binding) {
			t.Fatalf("help overlay is missing %q", binding)
		}
	}
}

func TestNew_MarksFirstRefreshInFlight(t *testing.T) {
	m := newTestModel(t)
	if !m.refreshing {
		t.Fatalf("a fresh model does not report the initial refresh")
	}

	gen := m.catalog.Begin(api.Filter{})
	m = applyMsg(t, m, catalogMsg{gen: gen, books: nil})
	if m.refreshing {
		t.Fatalf("refreshing still set after the result arrived")
	}
}

func TestEnterProtected_ProfileRefreshesAccount(t *testing.T) {
	m := newTestModel(t)
	if err := m.sessions.Set(session.Session{Token: "tok", User: api.User{Email: "a@b.c"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	updated, cmd := m.Update(keyPress('u'))
	m = updated.(Model)

	if m.currentView != ViewProfile {
		t.Fatalf("currentView = %v, want ViewProfile", m.currentView)
	}
	if cmd == nil {
		t.Fatalf("entering the profile view did not start a profile fetch")
	}
}

func TestProfileMsg_RefreshesCachedUser(t *testing.T) {
	m := newTestModel(t)
	if err := m.sessions.Set(session.Session{Token: "tok", User: api.User{Email: "a@b.c", FirstName: "Old"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	m = applyMsg(t, m, profileMsg{user: api.User{Email: "a@b.c", FirstName: "New", City: "London"}})

	sess, ok := m.sessions.Get()
	if !ok {
		t.Fatalf("session disappeared after a profile refresh")
	}
	if sess.User.FirstName != "New" || sess.User.City != "London" {
		t.Fatalf("cached user = %#v, want the refreshed profile", sess.User)
	}
}

func TestProfileMsg_UnauthorizedTearsDownSession(t *testing.T) {
	m := newTestModel(t)
	if err := m.sessions.Set(session.Session{Token: "tok", User: api.User{Email: "a@b.c"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	m = applyMsg(t, m, profileMsg{err: fmt.Errorf("profile: %w", api.ErrUnauthorized)})

	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %v, want ViewLogin", m.currentView)
	}
	if _, ok := m.sessions.Get(); ok {
		t.Fatalf("session survived a revoked token")
	}
}
