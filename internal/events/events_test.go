package events

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novelia/novelia/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)
	return NewService(store)
}

func TestList_ReturnsCopy(t *testing.T) {
	svc := newTestService(t)

	first := svc.List()
	require.NotEmpty(t, first)
	first[0].Title = "mutated"

	require.NotEqual(t, "mutated", svc.List()[0].Title)
}

func TestAttend_OncePerEvent(t *testing.T) {
	svc := newTestService(t)
	id := svc.List()[0].ID

	require.False(t, svc.IsAttending(id))
	require.NoError(t, svc.Attend(id))
	require.True(t, svc.IsAttending(id))

	require.ErrorIs(t, svc.Attend(id), ErrAlreadyAttending)
}

func TestAttend_UnknownEvent(t *testing.T) {
	svc := newTestService(t)
	require.Error(t, svc.Attend("event-999"))
}

func TestHeadcount_AddsLocalAttendee(t *testing.T) {
	svc := newTestService(t)
	event := svc.List()[0]

	require.Equal(t, event.Attendees, svc.Headcount(event))
	require.NoError(t, svc.Attend(event.ID))
	require.Equal(t, event.Attendees+1, svc.Headcount(event))
}

func TestAttendance_SurvivesSignOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store, err := session.Open(path)
	require.NoError(t, err)
	svc := NewService(store)

	id := svc.List()[1].ID
	require.NoError(t, svc.Attend(id))
	require.NoError(t, store.Clear())
	require.True(t, svc.IsAttending(id))

	reopened, err := session.Open(path)
	require.NoError(t, err)
	require.True(t, NewService(reopened).IsAttending(id))
}
