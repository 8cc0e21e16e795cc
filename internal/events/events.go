// Package events carries the store's event calendar and local attendance.
// The backend has no events endpoint; the catalog ships with the client and
// the attended set persists alongside the session so it survives restarts.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/novelia/novelia/internal/session"
)

// Event is one entry on the store calendar. Attendees is the advertised
// headcount before the local user joins.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	Venue       string
	Description string
	Attendees   int
}

// ErrAlreadyAttending is returned when the user joins an event twice.
var ErrAlreadyAttending = errors.New("already attending")

var catalog = []Event{
	{
		ID:          "event-1",
		Title:       "Author Meet & Greet",
		Date:        time.Date(2026, time.September, 12, 18, 0, 0, 0, time.UTC),
		Venue:       "Novelia Main Store",
		Description: "An evening with visiting authors, signings included.",
		Attendees:   42,
	},
	{
		ID:          "event-2",
		Title:       "Poetry Open Mic",
		Date:        time.Date(2026, time.September, 26, 19, 30, 0, 0, time.UTC),
		Venue:       "Novelia Reading Room",
		Description: "Bring your own verse or just listen.",
		Attendees:   27,
	},
	{
		ID:          "event-3",
		Title:       "Sci-Fi Book Club",
		Date:        time.Date(2026, time.October, 3, 17, 0, 0, 0, time.UTC),
		Venue:       "Novelia Annex",
		Description: "This month: first contact stories.",
		Attendees:   18,
	},
	{
		ID:          "event-4",
		Title:       "Children's Story Hour",
		Date:        time.Date(2026, time.October, 10, 11, 0, 0, 0, time.UTC),
		Venue:       "Novelia Main Store",
		Description: "Picture books read aloud, all ages welcome.",
		Attendees:   35,
	},
}

// Service answers catalog queries and records attendance through the
// session store.
type Service struct {
	sessions *session.Store
}

func NewService(sessions *session.Store) *Service {
	return &Service{sessions: sessions}
}

// List returns the calendar in date order. The returned slice is a copy.
func (s *Service) List() []Event {
	out := make([]Event, len(catalog))
	copy(out, catalog)
	return out
}

// Attend marks the event attended. Joining is one-way and once per event.
// Callers must hold a session before calling; the service does not check.
func (s *Service) Attend(id string) error {
	if !validID(id) {
		return fmt.Errorf("unknown event %q", id)
	}
	if s.sessions.IsAttending(id) {
		return ErrAlreadyAttending
	}
	return s.sessions.Attend(id)
}

// IsAttending reports whether the local user joined the event.
func (s *Service) IsAttending(id string) bool {
	return s.sessions.IsAttending(id)
}

// Headcount is the advertised attendee count plus one when the local
// user joined.
func (s *Service) Headcount(e Event) int {
	if s.sessions.IsAttending(e.ID) {
		return e.Attendees + 1
	}
	return e.Attendees
}

func validID(id string) bool {
	for _, e := range catalog {
		if e.ID == id {
			return true
		}
	}
	return false
}
