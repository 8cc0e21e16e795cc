// Package session owns the authenticated identity for the running client:
// the opaque backend token, the cached user profile, and the locally tracked
// event-attendance set. The store is the single writer of this state; every
// other component reads through it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/novelia/novelia/internal/api"
)

// Session is the authenticated identity and role context for this client.
type Session struct {
	Token string
	User  api.User
}

const defaultSessionPath = "~/.config/novelia/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Store persists the session across runs. Reads are concurrent; writes
// happen only at login, logout, and event RSVP, so a single RWMutex is
// plenty.
type Store struct {
	mu   sync.RWMutex
	path string
	data fileData
}

type fileData struct {
	Token          string     `toml:"token"`
	User           userRecord `toml:"user"`
	AttendedEvents []string   `toml:"attended_events"`
}

// userRecord is the on-disk shape of the cached profile.
type userRecord struct {
	ID          int64  `toml:"id"`
	Email       string `toml:"email"`
	Username    string `toml:"username"`
	FirstName   string `toml:"first_name"`
	LastName    string `toml:"last_name"`
	PhoneNumber string `toml:"phone_number"`
	State       string `toml:"state"`
	City        string `toml:"city"`
	DateJoined  string `toml:"date_joined"`
	IsSuperuser bool   `toml:"is_superuser"`
	IsStaff     bool   `toml:"is_staff"`
}

func toRecord(u api.User) userRecord {
	return userRecord(u)
}

func (r userRecord) toUser() api.User {
	return api.User(r)
}

// Open loads the session file at path, tolerating a missing or unreadable
// file (the client simply starts signed out).
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}

	store := &Store{path: resolved}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, nil // unreadable session means signed out, not fatal
	}
	if err := toml.Unmarshal(bytes, &store.data); err != nil {
		// A corrupt session file is discarded rather than crashing the app.
		store.data = fileData{}
	}
	return store, nil
}

// Get returns the current session. ok is false when no token is stored.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.Token == "" {
		return Session{}, false
	}
	return Session{Token: s.data.Token, User: s.data.User.toUser()}, true
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// Set installs a new session and persists it.
func (s *Store) Set(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Token = sess.Token
	s.data.User = toRecord(sess.User)
	return s.save()
}

// Clear destroys the stored credentials and cached profile. The attendance
// set survives: it belongs to the machine, not the account.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Token = ""
	s.data.User = userRecord{}
	return s.save()
}

// Attend records attendance for an event id. Idempotent.
func (s *Store) Attend(eventID string) error {
	id := strings.TrimSpace(eventID)
	if id == "" {
		return fmt.Errorf("event id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.AttendedEvents {
		if existing == id {
			return nil
		}
	}
	s.data.AttendedEvents = append(s.data.AttendedEvents, id)
	return s.save()
}

// IsAttending reports whether the event id is in the local attendance set.
func (s *Store) IsAttending(eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.data.AttendedEvents {
		if existing == eventID {
			return true
		}
	}
	return false
}

// save writes the file; callers hold the write lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultSessionPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
