// Package session holds the client's authentication state: the current
// bearer token and user identity, persisted across runs and attached to
// outgoing requests.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/claude/replog/internal/models"
)

// Store is the single source of truth for "is this client authenticated,
// and as whom". It is constructor-injected into whatever issues HTTP calls;
// Login and Logout are the only mutation paths, so the user identity is
// present exactly when the token is non-empty.
//
// A nil StateDB is legal: the store then runs in-memory only. Persistence
// failures after construction are logged and otherwise ignored, so an
// unavailable state dir degrades the session to the lifetime of the process
// instead of failing it.
type Store struct {
	db  *StateDB
	log *slog.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewStore creates a Store backed by db. db may be nil for an
// in-memory-only session.
func NewStore(db *StateDB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Restore loads the persisted session, if any. Absent or malformed data
// yields the unauthenticated state; Restore never fails.
func (s *Store) Restore() {
	if s.db == nil {
		return
	}

	token, ok, err := s.db.get(keyToken)
	if err != nil || !ok || token == "" {
		if err != nil {
			s.log.Warn("session restore failed, starting logged out", "error", err)
		}
		return
	}

	rawUser, ok, err := s.db.get(keyUser)
	if err != nil || !ok {
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		// A token without a parseable identity is treated as no session.
		s.log.Warn("stored user identity is malformed, starting logged out", "error", err)
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
}

// Login records a new session. The in-memory state updates synchronously so
// every subsequent read observes it; persistence is best-effort. An empty
// token is ignored.
func (s *Store) Login(token string, user models.User) {
	if token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err == nil {
		err = s.db.put(keyToken, token)
	}
	if err == nil {
		err = s.db.put(keyUser, string(raw))
	}
	if err != nil {
		s.log.Warn("session not persisted, will last for this run only", "error", err)
	}
}

// Logout clears the session unconditionally. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	if err := s.db.clear(); err != nil {
		s.log.Warn("clearing persisted session failed", "error", err)
	}
}

// Attach sets the Authorization header on req when a token is present.
// Without a session the request is left untouched.
func (s *Store) Attach(req *http.Request) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Token returns the current token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current identity and whether a session exists.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a session exists.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
