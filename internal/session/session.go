// Package session holds the client's persisted identity: an auth token and
// the current user's id. One Session is created at startup and injected into
// the REST transport and every view; nothing reads credentials from ambient
// globals.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials are the two values persisted between runs.
type Credentials struct {
	Token  string `json:"token" db:"token"`
	UserID string `json:"userId" db:"user_id"`
}

// Empty reports whether nothing is stored.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.UserID == ""
}

// ErrNoSession is returned by stores when nothing has been saved yet.
var ErrNoSession = errors.New("no stored session")

// Store persists credentials between runs.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// Identity is the read side of a Session that views depend on.
type Identity interface {
	UserID() string
	Authenticated() bool
}

// Event describes a lifecycle transition.
type Event int

const (
	EventLogin Event = iota + 1
	EventLogout
	EventExpired
)

func (e Event) String() string {
	switch e {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventExpired:
		return "expired"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Session is the in-memory view of the persisted credentials.
type Session struct {
	store Store
	now   func() time.Time

	mu        sync.RWMutex
	creds     Credentials
	expiresAt time.Time
	listeners []func(Event)
}

// New creates an empty session backed by store. Call Restore to load
// previously saved credentials.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store, now: time.Now}
}

// Restore loads credentials from the store. A missing session is not an error.
func (s *Session) Restore(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.mu.Lock()
	s.creds = creds
	s.expiresAt = tokenExpiry(creds.Token)
	s.mu.Unlock()
	return nil
}

// Login stores new credentials and notifies listeners.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	if creds.Token == "" || creds.UserID == "" {
		return errors.New("login requires both token and user id")
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	s.creds = creds
	s.expiresAt = tokenExpiry(creds.Token)
	s.mu.Unlock()
	s.emit(EventLogin)
	return nil
}

// Logout clears credentials after an explicit user action.
func (s *Session) Logout(ctx context.Context) error {
	return s.clear(ctx, EventLogout)
}

// Expire clears credentials after the server rejected them (HTTP 401).
func (s *Session) Expire(ctx context.Context) error {
	return s.clear(ctx, EventExpired)
}

func (s *Session) clear(ctx context.Context, ev Event) error {
	s.mu.Lock()
	s.creds = Credentials{}
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	err := s.store.Clear(ctx)
	s.emit(ev)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

// UserID returns the current user's id, or "" when logged out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.UserID
}

// Authenticated reports whether a token is held and, when the token is a
// JWT carrying an exp claim, whether it is still valid.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds.Token == "" || s.creds.UserID == "" {
		return false
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return false
	}
	return true
}

// ExpiresAt returns the token's exp claim if it has one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt, !s.expiresAt.IsZero()
}

// OnChange registers a listener for lifecycle events.
func (s *Session) OnChange(f func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, f)
	s.mu.Unlock()
}

func (s *Session) emit(ev Event) {
	s.mu.RLock()
	listeners := append([]func(Event){}, s.listeners...)
	s.mu.RUnlock()
	for _, f := range listeners {
		f(ev)
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server stays the authority, this only avoids sending a token we know is dead.
// Opaque (non-JWT) tokens have no client-side expiry.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
