package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobportal-web/internal/logging"
)

// ErrInvalidToken is returned by Login when the token payload cannot be decoded
var ErrInvalidToken = errors.New("invalid session token")

// Session is the auth context of one visitor.
//
// It is created per session id, initialized once from the token store and
// then only changed by Login and Logout.
type Session struct {
	id         string
	store      TokenStore
	logger     logging.Logger
	defaultTTL time.Duration

	initOnce sync.Once

	mu    sync.RWMutex
	ready bool
	user  *Identity
	token string
}

// New creates an uninitialized session
func New(id string, store TokenStore, logger logging.Logger) *Session {
	return &Session{
		id:         id,
		store:      store,
		logger:     logger.WithField("session_id", id),
		defaultTTL: 24 * time.Hour,
	}
}

// WithDefaultTTL sets the storage TTL used for tokens without an exp claim
func (s *Session) WithDefaultTTL(ttl time.Duration) *Session {
	s.defaultTTL = ttl
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Initialize restores the identity from the stored token. It runs once;
// later calls return immediately. The session is ready afterwards whether
// or not a usable token was found.
func (s *Session) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		token, err := s.store.Load(ctx, s.id)
		if err != nil && !errors.Is(err, ErrNoToken) {
			s.logger.Warn("Failed to load session token", map[string]interface{}{
				"error": err.Error(),
			})
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.ready = true

		if token == "" {
			return
		}

		claims, ok := Decode(token)
		if !ok {
			s.logger.Debug("Stored token did not decode")
			return
		}

		identity := claims.Identity()
		s.user = &identity
		s.token = token
	})
}

// Ready reports whether Initialize has completed
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// CurrentUser returns the signed-in identity, or nil
func (s *Session) CurrentUser() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	identity := *s.user
	return &identity
}

// Token returns the bearer token of the signed-in user, or ""
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login stores the token and sets the identity it carries
func (s *Session) Login(ctx context.Context, token string) (*Identity, error) {
	claims, ok := Decode(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	ttl := claims.ExpiresIn(time.Now())
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	if err := s.store.Save(ctx, s.id, token, ttl); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}

	identity := claims.Identity()

	s.mu.Lock()
	s.user = &identity
	s.token = token
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("User signed in", map[string]interface{}{
		"user_id": identity.ID,
		"role":    string(identity.Role),
	})

	result := identity
	return &result, nil
}

// Logout removes the stored token and clears the identity. The identity is
// cleared even when the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Remove(ctx, s.id); err != nil {
		return fmt.Errorf("failed to remove session token: %w", err)
	}

	s.logger.Info("User signed out")
	return nil
}
