package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoToken is returned by TokenStore.Load when the session has no token
var ErrNoToken = errors.New("no token stored for session")

// TokenStore persists the bearer token of each visitor session
type TokenStore interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Remove(ctx context.Context, sessionID string) error
}

type storedToken struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenStore keeps tokens in process memory
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]storedToken
	now    func() time.Time
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]storedToken),
		now:    time.Now,
	}
}

func (s *MemoryTokenStore) Load(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	stored, ok := s.tokens[sessionID]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNoToken
	}
	if !stored.expiresAt.IsZero() && s.now().After(stored.expiresAt) {
		_ = s.Remove(ctx, sessionID)
		return "", ErrNoToken
	}
	return stored.token, nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	stored := storedToken{token: token}
	if ttl > 0 {
		stored.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = stored
	return nil
}

func (s *MemoryTokenStore) Remove(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}

// Len returns the number of stored tokens
func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// RedisTokenStore keeps tokens in Redis with the token TTL as key expiry
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenStore creates a store on an existing client
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "session:token:"}
}

func (s *RedisTokenStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisTokenStore) Load(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Remove(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to remove session token: %w", err)
	}
	return nil
}
