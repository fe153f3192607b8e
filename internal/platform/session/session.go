// Package session stores authenticated identities server side. The browser
// only ever holds an opaque token; everything it maps to lives here.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found or expired")

// Identity is the authenticated principal a session resolves to.
type Identity struct {
	UserID   int64
	Username string
}

type Store interface {
	// Create registers a new session for the identity and returns its token.
	Create(ctx context.Context, id Identity) (string, error)
	// Get resolves a token back to its identity, or ErrNotFound.
	Get(ctx context.Context, token string) (Identity, error)
	// Destroy invalidates the token. Destroying an unknown token is a no-op.
	Destroy(ctx context.Context, token string) error
	Close() error
}

type memoryEntry struct {
	identity Identity
	expires  time.Time
}

// MemoryStore is the default Store when no Redis address is configured. Good
// enough for a single process; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{identity: id, expires: time.Now().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return Identity{}, ErrNotFound
	}
	if time.Now().After(entry.expires) {
		delete(s.sessions, token)
		return Identity{}, ErrNotFound
	}
	return entry.identity, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
