package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Tokens is the credential pair the API hands out on login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func (t Tokens) Empty() bool { return t.AccessToken == "" && t.RefreshToken == "" }

type Store interface {
	Get(ctx context.Context, id string) (Tokens, error)
	Put(ctx context.Context, id string, t Tokens, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	tokens  Tokens
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return Tokens{}, ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.items, id)
		return Tokens{}, ErrNotFound
	}
	return e.tokens, nil
}

func (m *MemoryStore) Put(_ context.Context, id string, t Tokens, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{tokens: t}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.items[id] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
