// Package store persists the single value causal-flows keeps between runs:
// the last description the user entered.
package store

import (
	"context"
	"errors"
	"sync"
)

// TextKey is the key the last entered description is stored under.
const TextKey = "causal-flow-text"

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store loads and saves the last entered description. Load returns an empty
// string and no error when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, text string) error
	Close() error
}

// MemoryStore keeps the description in memory only.
type MemoryStore struct {
	mu     sync.RWMutex
	text   string
	closed bool
}

// NewMemoryStore creates a MemoryStore seeded with initial.
func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{text: initial}
}

func (m *MemoryStore) Load(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}
	return m.text, ctx.Err()
}

func (m *MemoryStore) Save(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.text = text
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
