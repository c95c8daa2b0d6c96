package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/stacksauth/ports"
)

// MemoryStore is an in-memory implementation of the revocation store.
type MemoryStore struct {
	mu                sync.RWMutex
	invalidatedTokens map[string]time.Time
}

// NewMemoryStore creates a new in-memory revocation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		invalidatedTokens: make(map[string]time.Time),
	}
}

var _ ports.Store = (*MemoryStore)(nil)

// InvalidateToken marks a token id as revoked until its expiry.
func (s *MemoryStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidatedTokens[tokenID] = time.Now().Add(expiry)
	return nil
}

// IsTokenInvalidated reports whether a token id is currently revoked.
// Expired entries are purged lazily.
func (s *MemoryStore) IsTokenInvalidated(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.invalidatedTokens[tokenID]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		delete(s.invalidatedTokens, tokenID)
		return false, nil
	}
	return true, nil
}
