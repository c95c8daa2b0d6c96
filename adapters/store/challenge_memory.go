package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/ports"
)

// MemoryChallengeStore is an in-memory implementation of the challenge
// store, suitable for tests and single-process deployments.
type MemoryChallengeStore struct {
	appName string
	ttl     time.Duration

	mu      sync.Mutex
	entries map[string]*core.Challenge
}

// NewMemoryChallengeStore creates an in-memory challenge store issuing
// challenges with the given app name and TTL.
func NewMemoryChallengeStore(appName string, ttl time.Duration) *MemoryChallengeStore {
	return &MemoryChallengeStore{
		appName: appName,
		ttl:     ttl,
		entries: make(map[string]*core.Challenge),
	}
}

var _ ports.ChallengeStore = (*MemoryChallengeStore)(nil)

// Issue mints a challenge for the address, overwriting any prior one.
func (s *MemoryChallengeStore) Issue(ctx context.Context, address string) (*core.Challenge, error) {
	challenge := core.NewChallenge(s.appName, address, s.ttl)

	s.mu.Lock()
	s.entries[address] = challenge
	s.mu.Unlock()

	return challenge, nil
}

// Consume removes and returns the stored challenge for the address.
// The read and delete happen under one lock, so concurrent consumers
// observe exactly one challenge between them.
func (s *MemoryChallengeStore) Consume(ctx context.Context, address string) (*core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.entries[address]
	if !ok {
		return nil, core.ErrChallengeNotFound
	}
	delete(s.entries, address)

	if challenge.Expired(time.Now()) {
		return nil, core.ErrChallengeNotFound
	}
	return challenge, nil
}
