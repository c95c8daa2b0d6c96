package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/ports"
)

// RedisChallengeStore is a Redis implementation of the challenge
// store for multi-process deployments. Per-key atomicity of Consume
// comes from GETDEL.
type RedisChallengeStore struct {
	client  *redis.Client
	appName string
	ttl     time.Duration
	prefix  string
}

// NewRedisChallengeStore creates a Redis-backed challenge store.
func NewRedisChallengeStore(client *redis.Client, appName string, ttl time.Duration) *RedisChallengeStore {
	return &RedisChallengeStore{
		client:  client,
		appName: appName,
		ttl:     ttl,
		prefix:  "stacksauth:challenge:",
	}
}

var _ ports.ChallengeStore = (*RedisChallengeStore)(nil)

// Issue mints a challenge and stores it under the address key with the
// configured TTL. SET overwrites any prior challenge for the address.
func (s *RedisChallengeStore) Issue(ctx context.Context, address string) (*core.Challenge, error) {
	challenge := core.NewChallenge(s.appName, address, s.ttl)

	payload, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+address, payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	return challenge, nil
}

// Consume atomically reads and deletes the challenge via GETDEL, so
// two racing consumers can never both act on the same challenge.
func (s *RedisChallengeStore) Consume(ctx context.Context, address string) (*core.Challenge, error) {
	val, err := s.client.GetDel(ctx, s.prefix+address).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	var challenge core.Challenge
	if err := json.Unmarshal([]byte(val), &challenge); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}

	// Redis enforces the TTL, but guard against clock skew between the
	// issuing and consuming process.
	if challenge.Expired(time.Now()) {
		return nil, core.ErrChallengeNotFound
	}
	return &challenge, nil
}
