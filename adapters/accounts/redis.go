package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/ports"
)

// RedisAccounts is a Redis-backed account store. Accounts are stored
// as JSON under the address key; usernames are reserved with SETNX so
// two addresses sharing a prefix never collide.
type RedisAccounts struct {
	client         *redis.Client
	accountPrefix  string
	usernamePrefix string
}

// NewRedisAccounts creates a Redis-backed account store.
func NewRedisAccounts(client *redis.Client) *RedisAccounts {
	return &RedisAccounts{
		client:         client,
		accountPrefix:  "stacksauth:account:",
		usernamePrefix: "stacksauth:username:",
	}
}

var _ ports.Accounts = (*RedisAccounts)(nil)

// GetOrCreate returns the account for the address, creating and
// persisting it when none exists.
func (s *RedisAccounts) GetOrCreate(ctx context.Context, address string) (*core.Account, bool, error) {
	key := s.accountPrefix + address

	val, err := s.client.Get(ctx, key).Result()
	if err == nil {
		account, err := decodeAccount(val)
		return account, false, err
	}
	if !errors.Is(err, redis.Nil) {
		return nil, false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	username, err := s.reserveUsername(ctx, address)
	if err != nil {
		return nil, false, err
	}

	account := &core.Account{
		ID:        uuid.NewString(),
		Username:  username,
		Address:   address,
		Role:      DefaultRole,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(account)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode account: %w", err)
	}

	created, err := s.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	if !created {
		// Lost a creation race; return the winner's account.
		val, err := s.client.Get(ctx, key).Result()
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
		}
		account, err := decodeAccount(val)
		return account, false, err
	}

	return account, true, nil
}

// reserveUsername claims the first free generated username for the
// address via SETNX.
func (s *RedisAccounts) reserveUsername(ctx context.Context, address string) (string, error) {
	base := baseUsername(address)
	username := base
	for n := 1; ; n++ {
		ok, err := s.client.SetNX(ctx, s.usernamePrefix+username, address, 0).Result()
		if err != nil {
			return "", fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
		}
		if ok {
			return username, nil
		}
		username = fmt.Sprintf("%s_%d", base, n)
	}
}

func decodeAccount(val string) (*core.Account, error) {
	var account core.Account
	if err := json.Unmarshal([]byte(val), &account); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	return &account, nil
}
