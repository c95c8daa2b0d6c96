package accounts

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/stacksauth/ports"
)

const (
	addrA = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	// Shares the first eight characters with addrA, forcing a username
	// collision.
	addrB = "SP2J6ZY4000000000000000000000000000000000"
)

func testStores(t *testing.T) map[string]ports.Accounts {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]ports.Accounts{
		"memory": NewMemoryAccounts(),
		"redis":  NewRedisAccounts(client),
	}
}

func TestGetOrCreate(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			account, created, err := s.GetOrCreate(ctx, addrA)
			require.NoError(t, err)
			assert.True(t, created)
			assert.NotEmpty(t, account.ID)
			assert.Equal(t, addrA, account.Address)
			assert.Equal(t, "user_SP2J6ZY4", account.Username)
			assert.Equal(t, DefaultRole, account.Role)
			assert.False(t, account.CreatedAt.IsZero())

			// Second login returns the same account without creating.
			again, created, err := s.GetOrCreate(ctx, addrA)
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, account.ID, again.ID)
			assert.Equal(t, account.Username, again.Username)
		})
	}
}

func TestGetOrCreateUsernameCollision(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, _, err := s.GetOrCreate(ctx, addrA)
			require.NoError(t, err)
			second, created, err := s.GetOrCreate(ctx, addrB)
			require.NoError(t, err)

			assert.True(t, created)
			assert.Equal(t, "user_SP2J6ZY4", first.Username)
			assert.Equal(t, "user_SP2J6ZY4_1", second.Username)
			assert.NotEqual(t, first.ID, second.ID)
		})
	}
}
