package ports

import (
	"context"
	"time"

	"github.com/layer-3/stacksauth/core"
)

// ChallengeStore owns the outstanding single-use sign-in challenges,
// keyed by wallet address.
type ChallengeStore interface {
	// Issue mints a challenge for the address and stores it with the
	// configured TTL, overwriting any prior unconsumed challenge. Only
	// the newest challenge for an address is ever valid.
	Issue(ctx context.Context, address string) (*core.Challenge, error)

	// Consume atomically reads and deletes the stored challenge. Two
	// concurrent consumers of the same address observe exactly one
	// challenge between them; missing or expired entries yield
	// core.ErrChallengeNotFound.
	Consume(ctx context.Context, address string) (*core.Challenge, error)
}

// Store tracks revoked refresh token ids for the remainder of their
// lifetime.
type Store interface {
	InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) error
	IsTokenInvalidated(ctx context.Context, tokenID string) (bool, error)
}
