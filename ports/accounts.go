package ports

import (
	"context"

	"github.com/layer-3/stacksauth/core"
)

// Accounts resolves wallet addresses to user accounts.
type Accounts interface {
	// GetOrCreate returns the account bound to the address, creating
	// one when none exists. The boolean reports whether the account was
	// created by this call.
	GetOrCreate(ctx context.Context, address string) (*core.Account, bool, error)
}
