// Package accounts provides account-store adapters binding wallet
// addresses to user accounts.
package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/ports"
)

// DefaultRole is the role assigned to accounts created by wallet login.
const DefaultRole = "user"

// usernamePrefixLen is how many leading address characters seed the
// generated username.
const usernamePrefixLen = 8

// baseUsername derives the base username for an address.
func baseUsername(address string) string {
	if len(address) > usernamePrefixLen {
		address = address[:usernamePrefixLen]
	}
	return "user_" + address
}

// MemoryAccounts is an in-memory account store for tests and
// single-process deployments.
type MemoryAccounts struct {
	mu        sync.Mutex
	byAddress map[string]*core.Account
	usernames map[string]struct{}
}

// NewMemoryAccounts creates an empty in-memory account store.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{
		byAddress: make(map[string]*core.Account),
		usernames: make(map[string]struct{}),
	}
}

var _ ports.Accounts = (*MemoryAccounts)(nil)

// GetOrCreate returns the account for the address, creating it with a
// generated unique username when none exists.
func (s *MemoryAccounts) GetOrCreate(ctx context.Context, address string) (*core.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.byAddress[address]; ok {
		return account, false, nil
	}

	base := baseUsername(address)
	username := base
	for n := 1; ; n++ {
		if _, taken := s.usernames[username]; !taken {
			break
		}
		username = fmt.Sprintf("%s_%d", base, n)
	}

	account := &core.Account{
		ID:        uuid.NewString(),
		Username:  username,
		Address:   address,
		Role:      DefaultRole,
		CreatedAt: time.Now(),
	}
	s.byAddress[address] = account
	s.usernames[username] = struct{}{}

	return account, true, nil
}
