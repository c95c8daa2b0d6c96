package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Challenge represents one outstanding wallet sign-in attempt. At most
// one live Challenge exists per wallet address; issuing a new one
// overwrites the prior entry.
type Challenge struct {
	Address   string    `json:"address"`    // Stacks address the challenge was issued for
	Nonce     string    `json:"nonce"`      // Random single-use token embedded in the message
	Message   string    `json:"message"`    // Exact text the wallet must sign, byte for byte
	IssuedAt  time.Time `json:"issued_at"`  // When the challenge was created
	ExpiresAt time.Time `json:"expires_at"` // When the challenge stops being valid
}

// NewChallenge builds a challenge for the given wallet address with a
// fresh random nonce. The message text is deterministic over
// (app name, address, nonce, issue time, TTL) so that the stored copy
// can be compared byte for byte against the text the wallet signed.
func NewChallenge(appName, address string, ttl time.Duration) *Challenge {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	now := time.Now()

	message := fmt.Sprintf(
		"Sign this message to authenticate with %s.\n\n"+
			"Wallet: %s\n"+
			"Nonce: %s\n"+
			"Timestamp: %d\n\n"+
			"This request will expire in %d minutes.",
		appName, address, nonce, now.Unix(), int(ttl/time.Minute),
	)

	return &Challenge{
		Address:   address,
		Nonce:     nonce,
		Message:   message,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the challenge is no longer valid at the given
// instant. The TTL boundary itself counts as expired.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TTL returns the validity window the challenge was issued with.
func (c *Challenge) TTL() time.Duration {
	return c.ExpiresAt.Sub(c.IssuedAt)
}

// Account represents a user account bound to a wallet address.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents an authenticated user session.
type Session struct {
	ID            string    // Unique session identifier
	Address       string    // Stacks address of the user
	IssuedAt      time.Time // When the session was created
	RefreshExpiry time.Time // When the refresh capability expires
	AccessExpiry  time.Time // When the access capability expires
	RefreshID     string    // Unique identifier for the refresh token
}

// AuthResult is the outcome of a successful wallet authentication.
type AuthResult struct {
	Account      *Account
	Created      bool // true when the account was created by this login
	AccessToken  string
	RefreshToken string
}
