package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with access-specific ones.
type AccessClaims struct {
	jwt.RegisteredClaims
	RefreshID string `json:"rid"` // ID of the refresh token this access token is bound to
}

// RefreshClaims are just the standard claims for refresh tokens.
type RefreshClaims struct {
	jwt.RegisteredClaims
}
