package core

import (
	"errors"
	"fmt"
)

// Wallet authentication failure kinds. Subtype sentinels wrap their
// parent kind, so errors.Is matches both the specific failure and the
// broader category.
var (
	ErrInvalidAddress    = errors.New("invalid stacks address")
	ErrChallengeNotFound = errors.New("challenge expired or missing")
	ErrMessageMismatch   = errors.New("message does not match the issued challenge")

	ErrMalformedSignature = errors.New("malformed signature")
	ErrMalformedEncoding  = fmt.Errorf("%w: invalid hex encoding", ErrMalformedSignature)
	ErrInvalidLength      = fmt.Errorf("%w: invalid length", ErrMalformedSignature)

	ErrSignatureInvalid     = errors.New("signature verification failed")
	ErrNoRecoveryCandidate  = fmt.Errorf("%w: no recovered key matched the address", ErrSignatureInvalid)
	ErrVerificationMismatch = fmt.Errorf("%w: recovered key rejected by compact verification", ErrSignatureInvalid)
)

// Session and token failure kinds.
var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenInvalidated = errors.New("token has been invalidated")
	ErrInvalidToken     = errors.New("invalid token")
)

// ErrStoreOperationFailed is returned when a backing store operation
// fails for reasons unrelated to the key being absent.
var ErrStoreOperationFailed = errors.New("store operation failed")
