// Package service implements the wallet authentication orchestrator.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/internal/stacks"
	"github.com/layer-3/stacksauth/ports"
)

// Default credential lifetimes.
const (
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = 5 * 24 * time.Hour
)

// AuthService handles wallet authentication and session business
// logic. It holds no state of its own beyond its injected
// collaborators.
type AuthService struct {
	challenges ports.ChallengeStore
	accounts   ports.Accounts
	tokenizer  ports.Tokenizer
	store      ports.Store
	eventPub   ports.EventPublisher
	logger     zerolog.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Option adjusts optional service settings.
type Option func(*AuthService)

// WithTokenTTLs overrides the default access and refresh lifetimes.
func WithTokenTTLs(access, refresh time.Duration) Option {
	return func(s *AuthService) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	challenges ports.ChallengeStore,
	accounts ports.Accounts,
	tokenizer ports.Tokenizer,
	store ports.Store,
	eventPub ports.EventPublisher,
	logger zerolog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		challenges: challenges,
		accounts:   accounts,
		tokenizer:  tokenizer,
		store:      store,
		eventPub:   eventPub,
		logger:     logger,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestChallenge issues a sign-in challenge for the wallet address,
// replacing any prior unconsumed challenge for it.
func (s *AuthService) RequestChallenge(ctx context.Context, address string) (*core.Challenge, error) {
	if err := stacks.ValidateAddress(address); err != nil {
		return nil, err
	}

	challenge, err := s.challenges.Issue(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to issue challenge: %w", err)
	}
	return challenge, nil
}

// VerifyAndAuthenticate verifies a signed challenge and, on success,
// resolves the account and issues a session credential pair. The
// challenge is consumed up front: every failure below is final and the
// client must request a fresh challenge before retrying.
func (s *AuthService) VerifyAndAuthenticate(ctx context.Context, address, signature, message string) (*core.AuthResult, error) {
	challenge, err := s.challenges.Consume(ctx, address)
	if err != nil {
		s.logFailure(address, "challenge_missing")
		return nil, err
	}

	if message != challenge.Message {
		s.logFailure(address, "message_mismatch")
		return nil, core.ErrMessageMismatch
	}

	// Redundant while the check above is an exact match, but keeps the
	// nonce binding intact if that check is ever relaxed.
	if !strings.Contains(message, challenge.Nonce) {
		s.logFailure(address, "nonce_missing")
		return nil, fmt.Errorf("%w: nonce not present in message", core.ErrMessageMismatch)
	}

	parsed, err := stacks.ParseSignature(signature)
	if err != nil {
		s.logFailure(address, "malformed_signature")
		return nil, err
	}

	digest := stacks.MessageHash(message)
	if _, err := stacks.RecoverAndMatch(parsed, digest, address); err != nil {
		s.logFailure(address, "signature_invalid")
		return nil, err
	}

	account, created, err := s.accounts.GetOrCreate(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(address)
	if err != nil {
		return nil, err
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, address, account.ID, created); err != nil {
			// The login already succeeded; the event is best-effort.
			s.logger.Warn().Err(err).Str("address", address).Msg("failed to publish login event")
		}
	}

	s.logger.Info().Str("address", address).Bool("created", created).Msg("wallet authenticated")

	return &core.AuthResult{
		Account:      account,
		Created:      created,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates the refresh token and issues a new credential pair.
// The old refresh token is revoked for the rest of its lifetime.
func (s *AuthService) Refresh(ctx context.Context, refreshTokenStr string) (string, string, error) {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", err)
	}

	if time.Now().After(session.RefreshExpiry) {
		return "", "", core.ErrTokenExpired
	}

	invalidated, err := s.store.IsTokenInvalidated(ctx, session.RefreshID)
	if err != nil {
		return "", "", fmt.Errorf("failed to check token invalidation: %w", err)
	}
	if invalidated {
		return "", "", core.ErrTokenInvalidated
	}

	remaining := time.Until(session.RefreshExpiry)
	if err := s.store.InvalidateToken(ctx, session.RefreshID, remaining); err != nil {
		return "", "", fmt.Errorf("failed to invalidate old token: %w", err)
	}

	return s.issueTokens(session.Address)
}

// Logout invalidates a refresh token, even when it is already expired.
func (s *AuthService) Logout(ctx context.Context, refreshTokenStr string) error {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return fmt.Errorf("invalid refresh token: %w", err)
	}

	remaining := time.Until(session.RefreshExpiry)
	if remaining <= 0 {
		// Keep the revocation record around briefly so a skewed clock
		// cannot resurrect the token.
		remaining = time.Hour
	}
	if err := s.store.InvalidateToken(ctx, session.RefreshID, remaining); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogout(ctx, session.Address, session.RefreshID); err != nil {
			s.logger.Warn().Err(err).Str("address", session.Address).Msg("failed to publish logout event")
		}
	}

	return nil
}

// ValidateAccessToken parses and validates an access token, rejecting
// tokens whose linked refresh token has been revoked.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Session, error) {
	session, err := s.tokenizer.AccessTokenToSession(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if time.Now().After(session.AccessExpiry) {
		return nil, core.ErrTokenExpired
	}

	if session.RefreshID != "" {
		invalidated, err := s.store.IsTokenInvalidated(ctx, session.RefreshID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token invalidation: %w", err)
		}
		if invalidated {
			return nil, core.ErrTokenInvalidated
		}
	}

	return session, nil
}

// issueTokens builds a fresh session for the address and signs its
// access/refresh pair.
func (s *AuthService) issueTokens(address string) (string, string, error) {
	now := time.Now()
	session := &core.Session{
		ID:            uuid.NewString(),
		Address:       address,
		IssuedAt:      now,
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshExpiry: now.Add(s.refreshTTL),
		RefreshID:     uuid.NewString(),
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.tokenizer.SessionToRefreshToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// logFailure records a failed verification attempt for security
// monitoring.
func (s *AuthService) logFailure(address, reason string) {
	s.logger.Warn().Str("address", address).Str("reason", reason).Msg("wallet authentication failed")
}
