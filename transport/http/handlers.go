package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/service"
)

// AuthHandlers contains HTTP handlers for the auth endpoints.
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Challenge issues a sign-in challenge for a wallet address.
func (h *AuthHandlers) Challenge(c *gin.Context) {
	var req struct {
		Address string `json:"wallet_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	challenge, err := h.authService.RequestChallenge(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Stacks address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    challenge.Message,
		"nonce":      challenge.Nonce,
		"expires_in": int(challenge.TTL().Seconds()),
	})
}

// Verify checks a signed challenge and authenticates the wallet.
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Address   string `json:"wallet_address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.authService.VerifyAndAuthenticate(c.Request.Context(), req.Address, req.Signature, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Authentication failed"

		switch {
		case errors.Is(err, core.ErrChallengeNotFound):
			status = http.StatusBadRequest
			msg = "Invalid or expired challenge. Please request a new authentication message."
		case errors.Is(err, core.ErrMessageMismatch):
			status = http.StatusBadRequest
			msg = "Message does not match the issued challenge. Please request a new challenge."
		case errors.Is(err, core.ErrMalformedSignature):
			status = http.StatusBadRequest
			msg = "Malformed signature"
		case errors.Is(err, core.ErrSignatureInvalid):
			status = http.StatusUnauthorized
			msg = "Invalid signature. Signature verification failed."
		}

		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":             result.Account.ID,
			"username":       result.Account.Username,
			"stacks_address": result.Account.Address,
			"is_new":         result.Created,
		},
		"tokens": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
		},
	})
}

// Refresh rotates a refresh token.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	accessToken, refreshToken, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status := http.StatusBadRequest
		msg := "Invalid refresh token"

		switch {
		case errors.Is(err, core.ErrTokenExpired):
			status = http.StatusUnauthorized
			msg = "Refresh token expired"
		case errors.Is(err, core.ErrTokenInvalidated):
			status = http.StatusUnauthorized
			msg = "Refresh token has been invalidated"
		case errors.Is(err, core.ErrStoreOperationFailed):
			status = http.StatusInternalServerError
			msg = "Failed to refresh tokens"
		}

		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(service.DefaultAccessTTL.Seconds()),
	})
}

// Logout invalidates a session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns information about the authenticated user.
func (h *AuthHandlers) Me(c *gin.Context) {
	address, exists := c.Get("userAddress")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// Authorize reports whether the bearer token is valid. The middleware
// has already done the work if the request reaches this handler.
func (h *AuthHandlers) Authorize(c *gin.Context) {
	address, exists := c.Get("userAddress")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"address":    address,
	})
}
