package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/stacksauth/adapters/accounts"
	"github.com/layer-3/stacksauth/adapters/store"
	"github.com/layer-3/stacksauth/adapters/tokenizer"
	"github.com/layer-3/stacksauth/internal/stacks"
	"github.com/layer-3/stacksauth/service"
)

type noopPublisher struct{}

func (noopPublisher) PublishLogin(ctx context.Context, address, accountID string, created bool) error {
	return nil
}

func (noopPublisher) PublishLogout(ctx context.Context, address, tokenID string) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	svc := service.NewAuthService(
		store.NewMemoryChallengeStore("TestApp", 5*time.Minute),
		accounts.NewMemoryAccounts(),
		tokenizer.NewJWTTokenizer(signKey),
		store.NewMemoryStore(),
		noopPublisher{},
		zerolog.Nop(),
	)
	return SetupRouter(svc)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type httpWallet struct {
	priv    *secp256k1.PrivateKey
	address string
}

func newHTTPWallet(t *testing.T) *httpWallet {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	address, err := stacks.DeriveAddress(priv.PubKey().SerializeCompressed(), false)
	require.NoError(t, err)
	return &httpWallet{priv: priv, address: address}
}

func (w *httpWallet) sign(message string) string {
	compact := secpecdsa.SignCompact(w.priv, stacks.MessageHash(message), true)
	return "0x" + hex.EncodeToString(append([]byte{0x00}, compact[1:]...))
}

// login drives the full challenge/verify flow and returns the response
// body of a successful verify call.
func login(t *testing.T, router *gin.Engine, wallet *httpWallet) map[string]any {
	t.Helper()

	w := postJSON(t, router, "/auth/wallet/challenge", gin.H{"wallet_address": wallet.address})
	require.Equal(t, http.StatusOK, w.Code)
	message := decodeBody(t, w)["message"].(string)

	w = postJSON(t, router, "/auth/wallet/verify", gin.H{
		"wallet_address": wallet.address,
		"signature":      wallet.sign(message),
		"message":        message,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestChallengeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)

	w := postJSON(t, router, "/auth/wallet/challenge", gin.H{"wallet_address": wallet.address})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["message"], wallet.address)
	assert.NotEmpty(t, body["nonce"])
	assert.EqualValues(t, 300, body["expires_in"])
}

func TestChallengeEndpointRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/auth/wallet/challenge", gin.H{"wallet_address": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/auth/wallet/challenge", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)

	body := login(t, router, wallet)

	user := body["user"].(map[string]any)
	assert.Equal(t, wallet.address, user["stacks_address"])
	assert.Equal(t, true, user["is_new"])
	assert.NotEmpty(t, user["username"])

	tokens := body["tokens"].(map[string]any)
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
}

func TestVerifyEndpointFailures(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)
	impostor := newHTTPWallet(t)

	// No challenge issued yet.
	w := postJSON(t, router, "/auth/wallet/verify", gin.H{
		"wallet_address": wallet.address,
		"signature":      "0x1234",
		"message":        "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	challengeFor := func() string {
		w := postJSON(t, router, "/auth/wallet/challenge", gin.H{"wallet_address": wallet.address})
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody(t, w)["message"].(string)
	}

	// Message mismatch.
	message := challengeFor()
	w = postJSON(t, router, "/auth/wallet/verify", gin.H{
		"wallet_address": wallet.address,
		"signature":      wallet.sign(message),
		"message":        message + "!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed signature.
	message = challengeFor()
	w = postJSON(t, router, "/auth/wallet/verify", gin.H{
		"wallet_address": wallet.address,
		"signature":      "0x1234",
		"message":        message,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Signature from the wrong key.
	message = challengeFor()
	w = postJSON(t, router, "/auth/wallet/verify", gin.H{
		"wallet_address": wallet.address,
		"signature":      impostor.sign(message),
		"message":        message,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)

	tokens := login(t, router, wallet)["tokens"].(map[string]any)
	refreshToken := tokens["refresh_token"].(string)

	w := postJSON(t, router, "/auth/refresh", gin.H{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.Equal(t, "Bearer", body["token_type"])

	// The rotated-out token is rejected.
	w = postJSON(t, router, "/auth/refresh", gin.H{"refresh_token": refreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/auth/refresh", gin.H{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedEndpoints(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)

	tokens := login(t, router, wallet)["tokens"].(map[string]any)
	accessToken := tokens["access_token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, wallet.address, decodeBody(t, w)["address"])

	req = httptest.NewRequest(http.MethodGet, "/api/authorize", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["authorized"])

	// Missing and malformed credentials.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	router := newTestRouter(t)
	wallet := newHTTPWallet(t)

	tokens := login(t, router, wallet)["tokens"].(map[string]any)
	accessToken := tokens["access_token"].(string)
	refreshToken := tokens["refresh_token"].(string)

	w := postJSON(t, router, "/auth/logout", gin.H{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	// The session is dead on both sides.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = postJSON(t, router, "/auth/refresh", gin.H{"refresh_token": refreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
