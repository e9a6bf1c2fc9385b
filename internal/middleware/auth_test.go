package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"power-vend-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	entries map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{entries: make(map[string]string)}
}

func (s *memoryTokenStore) Get(_ context.Context, key string) (string, error) {
	return s.entries[key], nil
}

func (s *memoryTokenStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.entries[key] = value
	return nil
}

func (s *memoryTokenStore) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func newAuthRouter(tokens *services.TokenService, tokenType string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/protected", BasicAuth(tokens, tokenType), func(c *gin.Context) {
		payload, ok := GetAuthPayload(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"partner": payload.Partner.ID})
	})
	return r
}

func doGet(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBasicAuth_AcceptsCurrentToken(t *testing.T) {
	store := newMemoryTokenStore()
	tokens := services.NewTokenService("test-secret", time.Minute, store)

	token, err := tokens.Issue(context.Background(), services.PartnerClaim{ID: "p1"}, services.TokenTypeAccess)
	require.NoError(t, err)

	r := newAuthRouter(tokens, services.TokenTypeAccess)
	w := doGet(r, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "p1")
}

func TestBasicAuth_RejectsMissingHeader(t *testing.T) {
	store := newMemoryTokenStore()
	tokens := services.NewTokenService("test-secret", time.Minute, store)

	r := newAuthRouter(tokens, services.TokenTypeAccess)
	w := doGet(r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization header")
}

func TestBasicAuth_RejectsWrongTokenType(t *testing.T) {
	store := newMemoryTokenStore()
	tokens := services.NewTokenService("test-secret", time.Minute, store)

	// emailverification token presented to a passwordreset route.
	token, err := tokens.Issue(context.Background(), services.PartnerClaim{ID: "p1"}, services.TokenTypeEmailVerification)
	require.NoError(t, err)

	r := newAuthRouter(tokens, services.TokenTypePasswordReset)
	w := doGet(r, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authentication")
}

func TestBasicAuth_RejectsStaleToken(t *testing.T) {
	store := newMemoryTokenStore()
	tokens := services.NewTokenService("test-secret", time.Minute, store)

	token, err := tokens.Issue(context.Background(), services.PartnerClaim{ID: "p1"}, services.TokenTypeAccess)
	require.NoError(t, err)

	// Simulate revocation: the cached value no longer matches the
	// presented token even though the signature still verifies.
	store.entries[services.CacheKey(services.TokenTypeAccess, "p1")] = "different-token"

	r := newAuthRouter(tokens, services.TokenTypeAccess)
	w := doGet(r, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newAPIKeyRouter(cypher *services.Cypher, store services.TokenStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/protected", ValidateAPIKey(cypher, store), func(c *gin.Context) {
		partnerID, _ := GetAPIKeyPartnerID(c)
		c.JSON(http.StatusOK, gin.H{"partner": partnerID})
	})
	return r
}

func TestValidateAPIKey_AcceptsValidPair(t *testing.T) {
	cypher := services.NewCypher("test-key")
	store := newMemoryTokenStore()

	apiKey, secret, err := cypher.GenerateAPIKeyPair("p1")
	require.NoError(t, err)

	encryptedSecret, err := cypher.EncryptString(secret)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), secret, encryptedSecret, 0))

	r := newAPIKeyRouter(cypher, store)
	w := doGet(r, map[string]string{"x-api-key": apiKey, "x-api-secret": secret})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "p1")
}

func TestValidateAPIKey_RejectsMissingKey(t *testing.T) {
	cypher := services.NewCypher("test-key")
	store := newMemoryTokenStore()

	r := newAPIKeyRouter(cypher, store)
	w := doGet(r, map[string]string{"x-api-secret": "whatever"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestValidateAPIKey_RejectsUnknownSecret(t *testing.T) {
	cypher := services.NewCypher("test-key")
	store := newMemoryTokenStore()

	apiKey, _, err := cypher.GenerateAPIKeyPair("p1")
	require.NoError(t, err)

	// No cached blob for this secret value.
	r := newAPIKeyRouter(cypher, store)
	w := doGet(r, map[string]string{"x-api-key": apiKey, "x-api-secret": "unknown"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API secret")
}

func TestValidateAPIKey_RejectsMismatchedSecret(t *testing.T) {
	cypher := services.NewCypher("test-key")
	store := newMemoryTokenStore()

	apiKey, _, err := cypher.GenerateAPIKeyPair("p1")
	require.NoError(t, err)

	// A cached blob exists, but it decrypts to a secret that does not
	// decode this API key.
	_, otherSecret, err := cypher.GenerateAPIKeyPair("p2")
	require.NoError(t, err)
	encryptedOther, err := cypher.EncryptString(otherSecret)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), otherSecret, encryptedOther, 0))

	r := newAPIKeyRouter(cypher, store)
	w := doGet(r, map[string]string{"x-api-key": apiKey, "x-api-secret": otherSecret})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
