package middleware

import (
	"strings"

	"power-vend-api/internal/apperrors"
	"power-vend-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys for verified identities.
const (
	ContextAuthKey   = "auth"
	ContextAPIKeyKey = "apiKey"
)

// BasicAuth returns middleware that requires a bearer token of the given
// purpose. Signature verification alone is not enough: the cached token for
// the partner+purpose must exactly equal the presented token, so issuing a
// new token (or revoking) invalidates any prior one.
func BasicAuth(tokens *services.TokenService, tokenType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer") {
			abortWith(c, apperrors.New(apperrors.Unauthenticated, "Invalid authorization header"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) < 2 {
			abortWith(c, apperrors.New(apperrors.Unauthenticated, "Invalid authorization header"))
			return
		}

		payload, err := tokens.Verify(c.Request.Context(), parts[1], tokenType)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(ContextAuthKey, payload)
		c.Next()
	}
}

// ValidateAPIKey returns middleware that authenticates the x-api-key and
// x-api-secret header pair. The cache is keyed by the raw x-api-secret value
// and holds the encrypted secret blob; the decrypted secret then decodes the
// API key back to the owning partner id.
func ValidateAPIKey(cypher *services.Cypher, store services.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		apiSecret := c.GetHeader("x-api-secret")
		if apiKey == "" {
			abortWith(c, services.ErrInvalidAPIKey)
			return
		}

		innerKey, err := cypher.DecryptString(apiKey)
		if err != nil {
			abortWith(c, services.ErrInvalidAPIKey)
			return
		}

		encryptedSecret, err := store.Get(c.Request.Context(), apiSecret)
		if err != nil || encryptedSecret == "" {
			abortWith(c, services.ErrInvalidAPISecret)
			return
		}

		secret, err := cypher.DecryptString(encryptedSecret)
		if err != nil {
			abortWith(c, services.ErrInvalidAPISecret)
			return
		}

		partnerID, err := cypher.DecodeAPIKey(innerKey, secret)
		if err != nil {
			abortWith(c, services.ErrInvalidAPIKey)
			return
		}

		c.Set(ContextAPIKeyKey, partnerID)
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// GetAuthPayload returns the verified bearer identity attached by BasicAuth
func GetAuthPayload(c *gin.Context) (*services.AuthPayload, bool) {
	value, exists := c.Get(ContextAuthKey)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*services.AuthPayload)
	return payload, ok
}

// GetAPIKeyPartnerID returns the partner id attached by ValidateAPIKey
func GetAPIKeyPartnerID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextAPIKeyKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
