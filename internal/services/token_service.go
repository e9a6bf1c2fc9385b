package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Token purposes. Issuing a new token of a given purpose for a partner
// invalidates the previous one, because the cache holds a single entry per
// purpose+partner.
const (
	TokenTypeEmailVerification = "emailverification"
	TokenTypePasswordReset     = "passwordreset"
	TokenTypeAccess            = "access"
)

// TokenStore is the cache behind bearer-token revocation and the API-secret
// lookup. Get returns an empty string with a nil error when the key is
// absent.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisTokenStore implements TokenStore over Redis
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a Redis-backed token store
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisTokenStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// PartnerClaim identifies the partner a token was issued to.
type PartnerClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MiscClaim carries the token purpose tag.
type MiscClaim struct {
	TokenType string `json:"tokenType"`
}

// AuthClaims is the JWT payload for all bearer tokens.
type AuthClaims struct {
	Partner PartnerClaim `json:"partner"`
	Misc    MiscClaim    `json:"misc"`
	jwt.RegisteredClaims
}

// AuthPayload is the verified identity attached to the request context.
type AuthPayload struct {
	Partner PartnerClaim
	Misc    MiscClaim
	// Token is the raw presented token string.
	Token string
}

// TokenService issues and verifies signed bearer tokens. Signature
// verification alone is not sufficient for revocation; the cache entry keyed
// <tokenType>_token:<partnerId> is the source of truth for whether a token is
// still the active one for that partner and purpose.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  TokenStore
}

// NewTokenService creates a new token service
func NewTokenService(secret string, ttl time.Duration, store TokenStore) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
	}
}

// CacheKey builds the cache key for a partner's token of a given purpose
func CacheKey(tokenType, partnerID string) string {
	return fmt.Sprintf("%s_token:%s", tokenType, partnerID)
}

// Issue signs a new token for the partner and caches it, replacing any prior
// token of the same purpose.
func (s *TokenService) Issue(ctx context.Context, partner PartnerClaim, tokenType string) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Partner: partner,
		Misc:    MiscClaim{TokenType: tokenType},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.store.Set(ctx, CacheKey(tokenType, partner.ID), signed, s.ttl); err != nil {
		return "", fmt.Errorf("failed to cache token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, purpose, and cache currency of a presented token.
func (s *TokenService) Verify(ctx context.Context, rawToken, tokenType string) (*AuthPayload, error) {
	var claims AuthClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Misc.TokenType != tokenType {
		return nil, ErrInvalidToken
	}

	cached, err := s.store.Get(ctx, CacheKey(tokenType, claims.Partner.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}
	if cached != rawToken {
		return nil, ErrInvalidToken
	}

	return &AuthPayload{
		Partner: claims.Partner,
		Misc:    claims.Misc,
		Token:   rawToken,
	}, nil
}

// Revoke drops the cached token of the given purpose for a partner
func (s *TokenService) Revoke(ctx context.Context, tokenType, partnerID string) error {
	return s.store.Delete(ctx, CacheKey(tokenType, partnerID))
}
