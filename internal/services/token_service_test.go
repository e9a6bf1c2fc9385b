package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTokenStore is an in-memory TokenStore for tests.
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

func newTestTokenService(store TokenStore) *TokenService {
	return NewTokenService("test-secret", 30*time.Minute, store)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	ctx := context.Background()

	partner := PartnerClaim{ID: "p1", Email: "p1@example.com"}
	token, err := svc.Issue(ctx, partner, TokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := svc.Verify(ctx, token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.Partner.ID)
	assert.Equal(t, TokenTypeAccess, payload.Misc.TokenType)
	assert.Equal(t, token, payload.Token)
}

func TestTokenService_VerifyRejectsWrongTokenType(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	ctx := context.Background()

	// A valid-signature emailverification token must not pass as a
	// passwordreset token.
	token, err := svc.Issue(ctx, PartnerClaim{ID: "p1"}, TokenTypeEmailVerification)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token, TokenTypePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyRejectsRevokedToken(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, PartnerClaim{ID: "p1"}, TokenTypeAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, TokenTypeAccess, "p1"))

	// Signature still verifies, but the cache entry is gone.
	_, err = svc.Verify(ctx, token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_NewTokenInvalidatesPrevious(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	ctx := context.Background()

	partner := PartnerClaim{ID: "p1"}
	first, err := svc.Issue(ctx, partner, TokenTypePasswordReset)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // distinct iat so the tokens differ

	second, err := svc.Issue(ctx, partner, TokenTypePasswordReset)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Verify(ctx, first, TokenTypePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify(ctx, second, TokenTypePasswordReset)
	assert.NoError(t, err)
}

func TestTokenService_VerifyRejectsForgedSignature(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	forger := NewTokenService("other-secret", 30*time.Minute, store)
	ctx := context.Background()

	token, err := forger.Issue(ctx, PartnerClaim{ID: "p1"}, TokenTypeAccess)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
