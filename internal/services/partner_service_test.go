package services

import (
	"testing"

	"power-vend-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerService_CreateAndAuthenticate(t *testing.T) {
	svc := NewPartnerService(newTestDB(t))

	partner, err := svc.Create("Acme Bank", "ops@acme.example", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, partner.ID)
	assert.True(t, partner.IsActive)
	assert.False(t, partner.EmailVerified)
	assert.NotEqual(t, "s3cretpass", partner.PasswordHash)

	assert.True(t, svc.CheckPassword(partner, "s3cretpass"))
	assert.False(t, svc.CheckPassword(partner, "wrongpass"))
}

func TestPartnerService_DuplicateEmailRejected(t *testing.T) {
	svc := NewPartnerService(newTestDB(t))

	_, err := svc.Create("Acme Bank", "ops@acme.example", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.Create("Other", "ops@acme.example", "otherpass")
	assert.ErrorIs(t, err, ErrPartnerExists)
}

func TestPartnerService_LifecycleUpdates(t *testing.T) {
	svc := NewPartnerService(newTestDB(t))

	partner, err := svc.Create("Acme Bank", "ops@acme.example", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.MarkEmailVerified(partner.ID))
	require.NoError(t, svc.UpdatePassword(partner.ID, "newpassword"))
	require.NoError(t, svc.SetActive(partner.ID, false))

	got, err := svc.GetByEmail("ops@acme.example")
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.False(t, got.IsActive)
	assert.True(t, svc.CheckPassword(got, "newpassword"))

	assert.ErrorIs(t, svc.SetActive("missing", true), ErrPartnerNotFound)
}

func TestUserService_FindOrCreateReusesByEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	first, err := svc.FindOrCreate(&models.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	second, err := svc.FindOrCreate(&models.User{Name: "Ada Again", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.Name)
}

func TestMeterService_FindOrCreateReusesByMeterNumber(t *testing.T) {
	svc := NewMeterService(newTestDB(t))

	first, err := svc.FindOrCreate(&models.Meter{MeterNumber: "123", Disco: "ikedc", UserID: "u1"})
	require.NoError(t, err)

	second, err := svc.FindOrCreate(&models.Meter{MeterNumber: "123", Disco: "ekedc", UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ikedc", second.Disco)

	_, err = svc.GetByMeterNumber("missing")
	assert.ErrorIs(t, err, ErrMeterNotFound)
}
