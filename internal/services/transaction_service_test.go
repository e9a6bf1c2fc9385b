package services

import (
	"fmt"
	"testing"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Partner{},
		&models.Transaction{},
		&models.User{},
		&models.Meter{},
		&models.PowerUnit{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func pendingTransaction() *models.Transaction {
	return &models.Transaction{
		Amount:      "0",
		Status:      models.StatusPending,
		Provider:    ProviderBuyPower,
		PaymentType: models.PaymentTypePayment,
		Disco:       "ikedc",
		Superagent:  ProviderBuyPower,
	}
}

func TestTransactionService_CreateAssignsID(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	tx := pendingTransaction()
	require.NoError(t, svc.Create(tx))
	assert.NotEmpty(t, tx.ID)

	got, err := svc.GetByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestTransactionService_GetByBankRefID(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	tx := pendingTransaction()
	require.NoError(t, svc.Create(tx))
	require.NoError(t, svc.UpdateVendDetails(tx.ID, "1000", "bank-ref-1", "ok"))

	got, err := svc.GetByBankRefID("bank-ref-1")
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, "1000", got.Amount)

	_, err = svc.GetByBankRefID("missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionService_BankRefUniqueness(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	first := pendingTransaction()
	require.NoError(t, svc.Create(first))
	require.NoError(t, svc.UpdateVendDetails(first.ID, "1000", "bank-ref-1", ""))

	// A second transaction claiming the same bank reference must hit the
	// unique index, even though it passed no application-level pre-check.
	second := pendingTransaction()
	require.NoError(t, svc.Create(second))
	err := svc.UpdateVendDetails(second.ID, "2000", "bank-ref-1", "")
	assert.ErrorIs(t, err, ErrBankRefInUse)
}

func TestTransactionService_NullBankRefsDoNotCollide(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	// Two transactions without bank references must both be storable.
	require.NoError(t, svc.Create(pendingTransaction()))
	require.NoError(t, svc.Create(pendingTransaction()))

	count, err := svc.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestTransactionService_UpdateStatus(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	tx := pendingTransaction()
	require.NoError(t, svc.Create(tx))

	require.NoError(t, svc.UpdateStatus(tx.ID, models.StatusComplete))

	got, err := svc.GetByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, got.Status)

	err = svc.UpdateStatus("missing", models.StatusComplete)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionService_Delete(t *testing.T) {
	svc := NewTransactionService(newTestDB(t))

	tx := pendingTransaction()
	require.NoError(t, svc.Create(tx))
	require.NoError(t, svc.Delete(tx.ID))

	_, err := svc.GetByID(tx.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
