package services

import (
	"errors"
	"fmt"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionService provides transaction persistence operations
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new transaction service
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Create persists a new transaction, assigning an id when missing
func (s *TransactionService) Create(transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	if err := s.db.Create(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBankRefInUse
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID gets a transaction by id
func (s *TransactionService) GetByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	result := s.db.Where("id = ?", id).First(&transaction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return &transaction, nil
}

// GetByBankRefID gets a transaction by its bank reference
func (s *TransactionService) GetByBankRefID(bankRefID string) (*models.Transaction, error) {
	var transaction models.Transaction
	result := s.db.Where("bank_ref_id = ?", bankRefID).First(&transaction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return &transaction, nil
}

// UpdateVendDetails attaches the vend amount and bank reference to a
// transaction. The unique index on bank_ref_id is the backstop against two
// concurrent vends passing the replay pre-check; a violation surfaces as
// ErrBankRefInUse.
func (s *TransactionService) UpdateVendDetails(id, amount, bankRefID, bankComment string) error {
	result := s.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount":       amount,
			"bank_ref_id":  bankRefID,
			"bank_comment": bankComment,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrBankRefInUse
		}
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	return nil
}

// UpdateStatus transitions a transaction to the given status
func (s *TransactionService) UpdateStatus(id string, status models.TransactionStatus) error {
	result := s.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction. Used only by the compensating cleanup when
// meter validation fails after the PENDING row was created.
func (s *TransactionService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	return nil
}

// Count returns the total number of transactions
func (s *TransactionService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
