package services

import (
	"fmt"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PowerUnitService provides power unit persistence operations
type PowerUnitService struct {
	db *gorm.DB
}

// NewPowerUnitService creates a new power unit service
func NewPowerUnitService(db *gorm.DB) *PowerUnitService {
	return &PowerUnitService{db: db}
}

// Create persists a new power unit, assigning an id when missing
func (s *PowerUnitService) Create(powerUnit *models.PowerUnit) error {
	if powerUnit.ID == "" {
		powerUnit.ID = uuid.NewString()
	}
	if err := s.db.Create(powerUnit).Error; err != nil {
		return fmt.Errorf("failed to create power unit: %w", err)
	}
	return nil
}

// CountByTransaction returns the number of power units issued against a
// transaction
func (s *PowerUnitService) CountByTransaction(transactionID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.PowerUnit{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the total number of power units
func (s *PowerUnitService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.PowerUnit{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
