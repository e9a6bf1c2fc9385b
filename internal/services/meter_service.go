package services

import (
	"errors"
	"fmt"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeterService provides meter persistence operations
type MeterService struct {
	db *gorm.DB
}

// NewMeterService creates a new meter service
func NewMeterService(db *gorm.DB) *MeterService {
	return &MeterService{db: db}
}

// Create persists a new meter, assigning an id when missing
func (s *MeterService) Create(meter *models.Meter) error {
	if meter.ID == "" {
		meter.ID = uuid.NewString()
	}
	if err := s.db.Create(meter).Error; err != nil {
		return fmt.Errorf("failed to create meter: %w", err)
	}
	return nil
}

// GetByMeterNumber gets a meter by its external meter number
func (s *MeterService) GetByMeterNumber(meterNumber string) (*models.Meter, error) {
	var meter models.Meter
	result := s.db.Where("meter_number = ?", meterNumber).First(&meter)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMeterNotFound
		}
		return nil, result.Error
	}
	return &meter, nil
}

// FindOrCreate returns the meter with the given meter number, creating it
// from the supplied record when none exists.
func (s *MeterService) FindOrCreate(meter *models.Meter) (*models.Meter, error) {
	existing, err := s.GetByMeterNumber(meter.MeterNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrMeterNotFound) {
		return nil, err
	}
	if err := s.Create(meter); err != nil {
		return nil, err
	}
	return meter, nil
}
