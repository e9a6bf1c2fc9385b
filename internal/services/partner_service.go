package services

import (
	"errors"
	"fmt"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PartnerService provides partner account operations
type PartnerService struct {
	db *gorm.DB
}

// NewPartnerService creates a new partner service
func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

// Create registers a new partner with a bcrypt-hashed password
func (s *PartnerService) Create(name, email, password string) (*models.Partner, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	partner := &models.Partner{
		BaseModel:    models.BaseModel{ID: uuid.NewString()},
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.db.Create(partner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPartnerExists
		}
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return partner, nil
}

// GetByID gets a partner by id
func (s *PartnerService) GetByID(id string) (*models.Partner, error) {
	var partner models.Partner
	result := s.db.Where("id = ?", id).First(&partner)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, result.Error
	}
	return &partner, nil
}

// GetByEmail gets a partner by email
func (s *PartnerService) GetByEmail(email string) (*models.Partner, error) {
	var partner models.Partner
	result := s.db.Where("email = ?", email).First(&partner)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, result.Error
	}
	return &partner, nil
}

// CheckPassword compares a candidate password against the stored hash
func (s *PartnerService) CheckPassword(partner *models.Partner, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(password)) == nil
}

// MarkEmailVerified flags the partner's email address as verified
func (s *PartnerService) MarkEmailVerified(id string) error {
	return s.updateField(id, "email_verified", true)
}

// UpdatePassword replaces the partner's password hash
func (s *PartnerService) UpdatePassword(id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.updateField(id, "password_hash", string(hash))
}

// SetActive toggles the partner's active flag
func (s *PartnerService) SetActive(id string, active bool) error {
	return s.updateField(id, "is_active", active)
}

func (s *PartnerService) updateField(id, field string, value interface{}) error {
	result := s.db.Model(&models.Partner{}).Where("id = ?", id).Update(field, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update partner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}
