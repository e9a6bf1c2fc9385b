package services

import (
	"errors"
	"fmt"

	"power-vend-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService provides user persistence operations
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create persists a new user, assigning an id when missing
func (s *UserService) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID gets a user by id
func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	result := s.db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := s.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindOrCreate returns the user with the given email, creating it from the
// supplied record when none exists.
func (s *UserService) FindOrCreate(user *models.User) (*models.User, error) {
	existing, err := s.GetByEmail(user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err := s.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
