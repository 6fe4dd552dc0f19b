package services

import (
	"errors"
	"strconv"

	"github.com/communitydir/backend/internal/config"
	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/pkg/crypto"
	"github.com/communitydir/backend/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	db    *gorm.DB
	cfg   *config.Config
	email *EmailService
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, cfg: cfg}
}

func (s *AdminService) GetConfig() *config.Config { return s.cfg }

// AttachEmailService attaches the email service (called after initialization)
func (s *AdminService) AttachEmailService(es *EmailService) {
	s.email = es
}

// CreateDefaultAdmin creates the default admin user if it doesn't exist
func (s *AdminService) CreateDefaultAdmin() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", s.cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Hash password
	hashedPassword, err := crypto.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Create admin user
	admin := &models.User{
		Username: s.cfg.AdminUsername,
		Email:    s.cfg.AdminEmail,
		Password: hashedPassword,
		Name:     "Administrator",
		IsAdmin:  true,
		IsActive: true,
	}

	return s.db.Create(admin).Error
}

// CreateOperator creates a new operator account and mails the initial
// password. Operators cannot self-register.
func (s *AdminService) CreateOperator(username, email, name string, isAdmin bool) (*models.User, string, error) {
	if !validation.ValidateUsername(username) {
		return nil, "", errors.New("invalid username format")
	}
	if !validation.ValidateEmail(email) {
		return nil, "", errors.New("invalid email format")
	}

	var existing models.User
	if err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		if existing.Username == username {
			return nil, "", errors.New("username already taken")
		}
		return nil, "", errors.New("email already registered")
	}

	password := crypto.GenerateRandomPassword(12)
	hashedPassword, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		IsAdmin:  isAdmin,
		IsActive: true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", err
	}

	if s.email != nil {
		go s.email.SendOperatorWelcome(user.Email, user.Name, user.Username, password)
	}

	return user, password, nil
}

// ResetUserPassword resets a user's password to a random value
func (s *AdminService) ResetUserPassword(userID uuid.UUID) (string, error) {
	// Generate new password
	newPassword := crypto.GenerateRandomPassword(12)

	// Hash password
	hashedPassword, err := crypto.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}

	// Update user password
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword)
	if result.Error != nil {
		return "", result.Error
	}

	if result.RowsAffected == 0 {
		return "", errors.New("user not found")
	}

	return newPassword, nil
}

const settingDefaultVerificationFrequency = "default_verification_frequency_days"

// GetDefaultVerificationFrequency returns the configured re-verification
// interval for new listings, preferring the stored setting over the env
// default.
func (s *AdminService) GetDefaultVerificationFrequency() (int, error) {
	var setting models.SystemSetting
	err := s.db.Where("key = ?", settingDefaultVerificationFrequency).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.cfg.DefaultVerificationFrequencyDays, nil
		}
		return 0, err
	}

	days, convErr := strconv.Atoi(setting.Value)
	if convErr != nil || days <= 0 {
		return s.cfg.DefaultVerificationFrequencyDays, nil
	}
	return days, nil
}

// UpdateDefaultVerificationFrequency stores the re-verification interval
func (s *AdminService) UpdateDefaultVerificationFrequency(days int) error {
	if days <= 0 {
		return errors.New("frequency must be greater than 0")
	}

	value := strconv.Itoa(days)
	var setting models.SystemSetting
	err := s.db.Where("key = ?", settingDefaultVerificationFrequency).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.SystemSetting{
			Key:   settingDefaultVerificationFrequency,
			Value: value,
		}).Error
	}
	if err != nil {
		return err
	}

	setting.Value = value
	return s.db.Save(&setting).Error
}
