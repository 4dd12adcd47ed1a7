package services

import (
	"errors"

	"github.com/Harish-1828/phisguard/internal/models"
	"github.com/Harish-1828/phisguard/pkg/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Signup registers a new local account. It does not establish a session.
func (s *AuthService) Signup(email, password, name string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &StorageError{Op: "signup lookup", Cause: err}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		APIKey:       utils.GenerateAPIKey(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, &StorageError{Op: "signup create", Cause: err}
	}

	return &user, nil
}

// LoginLocal validates email/password credentials. Unknown email, a
// Google-only account, and a wrong password all fail identically.
func (s *AuthService) LoginLocal(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &StorageError{Op: "login lookup", Cause: err}
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// LoginGoogle resolves a Google identity to a local account: match on the
// Google subject id first, then link by email, then create. Linking by email
// trusts Google to have verified the address.
func (s *AuthService) LoginGoogle(googleID, email, name string) (*models.User, error) {
	var user models.User
	err := s.db.Where("google_id = ?", googleID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &StorageError{Op: "google lookup", Cause: err}
	}

	err = s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := s.db.Model(&user).Update("google_id", googleID).Error; err != nil {
			return nil, &StorageError{Op: "google link", Cause: err}
		}
		user.GoogleID = &googleID
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &StorageError{Op: "google email lookup", Cause: err}
	}

	user = models.User{
		Email:    email,
		GoogleID: &googleID,
		Name:     name,
		APIKey:   utils.GenerateAPIKey(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, &StorageError{Op: "google create", Cause: err}
	}

	return &user, nil
}

// FindByID loads a user by primary key, or nil when not found.
func (s *AuthService) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "find user", Cause: err}
	}
	return &user, nil
}

// FindByAPIKey resolves an X-API-Key header value, or nil when not found.
func (s *AuthService) FindByAPIKey(apiKey string) (*models.User, error) {
	var user models.User
	err := s.db.Where("api_key = ?", apiKey).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "find api key", Cause: err}
	}
	return &user, nil
}
