package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Harish-1828/phisguard/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	// Unique shared-cache name keeps the DB alive across pooled connections
	// while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	err = db.AutoMigrate(&models.User{}, &models.ScanRecord{}, &models.AuditLog{})
	if err != nil {
		panic("failed to migrate database: " + err.Error())
	}
	return db
}

func TestAuthService_Signup(t *testing.T) {
	db := setupTestDB()
	service := NewAuthService(db)

	t.Run("Success", func(t *testing.T) {
		user, err := service.Signup("alice@example.com", "password123", "Alice")
		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NotEmpty(t, user.APIKey)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		_, err := service.Signup("alice@example.com", "otherpassword", "Imposter")
		assert.ErrorIs(t, err, ErrEmailTaken)

		// First record unchanged
		var user models.User
		assert.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
		assert.Equal(t, "Alice", user.Name)

		var count int64
		db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("DB Error", func(t *testing.T) {
		dbErr := setupTestDB()
		dbErr.Migrator().DropTable(&models.User{})
		serviceErr := NewAuthService(dbErr)

		_, err := serviceErr.Signup("bob@example.com", "password123", "Bob")
		var storageErr *StorageError
		assert.ErrorAs(t, err, &storageErr)
	})
}

func TestAuthService_LoginLocal(t *testing.T) {
	db := setupTestDB()
	service := NewAuthService(db)

	_, err := service.Signup("alice@example.com", "password123", "Alice")
	assert.NoError(t, err)

	googleID := "google-sub-1"
	db.Create(&models.User{Email: "google-only@example.com", GoogleID: &googleID, APIKey: "key-g"})

	t.Run("Success", func(t *testing.T) {
		user, err := service.LoginLocal("alice@example.com", "password123")
		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		_, err := service.LoginLocal("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := service.LoginLocal("alice@example.com", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Google-Only Account", func(t *testing.T) {
		_, err := service.LoginLocal("google-only@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_LoginGoogle(t *testing.T) {
	db := setupTestDB()
	service := NewAuthService(db)

	t.Run("Creates New User", func(t *testing.T) {
		user, err := service.LoginGoogle("sub-123", "carol@example.com", "Carol")
		assert.NoError(t, err)
		assert.Equal(t, "carol@example.com", user.Email)
		assert.NotNil(t, user.GoogleID)
		assert.Equal(t, "sub-123", *user.GoogleID)
		assert.NotEmpty(t, user.APIKey)
	})

	t.Run("Idempotent", func(t *testing.T) {
		first, err := service.LoginGoogle("sub-123", "carol@example.com", "Carol")
		assert.NoError(t, err)
		second, err := service.LoginGoogle("sub-123", "carol@example.com", "Carol")
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&models.User{}).Where("email = ?", "carol@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Links Existing Local Account By Email", func(t *testing.T) {
		local, err := service.Signup("dave@example.com", "password123", "Dave")
		assert.NoError(t, err)

		linked, err := service.LoginGoogle("sub-456", "dave@example.com", "David")
		assert.NoError(t, err)
		assert.Equal(t, local.ID, linked.ID)

		var stored models.User
		assert.NoError(t, db.First(&stored, local.ID).Error)
		assert.NotNil(t, stored.GoogleID)
		assert.Equal(t, "sub-456", *stored.GoogleID)
		// Email and password untouched by linking
		assert.Equal(t, "dave@example.com", stored.Email)
		assert.Equal(t, local.PasswordHash, stored.PasswordHash)
	})

	t.Run("DB Error", func(t *testing.T) {
		dbErr := setupTestDB()
		dbErr.Migrator().DropTable(&models.User{})
		serviceErr := NewAuthService(dbErr)

		_, err := serviceErr.LoginGoogle("sub-err", "err@example.com", "Err")
		var storageErr *StorageError
		assert.ErrorAs(t, err, &storageErr)
	})
}

func TestAuthService_Lookups(t *testing.T) {
	db := setupTestDB()
	service := NewAuthService(db)

	created, err := service.Signup("eve@example.com", "password123", "Eve")
	assert.NoError(t, err)

	t.Run("FindByID", func(t *testing.T) {
		user, err := service.FindByID(created.ID)
		assert.NoError(t, err)
		assert.Equal(t, created.Email, user.Email)
	})

	t.Run("FindByID Miss", func(t *testing.T) {
		user, err := service.FindByID(9999)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("FindByAPIKey", func(t *testing.T) {
		user, err := service.FindByAPIKey(created.APIKey)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("FindByAPIKey Miss", func(t *testing.T) {
		user, err := service.FindByAPIKey("no-such-key")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &StorageError{Op: "test", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
