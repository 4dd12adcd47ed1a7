package models

import (
	"time"
)

type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"unique;not null;size:120" json:"email"`
	PasswordHash string       `gorm:"size:255" json:"-"` // empty for Google-only accounts
	GoogleID     *string      `gorm:"uniqueIndex;size:64" json:"-"`
	Name         string       `gorm:"size:120" json:"name,omitempty"`
	APIKey       string       `gorm:"unique;index;size:36" json:"api_key"`
	CreatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Scans        []ScanRecord `gorm:"foreignKey:UserID" json:"scans,omitempty"`
}

// DisplayName returns the user's name, falling back to the email address
// for accounts created without one.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
