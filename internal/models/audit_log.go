package models

import (
	"time"
)

type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"`           // Nullable for anonymous actions
	Action     string    `gorm:"size:50;not null" json:"action"` // e.g., "SIGNUP", "LOGIN", "SCAN"
	EntityID   string    `gorm:"size:255" json:"entity_id"`      // Object affected (e.g. scanned URL or user email)
	Details    string    `gorm:"type:text" json:"details"`       // JSON or text description
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	Country    string    `gorm:"size:64" json:"country"`
	Browser    string    `gorm:"size:64" json:"browser"`
	OS         string    `gorm:"size:64" json:"os"`
	DeviceType string    `gorm:"size:20" json:"device_type"`
	Timestamp  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}
