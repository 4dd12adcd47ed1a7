package models

import (
	"time"
)

const (
	PredictionPhishing   = "phishing"
	PredictionLegitimate = "legitimate"
)

// ScanRecord is an append-only audit entry for one URL classification.
// Records are never updated or deleted.
type ScanRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	URL        string    `gorm:"not null;type:text" json:"url"`
	Prediction string    `gorm:"not null;size:20;index" json:"prediction"`
	Confidence float64   `gorm:"not null" json:"confidence"`
	CheckedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"checkedAt"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}
