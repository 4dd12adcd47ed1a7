package services

import (
	"log/slog"
	"time"

	"github.com/Harish-1828/phisguard/internal/models"

	"gorm.io/gorm"
)

const recentScansLimit = 10

type ScanService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewScanService(db *gorm.DB, logger *slog.Logger) *ScanService {
	return &ScanService{db: db, logger: logger}
}

// RecentScans is the per-user history view: the latest records plus lifetime
// verdict counts.
type RecentScans struct {
	Scans           []models.ScanRecord
	Total           int64
	PhishingFound   int64
	LegitimateFound int64
}

// Record appends one scan to the caller's history.
func (s *ScanService) Record(userID uint, url, prediction string, confidence float64) (*models.ScanRecord, error) {
	record := models.ScanRecord{
		UserID:     userID,
		URL:        url,
		Prediction: prediction,
		Confidence: confidence,
		CheckedAt:  time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, &StorageError{Op: "record scan", Cause: err}
	}
	return &record, nil
}

// Recent returns the 10 most recent scans for a user, newest first, with
// verdict totals across the user's whole history.
func (s *ScanService) Recent(userID uint) (*RecentScans, error) {
	result := RecentScans{Scans: []models.ScanRecord{}}

	err := s.db.Where("user_id = ?", userID).
		Order("checked_at desc, id desc").
		Limit(recentScansLimit).
		Find(&result.Scans).Error
	if err != nil {
		return nil, &StorageError{Op: "recent scans", Cause: err}
	}

	if err := s.db.Model(&models.ScanRecord{}).Where("user_id = ?", userID).Count(&result.Total).Error; err != nil {
		return nil, &StorageError{Op: "scan count", Cause: err}
	}
	if err := s.db.Model(&models.ScanRecord{}).Where("user_id = ? AND prediction = ?", userID, models.PredictionPhishing).Count(&result.PhishingFound).Error; err != nil {
		return nil, &StorageError{Op: "phishing count", Cause: err}
	}
	if err := s.db.Model(&models.ScanRecord{}).Where("user_id = ? AND prediction = ?", userID, models.PredictionLegitimate).Count(&result.LegitimateFound).Error; err != nil {
		return nil, &StorageError{Op: "legitimate count", Cause: err}
	}

	return &result, nil
}
