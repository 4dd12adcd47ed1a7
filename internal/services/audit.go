package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Harish-1828/phisguard/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

// AuditService records security-relevant events (signups, logins, scans)
// asynchronously. Entries are enriched with user-agent and GeoIP data off the
// request path; a full buffer drops the event rather than blocking a request.
type AuditService struct {
	db     *gorm.DB
	logger *slog.Logger
	geoip  *GeoIPService
	events chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger, geoip *GeoIPService) *AuditService {
	return &AuditService{
		db:     db,
		logger: logger,
		geoip:  geoip,
		events: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.events:
			s.enrich(&entry)
			if err := s.db.Create(&entry).Error; err != nil {
				s.logger.Error("Failed to write audit log", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip, userAgent string) {
	detailBytes, _ := json.Marshal(details)

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   string(detailBytes),
		IPAddress: ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	select {
	case s.events <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping event", "action", action)
	}
}

func (s *AuditService) enrich(entry *models.AuditLog) {
	if entry.UserAgent != "" {
		ua := user_agent.New(entry.UserAgent)
		browserName, browserVer := ua.Browser()
		entry.Browser = browserName + " " + browserVer
		entry.OS = ua.OS()

		if ua.Mobile() {
			entry.DeviceType = "Mobile"
		} else if ua.Bot() {
			entry.DeviceType = "Bot"
		} else {
			entry.DeviceType = "Desktop"
		}
	}

	if s.geoip != nil {
		entry.Country = s.geoip.Country(entry.IPAddress)
	}
}
