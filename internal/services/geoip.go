package services

import (
	"log/slog"
	"net"
	"sync"

	"github.com/Harish-1828/phisguard/internal/config"

	"github.com/oschwald/geoip2-golang"
)

// GeoIPService resolves client IPs to countries for audit entries. It is
// enabled only when a MaxMind database file is configured and readable;
// otherwise every lookup returns "Unknown".
type GeoIPService struct {
	logger *slog.Logger
	reader *geoip2.Reader
	mu     sync.RWMutex
}

func NewGeoIPService(cfg config.Config, logger *slog.Logger) *GeoIPService {
	s := &GeoIPService{logger: logger}

	if cfg.GeoIPDBPath == "" {
		logger.Warn("GeoIP: no database path configured. Lookups will be disabled.")
		return s
	}

	reader, err := geoip2.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("GeoIP: failed to open database, lookups disabled", "path", cfg.GeoIPDBPath, "error", err)
		return s
	}

	s.reader = reader
	logger.Info("GeoIP: loaded database", "epoch", reader.Metadata().BuildEpoch)
	return s
}

func (s *GeoIPService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
}

func (s *GeoIPService) Country(ipStr string) string {
	if ipStr == "127.0.0.1" || ipStr == "::1" {
		return "Localhost"
	}

	s.mu.RLock()
	reader := s.reader
	s.mu.RUnlock()

	if reader == nil {
		return "Unknown"
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Unknown"
	}

	record, err := reader.Country(ip)
	if err != nil {
		s.logger.Error("GeoIP: lookup error", "ip", ipStr, "error", err)
		return "Unknown"
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		return name
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode
	}
	return "Unknown"
}
