package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports gateway, database, predictor and cache status. The
// endpoint itself always answers 200; consumers inspect the service map.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "connected"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "disconnected"
	}

	cacheStatus := "disabled"
	if h.rdb != nil {
		cacheStatus = "connected"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			cacheStatus = "disconnected"
		}
	}

	status := "healthy"
	if dbStatus == "disconnected" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"services": gin.H{
			"app":       "online",
			"database":  dbStatus,
			"predictor": h.predictor.HealthCheck(ctx),
			"cache":     cacheStatus,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
