package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Harish-1828/phisguard/internal/services"

	"github.com/gin-gonic/gin"
)

type ScanRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ScanURL relays a URL to the prediction service. Anonymous callers get the
// verdict but no history entry; persistence for authenticated callers is
// best-effort and never fails the response.
func (h *Handler) ScanURL(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A valid URL is required"})
		return
	}

	userID := h.currentUserID(c)
	callerID := "anonymous"
	if userID != nil {
		callerID = fmt.Sprint(*userID)
	}

	result, err := h.predictor.Predict(c.Request.Context(), req.URL, callerID)
	if err != nil {
		if errors.Is(err, services.ErrPredictorNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": "Prediction service is not configured",
				"code":    "PREDICTOR_NOT_CONFIGURED",
			})
			return
		}
		var unavail *services.PredictorUnavailableError
		if errors.As(err, &unavail) {
			h.serverError(c, unavail, "Prediction service unavailable")
			return
		}
		h.serverError(c, err, "Scan failed")
		return
	}

	message := "URL scanned successfully"
	if userID != nil {
		if _, err := h.scanService.Record(*userID, req.URL, result.Prediction, result.Confidence); err != nil {
			// History is best-effort: the caller already has a verdict.
			h.logger.Error("Failed to persist scan record", "url", req.URL, "user_id", *userID, "error", err)
		} else {
			h.auditService.LogAction(userID, "SCAN", req.URL, gin.H{
				"prediction": result.Prediction,
				"confidence": result.Confidence,
			}, c.ClientIP(), c.Request.UserAgent())
		}
	} else {
		message = "Sign in to keep a history of your scans"
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        req.URL,
		"prediction": result.Prediction,
		"confidence": result.Confidence,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"message":    message,
	})
}

// RecentScans returns the caller's 10 most recent scans with verdict totals.
// Anonymous callers get an empty result set with an explanatory message.
func (h *Handler) RecentScans(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusOK, gin.H{
			"scans":           []any{},
			"total":           0,
			"phishingFound":   0,
			"legitimateFound": 0,
			"message":         "Sign in to view your scan history",
		})
		return
	}

	result, err := h.scanService.Recent(*userID)
	if err != nil {
		h.serverError(c, err, "Failed to load scan history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans":           result.Scans,
		"total":           result.Total,
		"phishingFound":   result.PhishingFound,
		"legitimateFound": result.LegitimateFound,
	})
}
