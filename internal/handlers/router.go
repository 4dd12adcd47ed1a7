package handlers

import (
	"fmt"
	"net/http"

	"github.com/Harish-1828/phisguard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 86400 // 24 hours

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, staticPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(h.handlePanic))

	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
	})
	r.Use(sessions.Sessions("phishguard_session", store))
	r.Use(h.ResolveUser())

	// Public Routes
	r.GET("/api/health", h.HealthCheck)
	r.POST("/api/signup", h.Signup)
	r.POST("/api/login", h.Login)
	r.GET("/auth/google", h.GoogleLogin)
	r.GET("/auth/google/callback", h.GoogleCallback)
	r.GET("/logout", h.Logout)

	// Identity-aware Routes: anonymous callers are answered, not rejected
	r.GET("/api/current_user", h.CurrentUser)
	r.POST("/api/scan-url", h.ScanURL)
	r.GET("/api/recent-scans", h.RecentScans)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return r
}

func (h *Handler) handlePanic(c *gin.Context, recovered any) {
	h.logger.Error("Unhandled panic", "path", c.Request.URL.Path, "error", recovered)
	body := gin.H{"message": "Internal server error"}
	if !h.cfg.IsProduction() {
		body["error"] = fmt.Sprint(recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
