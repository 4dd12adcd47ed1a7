package handlers

import (
	"net/http"

	"github.com/Harish-1828/phisguard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ResolveUser resolves the caller's identity into the request context:
// session cookie first, then X-API-Key. It never rejects; handlers decide
// what anonymous callers may do.
func (h *Handler) ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if val := session.Get("user_id"); val != nil {
			if uid, ok := val.(uint); ok {
				c.Set("user_id", uid)
				c.Next()
				return
			}
		}

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			user, err := h.authService.FindByAPIKey(apiKey)
			if err != nil {
				h.logger.Error("API key lookup failed", "error", err)
			} else if user != nil {
				c.Set("user_id", user.ID)
			}
		}

		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
