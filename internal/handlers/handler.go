package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Harish-1828/phisguard/internal/config"
	"github.com/Harish-1828/phisguard/internal/models"
	"github.com/Harish-1828/phisguard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	db           *gorm.DB
	rdb          *redis.Client
	authService  *services.AuthService
	scanService  *services.ScanService
	predictor    *services.PredictorClient
	auditService *services.AuditService
	oauthConfig  *oauth2.Config
	userInfoURL  string
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	authService *services.AuthService,
	scanService *services.ScanService,
	predictor *services.PredictorClient,
	auditService *services.AuditService,
) *Handler {
	h := &Handler{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		rdb:          rdb,
		authService:  authService,
		scanService:  scanService,
		predictor:    predictor,
		auditService: auditService,
		userInfoURL:  googleUserInfoURL,
	}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	return h
}

// currentUserID returns the authenticated user's id, or nil for anonymous
// callers. ResolveUser has already checked the session and API key.
func (h *Handler) currentUserID(c *gin.Context) *uint {
	if val, exists := c.Get("user_id"); exists {
		if uid, ok := val.(uint); ok {
			return &uid
		}
	}
	return nil
}

func (h *Handler) currentUser(c *gin.Context) *models.User {
	uid := h.currentUserID(c)
	if uid == nil {
		return nil
	}
	user, err := h.authService.FindByID(*uid)
	if err != nil {
		h.logger.Error("Failed to load current user", "user_id", *uid, "error", err)
		return nil
	}
	return user
}

// serverError logs the full cause and responds with a generic message. The
// cause is included in the body only outside production.
func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	h.logger.Error(msg, "error", err)
	body := gin.H{"message": msg}
	if !h.cfg.IsProduction() {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
