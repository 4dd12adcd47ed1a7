package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Harish-1828/phisguard/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const oauthStateCookie = "oauth_state"

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GoogleLogin starts the OAuth code flow with a CSRF state cookie.
func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.oauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Google login is not configured"})
		return
	}

	state, err := utils.GenerateStateToken()
	if err != nil {
		h.serverError(c, err, "Failed to start Google login")
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cfg.IsProduction(), true)
	c.Redirect(http.StatusFound, h.oauthConfig.AuthCodeURL(state))
}

// GoogleCallback completes the code flow: validate state, exchange the code,
// fetch the Google profile, and log the user in. Any failure sends the
// browser back to the login page rather than surfacing an API error.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.oauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Google login is not configured"})
		return
	}

	state := c.Query("state")
	saved, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || saved != state {
		h.logger.Warn("Google OAuth state validation failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cfg.IsProduction(), true)

	code := c.Query("code")
	if code == "" {
		h.logger.Warn("Google OAuth callback missing code")
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}

	token, err := h.oauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Google OAuth token exchange failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}

	info, err := h.fetchGoogleUser(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("Failed to fetch Google user info", "error", err)
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}
	if info.ID == "" || info.Email == "" {
		h.logger.Warn("Google user info incomplete")
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}

	user, err := h.authService.LoginGoogle(info.ID, info.Email, info.Name)
	if err != nil {
		h.logger.Error("Google login failed", "email", info.Email, "error", err)
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		h.serverError(c, err, "Failed to save session")
		return
	}

	h.auditService.LogAction(&user.ID, "LOGIN_GOOGLE", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
