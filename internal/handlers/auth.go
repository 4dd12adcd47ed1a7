package handlers

import (
	"errors"
	"net/http"

	"github.com/Harish-1828/phisguard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		h.serverError(c, err, "Failed to create user")
		return
	}

	h.auditService.LogAction(&user.ID, "SIGNUP", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.LoginLocal(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.serverError(c, err, "Login failed")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		h.serverError(c, err, "Failed to save session")
		return
	}

	h.auditService.LogAction(&user.ID, "LOGIN", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"username": user.DisplayName(),
		"api_key":  user.APIKey,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if uid := h.currentUserID(c); uid != nil {
		h.auditService.LogAction(uid, "LOGOUT", "", nil, c.ClientIP(), c.Request.UserAgent())
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.serverError(c, err, "Failed to clear session")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// CurrentUser reports who the caller is. Anonymous callers get a normal 200
// with loggedIn:false rather than an auth failure.
func (h *Handler) CurrentUser(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"username": user.DisplayName(),
		"email":    user.Email,
	})
}
