package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aireading/internal/auth"
	"aireading/internal/domain"
	"aireading/internal/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Locale   string `json:"locale"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}
	if !auth.IsValidEmail(req.Email) {
		respondError(c, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format")
		return
	}
	if check := auth.CheckPasswordStrength(req.Password); !check.Valid {
		respondError(c, http.StatusBadRequest, "WEAK_PASSWORD",
			"Password must be at least 8 characters with uppercase, lowercase, and a number")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Username, req.Locale)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
			return
		}
		h.serverError(c, err)
		return
	}

	token, err := h.codec.Issue(user.ID, user.Email)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.setAuthCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    userToResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}
	if !auth.IsValidEmail(req.Email) {
		respondError(c, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, service.ErrUserDeactivated):
			respondError(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated")
		default:
			h.serverError(c, err)
		}
		return
	}

	token, err := h.codec.Issue(user.ID, user.Email)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// me verifies the token inline rather than via the guard so the missing
// and invalid cases report distinct codes.
func (h *Handler) me(c *gin.Context) {
	token, ok := auth.ExtractToken(c.Request)
	if !ok {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Unauthorized")
		return
	}

	claims, err := h.codec.Verify(token)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Unauthorized")
		return
	}

	user, err := h.users.GetActive(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrUserDeactivated):
			respondError(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated")
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

func (h *Handler) getProfile(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	user, err := h.users.GetActive(c.Request.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrUserDeactivated):
			respondError(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated")
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

type updateProfileRequest struct {
	Username      *string  `json:"username"`
	AvatarURL     *string  `json:"avatar_url"`
	Locale        *string  `json:"locale"`
	Theme         *string  `json:"theme"`
	PlaybackSpeed *float64 `json:"playback_speed"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	if req.PlaybackSpeed != nil && (*req.PlaybackSpeed < 0.5 || *req.PlaybackSpeed > 2.0) {
		respondError(c, http.StatusBadRequest, "INVALID_SPEED", "Playback speed must be between 0.5 and 2.0")
		return
	}
	if req.Theme != nil {
		switch *req.Theme {
		case domain.ThemeLight, domain.ThemeDark, domain.ThemeAuto:
		default:
			respondError(c, http.StatusBadRequest, "INVALID_THEME", "Theme must be one of: light, dark, auto")
			return
		}
	}
	if req.Locale != nil && *req.Locale != "en" && *req.Locale != "zh" {
		respondError(c, http.StatusBadRequest, "INVALID_LOCALE", "Locale must be one of: en, zh")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), principal.UserID, domain.UserUpdate{
		Username:      req.Username,
		AvatarURL:     req.AvatarURL,
		Locale:        req.Locale,
		Theme:         req.Theme,
		PlaybackSpeed: req.PlaybackSpeed,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userToResponse(user),
	})
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

// serverError logs the cause and returns a generic 500; internals never
// reach the client.
func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.WithError(err).Error("internal error")
	respondError(c, http.StatusInternalServerError, "SERVER_ERROR", "Internal server error")
}
