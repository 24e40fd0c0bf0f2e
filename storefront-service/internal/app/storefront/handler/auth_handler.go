package handler

import (
	"net/http"
	"time"

	"shopit/pkg/logger"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CookieSettings - параметры cookie с токеном сессии
type CookieSettings struct {
	MaxAge time.Duration
	Secure bool
}

type AuthHandler struct {
	authService service.AuthServiceInterface
	userService service.UserServiceInterface
	cookie      CookieSettings
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthServiceInterface, userService service.UserServiceInterface, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cookie:      cookie,
		validator:   validator.New(),
	}
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusCreated, result)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Please enter email & password")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := tokenFromRequest(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			logger.Warn().Err(err).Msg("Failed to revoke token on logout")
		}
	}

	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// ForgotPassword POST /password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req entity.ForgotPasswordRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email sent to " + req.Email,
	})
}

// ResetPassword PUT /password/reset/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req entity.ResetPasswordRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}

// UpdatePassword PUT /password/update
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req entity.UpdatePasswordRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.authService.UpdatePassword(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}

// GetProfile GET /me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	user, err := h.userService.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile PUT /me/update
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req entity.UpdateProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, result *service.AuthResult) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookieName, result.Token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)

	c.JSON(status, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookieName, "", -1, "/", "", h.cookie.Secure, true)
}
