package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/repository/mocks"
	"shopit/storefront-service/internal/app/storefront/service"
	"shopit/storefront-service/internal/app/storefront/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Хелпер для создания тестового middleware
func newTestAuthMiddleware() (*AuthMiddleware, *mocks.MockTokenBlacklist, *util.JWTManager) {
	blacklist := new(mocks.MockTokenBlacklist)
	jwtManager := util.NewJWTManager("test-secret-key", time.Hour)

	authService := service.NewAuthService(
		new(mocks.MockUserRepository),
		jwtManager,
		blacklist,
		new(mocks.MockImageHost),
		new(mocks.MockMailer),
		new(mocks.MockMessagePublisher),
		service.AuthConfig{ResetTokenTTL: 30 * time.Minute, FrontendURL: "http://localhost:3000"},
	)

	return NewAuthMiddleware(authService), blacklist, jwtManager
}

// ==================== Authenticate Tests ====================

func TestAuthMiddleware_Authenticate_BearerHeader(t *testing.T) {
	// Arrange
	middleware, blacklist, jwtManager := newTestAuthMiddleware()
	token, _ := jwtManager.GenerateToken("user-1", "user@example.com", entity.RoleUser)
	blacklist.On("IsRevoked", mock.Anything, token, mock.Anything, mock.Anything).Return(false, nil)

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		principal, ok := currentPrincipal(c)
		assert.True(t, ok)
		assert.Equal(t, "user-1", principal.UserID)
		assert.Equal(t, "user-1", c.GetString("user_id"))
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	blacklist.AssertExpectations(t)
}

func TestAuthMiddleware_Authenticate_Cookie(t *testing.T) {
	// Arrange
	middleware, blacklist, jwtManager := newTestAuthMiddleware()
	token, _ := jwtManager.GenerateToken("user-1", "user@example.com", entity.RoleUser)
	blacklist.On("IsRevoked", mock.Anything, token, mock.Anything, mock.Anything).Return(false, nil)

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	// Arrange
	middleware, _, _ := newTestAuthMiddleware()

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login first to access this resource")
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	// Arrange
	middleware, _, _ := newTestAuthMiddleware()

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_ForeignSecret(t *testing.T) {
	// Arrange
	middleware, _, _ := newTestAuthMiddleware()
	foreign := util.NewJWTManager("another-secret", time.Hour)
	token, _ := foreign.GenerateToken("user-1", "user@example.com", entity.RoleAdmin)

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_BlacklistedToken(t *testing.T) {
	// Arrange
	middleware, blacklist, jwtManager := newTestAuthMiddleware()
	token, _ := jwtManager.GenerateToken("user-1", "user@example.com", entity.RoleUser)
	blacklist.On("IsRevoked", mock.Anything, token, mock.Anything, mock.Anything).Return(true, nil)

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_BlacklistUnavailable(t *testing.T) {
	// Arrange
	middleware, blacklist, jwtManager := newTestAuthMiddleware()
	token, _ := jwtManager.GenerateToken("user-1", "user@example.com", entity.RoleUser)
	blacklist.On("IsRevoked", mock.Anything, token, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")
}

// ==================== RequireRole Tests ====================

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{name: "admin allowed", role: entity.RoleAdmin, expected: http.StatusOK},
		{name: "user forbidden", role: entity.RoleUser, expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			middleware, blacklist, jwtManager := newTestAuthMiddleware()
			token, _ := jwtManager.GenerateToken("user-1", "user@example.com", tt.role)
			blacklist.On("IsRevoked", mock.Anything, token, mock.Anything, mock.Anything).Return(false, nil)

			router := gin.New()
			router.GET("/admin", middleware.Authenticate(), middleware.RequireRole(entity.RoleAdmin), func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_WithoutAuthenticate(t *testing.T) {
	// Arrange
	middleware, _, _ := newTestAuthMiddleware()

	router := gin.New()
	router.GET("/admin", middleware.RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		t.Error("Handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
