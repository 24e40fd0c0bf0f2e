package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
)

const (
	tokenCookieName = "token"
	principalKey    = "principal"
)

// Authenticator проверяет токен сессии
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Principal, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate берет токен из cookie token, иначе из Authorization: Bearer
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "Login first to access this resource")
			return
		}

		principal, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenBlacklisted) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			respondError(c, err)
			return
		}

		c.Set(principalKey, *principal)
		c.Set("user_id", principal.UserID)
		c.Set("role_name", principal.Role)

		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := currentPrincipal(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Login first to access this resource")
			return
		}

		if !principal.HasRole(roles...) {
			abortWithError(c, http.StatusForbidden, "Role ("+principal.Role+") is not allowed to access this resource")
			return
		}

		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (entity.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return entity.Principal{}, false
	}
	principal, ok := v.(entity.Principal)
	return principal, ok
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(tokenCookieName); err == nil && token != "" {
		return token
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
