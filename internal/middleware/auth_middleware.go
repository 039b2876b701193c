package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kunal96k/tts-mock-test/pkg/auth"
)

// Ключи контекста, которые выставляет RequireAuth
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenVerifier проверяет токен и возвращает пользователя
type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware создает новый middleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth проверяет Bearer-токен и кладет пользователя в контекст
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		principal, err := m.verifier.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextUsername, principal.Username)
		c.Set(ContextRole, principal.Role)

		c.Next()
	}
}

// AdminOnly пропускает только администраторов. Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}

// RequireRole пропускает пользователей с одной из перечисленных ролей
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role", "error_type": "forbidden"})
		c.Abort()
	}
}

// CurrentPrincipal достает пользователя из контекста, заполненного RequireAuth
func CurrentPrincipal(c *gin.Context) (*auth.Principal, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return nil, false
	}
	id, ok := userID.(uint)
	if !ok {
		return nil, false
	}
	return &auth.Principal{
		UserID:   id,
		Username: c.GetString(ContextUsername),
		Role:     c.GetString(ContextRole),
	}, true
}
