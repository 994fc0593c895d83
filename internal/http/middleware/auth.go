package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/interface/http/response"
	"github.com/ignatzorin/arbitration-backend/internal/service"
)

// ContextPrincipalKey ключ gin.Context с именем аккаунта, подписавшего запрос.
const ContextPrincipalKey = "principal"

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		principal, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// Principal возвращает имя аккаунта из контекста запроса.
func Principal(c *gin.Context) (string, bool) {
	principal := c.GetString(ContextPrincipalKey)
	return principal, principal != ""
}
