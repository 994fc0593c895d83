package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/interface/http/response"
)

// LedgerTokenHeader заголовок с общим секретом токен-леджера.
const LedgerTokenHeader = "X-Ledger-Token"

// LedgerTokenMiddleware пропускает только уведомления леджера с верным секретом.
// Пустой секрет закрывает маршрут полностью.
func LedgerTokenMiddleware(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(LedgerTokenHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			response.Forbidden(c, "неверный токен леджера")
			return
		}
		c.Next()
	}
}
