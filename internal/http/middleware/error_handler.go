package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/arbitration-backend/internal/interface/http/response"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// ErrorHandler отдаёт клиенту последнюю ошибку из c.Errors, если ответ ещё не записан.
// Ошибки без кода apperror маскируются как внутренние.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		fields := logrus.Fields{
			"error":  err.Error(),
			"code":   apperror.CodeOf(err),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}
		if apperror.CodeOf(err) == apperror.ErrCodeInternal {
			logger.Get().WithFields(fields).Error("Request error")
		} else {
			logger.Get().WithFields(fields).Debug("Request rejected")
		}

		response.Error(c, err)
	}
}
