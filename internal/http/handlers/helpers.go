package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/observability"
)

// Metrics отдаёт метрики Prometheus в текстовом формате.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(observability.Handler())
}
