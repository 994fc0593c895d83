package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	store  repository.Store
	driver string
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(store repository.Store, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := map[string]string{"storage_driver": h.driver}
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var contractErr error
	err := h.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		_, contractErr = tx.Config().Get(ctx)
		return nil
	})

	switch {
	case err != nil:
		checks["storage"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	case errors.Is(contractErr, apperror.ErrNotInitialized):
		checks["storage"] = "healthy"
		checks["contract"] = "not initialized"
	case contractErr != nil:
		checks["storage"] = "unhealthy: " + contractErr.Error()
		status = "unhealthy"
	default:
		checks["storage"] = "healthy"
		checks["contract"] = "initialized"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}
