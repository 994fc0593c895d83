package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/http/middleware"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

func getPrincipal(c *gin.Context) (string, error) {
	principal, ok := middleware.Principal(c)
	if !ok {
		return "", apperror.ErrUnauthorized
	}
	return principal, nil
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseIDParam(c *gin.Context, key string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.ErrCodeBadRequest, "параметр "+key+" должен быть неотрицательным числом")
	}
	return id, nil
}

func parseCaseStatusQuery(c *gin.Context) (*valueobject.CaseStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := valueobject.ParseCaseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
