package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// Response - конверт всех ответов API.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Page    *Page       `json:"page,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page описывает окно выборки. Общего количества записей хранилище не отдаёт.
type Page struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// List отдаёт окно списка; has_more выставляется, когда окно заполнено целиком.
func List(c *gin.Context, data interface{}, count, limit, offset int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Page: &Page{
			Limit:   limit,
			Offset:  offset,
			HasMore: limit > 0 && count >= limit,
		},
	})
}

// Error отдаёт AppError с его кодом и статусом. Текст прочих ошибок наружу не попадает.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка сервера")
	}
	Fail(c, appErr.HTTPStatus, appErr.Code, appErr.Message)
}

// Fail пишет ошибку и прерывает цепочку обработчиков.
func Fail(c *gin.Context, status int, code apperror.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, apperror.ErrCodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, apperror.ErrCodeForbidden, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, apperror.ErrCodeRateLimited, message)
}
