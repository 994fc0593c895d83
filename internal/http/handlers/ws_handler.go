package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/arbitration-backend/internal/interface/http/response"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/service"
	"github.com/ignatzorin/arbitration-backend/internal/ws"
)

// WSHandler подключает аккаунты к потоку событий дел и выборов.
type WSHandler struct {
	hub          *ws.Hub
	tokenManager *service.TokenManager
	upgrader     websocket.Upgrader
}

// NewWSHandler принимает соединения только с origins из allowedOrigins.
// Запросы без Origin (не из браузера) пропускаются.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:          hub,
		tokenManager: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws. Access токен передаётся в ?token= или в заголовке Authorization.
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		rawToken = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	principal, err := h.tokenManager.ParseAccess(rawToken)
	if err != nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Component("ws").WithError(err).WithField("principal", principal).Warn("ws: не удалось установить соединение")
		return
	}

	ws.NewClient(conn, h.hub, principal).Run(c.Request.Context())
}
