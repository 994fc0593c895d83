package dto

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

// DepositRequest - уведомление токен-леджера о входящем переводе.
type DepositRequest struct {
	From     string            `json:"from" binding:"required"`
	To       string            `json:"to" binding:"required"`
	Quantity valueobject.Asset `json:"quantity"`
	Memo     string            `json:"memo"`
}

type ActionResponse struct {
	Action string      `json:"action"`
	Actor  string      `json:"actor"`
	Result interface{} `json:"result,omitempty"`
}

type BalanceResponse struct {
	Owner   string            `json:"owner"`
	Balance valueobject.Asset `json:"balance"`
}

type ActionsResponse struct {
	Actions []string `json:"actions"`
}
