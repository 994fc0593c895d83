package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

const MaxTransferAttempts = 5

// Transfer - исходящий перевод токенов, ожидающий отправки в леджер.
type Transfer struct {
	ID        uuid.UUID                  `json:"id"`
	Kind      valueobject.TransferKind   `json:"kind"`
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Quantity  valueobject.Asset          `json:"quantity"`
	Memo      string                     `json:"memo"`
	Status    valueobject.TransferStatus `json:"status"`
	Attempts  int                        `json:"attempts"`
	LastError string                     `json:"last_error,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	SentAt    *time.Time                 `json:"sent_at,omitempty"`
}

func NewTransfer(kind valueobject.TransferKind, from, to string, quantity valueobject.Asset, memo string, now time.Time) *Transfer {
	return &Transfer{
		ID:        uuid.New(),
		Kind:      kind,
		From:      from,
		To:        to,
		Quantity:  quantity,
		Memo:      memo,
		Status:    valueobject.TransferStatusPending,
		CreatedAt: now,
	}
}

func (t *Transfer) MarkSent(now time.Time) {
	t.Status = valueobject.TransferStatusSent
	t.Attempts++
	t.LastError = ""
	t.SentAt = &now
}

// MarkFailed фиксирует неудачную попытку; после MaxTransferAttempts перевод больше не повторяется.
// Возвращает true, если перевод стал окончательно неудачным и сумму нужно вернуть.
func (t *Transfer) MarkFailed(err error) bool {
	t.Attempts++
	t.LastError = err.Error()
	if t.Attempts >= MaxTransferAttempts {
		t.Status = valueobject.TransferStatusFailed
		return true
	}
	return false
}
