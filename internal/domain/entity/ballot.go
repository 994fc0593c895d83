package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

type BallotRequest struct {
	Name       string    `json:"ballot_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Options    []string  `json:"options"`
	MinOptions uint8     `json:"min_options"`
	MaxOptions uint8     `json:"max_options"`
	EndTime    time.Time `json:"end_time"`
}

type Tally struct {
	Option string `json:"option"`
	Votes  uint64 `json:"votes"`
}

// Deposit - входящее уведомление о переводе токенов на счёт контракта.
type Deposit struct {
	From     string
	To       string
	Quantity valueobject.Asset
	Memo     string
}
