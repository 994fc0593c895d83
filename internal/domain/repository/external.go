package repository

import (
	"context"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

// PriceOracle отдаёт медиану TLOS/USD с точностью 4 знака (6500 = 0.6500 USD за TLOS).
type PriceOracle interface {
	TLOSUSDMedian(ctx context.Context) (uint64, error)
}

type BallotService interface {
	// Account - получатель платы за создание бюллетеня.
	Account() string
	Fee(ctx context.Context) (valueobject.Asset, error)
	CreateBallot(ctx context.Context, req entity.BallotRequest) error
	CloseBallot(ctx context.Context, name string) ([]entity.Tally, error)
}

type TokenLedger interface {
	Transfer(ctx context.Context, transfer *entity.Transfer) error
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Notifier interface {
	Notify(principal string, event Event)
}
