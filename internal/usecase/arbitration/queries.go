package arbitration

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/ledger"
)

// Queries - чтение состояния вне очереди действий.
type Queries struct {
	store repository.Store
}

func NewQueries(store repository.Store) *Queries {
	return &Queries{store: store}
}

type CaseDetails struct {
	Case   *entity.CaseFile `json:"case"`
	Claims []*entity.Claim  `json:"claims"`
	Offers []*entity.Offer  `json:"offers"`
}

func (q *Queries) Config(ctx context.Context) (*entity.Config, error) {
	var cfg *entity.Config
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		cfg, err = tx.Config().Get(ctx)
		return err
	})
	return cfg, err
}

func (q *Queries) Balance(ctx context.Context, owner string) (valueobject.Asset, error) {
	var balance valueobject.Asset
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		balance, err = ledger.New(tx.Accounts(), nil).Balance(ctx, owner)
		return err
	})
	return balance, err
}

func (q *Queries) Cases(ctx context.Context, filter repository.CaseFilter) ([]*entity.CaseFile, error) {
	var cases []*entity.CaseFile
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		cases, err = tx.Cases().List(ctx, filter)
		return err
	})
	return cases, err
}

func (q *Queries) Case(ctx context.Context, id uint64) (*CaseDetails, error) {
	details := &CaseDetails{}
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if details.Case, err = tx.Cases().FindByID(ctx, id); err != nil {
			return err
		}
		if details.Claims, err = tx.Claims().FindByCaseID(ctx, id); err != nil {
			return err
		}
		details.Offers, err = tx.Offers().FindByCaseID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (q *Queries) Arbitrators(ctx context.Context) ([]*entity.Arbitrator, error) {
	var arbs []*entity.Arbitrator
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		arbs, err = tx.Arbitrators().List(ctx)
		return err
	})
	return arbs, err
}

func (q *Queries) Arbitrator(ctx context.Context, name string) (*entity.Arbitrator, error) {
	var arb *entity.Arbitrator
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		arb, err = tx.Arbitrators().FindByName(ctx, name)
		return err
	})
	return arb, err
}

func (q *Queries) Nominees(ctx context.Context) ([]*entity.Nominee, error) {
	var nominees []*entity.Nominee
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		nominees, err = tx.Nominees().List(ctx)
		return err
	})
	return nominees, err
}

func (q *Queries) Elections(ctx context.Context) ([]*entity.Election, error) {
	var elections []*entity.Election
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		elections, err = tx.Elections().List(ctx)
		return err
	})
	return elections, err
}

func (q *Queries) Election(ctx context.Context, id uint64) (*entity.Election, error) {
	var election *entity.Election
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		election, err = tx.Elections().FindByID(ctx, id)
		return err
	})
	return election, err
}

func (q *Queries) Transfers(ctx context.Context, account string) ([]*entity.Transfer, error) {
	var transfers []*entity.Transfer
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		transfers, err = tx.Transfers().FindByAccount(ctx, account)
		return err
	})
	return transfers, err
}

func (q *Queries) Transfer(ctx context.Context, id uuid.UUID) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := q.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		transfer, err = tx.Transfers().FindByID(ctx, id)
		return err
	})
	return transfer, err
}
