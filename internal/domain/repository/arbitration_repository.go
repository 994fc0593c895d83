package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*entity.Config, error)
	Save(ctx context.Context, config *entity.Config) error
}

type AccountRepository interface {
	// FindByOwner возвращает nil без ошибки, если баланса нет.
	FindByOwner(ctx context.Context, owner string) (*entity.Account, error)
	Save(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, owner string) error
}

type CaseFilter struct {
	Claimant   string
	Respondant string
	Status     *valueobject.CaseStatus
	Limit      int
	Offset     int
}

type CaseRepository interface {
	NextID(ctx context.Context) (uint64, error)
	Create(ctx context.Context, caseFile *entity.CaseFile) error
	Update(ctx context.Context, caseFile *entity.CaseFile) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entity.CaseFile, error)
	List(ctx context.Context, filter CaseFilter) ([]*entity.CaseFile, error)
}

type ClaimRepository interface {
	NextID(ctx context.Context) (uint64, error)
	Create(ctx context.Context, claim *entity.Claim) error
	Update(ctx context.Context, claim *entity.Claim) error
	Delete(ctx context.Context, caseID, id uint64) error
	DeleteByCaseID(ctx context.Context, caseID uint64) error
	FindByID(ctx context.Context, caseID, id uint64) (*entity.Claim, error)
	FindByCaseID(ctx context.Context, caseID uint64) ([]*entity.Claim, error)
}

type OfferRepository interface {
	NextID(ctx context.Context) (uint64, error)
	Create(ctx context.Context, offer *entity.Offer) error
	Update(ctx context.Context, offer *entity.Offer) error
	FindByID(ctx context.Context, id uint64) (*entity.Offer, error)
	FindByCaseID(ctx context.Context, caseID uint64) ([]*entity.Offer, error)
}

type ArbitratorRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Arbitrator, error)
	Save(ctx context.Context, arbitrator *entity.Arbitrator) error
	List(ctx context.Context) ([]*entity.Arbitrator, error)
}

type NomineeRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Nominee, error)
	Save(ctx context.Context, nominee *entity.Nominee) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*entity.Nominee, error)
}

type ElectionRepository interface {
	NextID(ctx context.Context) (uint64, error)
	Create(ctx context.Context, election *entity.Election) error
	Update(ctx context.Context, election *entity.Election) error
	FindByID(ctx context.Context, id uint64) (*entity.Election, error)
	// FindByBallotName возвращает nil без ошибки, если бюллетень не найден.
	FindByBallotName(ctx context.Context, ballotName string) (*entity.Election, error)
	List(ctx context.Context) ([]*entity.Election, error)
}

type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	Update(ctx context.Context, transfer *entity.Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transfer, error)
	FindPending(ctx context.Context, limit int) ([]*entity.Transfer, error)
	FindByAccount(ctx context.Context, account string) ([]*entity.Transfer, error)
}

type PrincipalRepository interface {
	Create(ctx context.Context, principal *entity.Principal) error
	FindByName(ctx context.Context, name string) (*entity.Principal, error)
	Exists(ctx context.Context, name string) (bool, error)
}
