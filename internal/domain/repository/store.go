package repository

import "context"

// Store выполняет функцию в рамках одной транзакции хранилища.
// Ошибка fn откатывает все изменения.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

type Tx interface {
	Config() ConfigRepository
	Accounts() AccountRepository
	Cases() CaseRepository
	Claims() ClaimRepository
	Offers() OfferRepository
	Arbitrators() ArbitratorRepository
	Nominees() NomineeRepository
	Elections() ElectionRepository
	Transfers() TransferRepository
	Principals() PrincipalRepository
}
