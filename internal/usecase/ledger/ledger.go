package ledger

import (
	"context"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// Ledger ведёт балансы аккаунтов и доступные/зарезервированные средства контракта.
// Изменения config сохраняет вызывающая сторона.
type Ledger struct {
	accounts repository.AccountRepository
	config   *entity.Config
}

func New(accounts repository.AccountRepository, config *entity.Config) *Ledger {
	return &Ledger{accounts: accounts, config: config}
}

func (l *Ledger) Balance(ctx context.Context, owner string) (valueobject.Asset, error) {
	account, err := l.accounts.FindByOwner(ctx, owner)
	if err != nil {
		return valueobject.Asset{}, err
	}
	if account == nil {
		return valueobject.ZeroAsset(valueobject.TLOS), nil
	}
	return account.Balance, nil
}

func (l *Ledger) Credit(ctx context.Context, owner string, amount valueobject.Asset) error {
	if err := amount.Require(valueobject.TLOS); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return nil
	}

	account, err := l.accounts.FindByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if account == nil {
		return l.accounts.Save(ctx, entity.NewAccount(owner, amount))
	}

	balance, err := account.Balance.Add(amount)
	if err != nil {
		return err
	}
	account.Balance = balance
	return l.accounts.Save(ctx, account)
}

func (l *Ledger) Debit(ctx context.Context, owner string, amount valueobject.Asset) error {
	if err := amount.Require(valueobject.TLOS); err != nil {
		return err
	}

	account, err := l.accounts.FindByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if account == nil {
		if amount.IsZero() {
			return nil
		}
		return apperror.ErrOverdrawn
	}

	if account.Balance.Amount < amount.Amount {
		return apperror.ErrOverdrawn
	}
	balance, err := account.Balance.Sub(amount)
	if err != nil {
		return err
	}
	if balance.IsZero() {
		return l.accounts.Delete(ctx, owner)
	}
	account.Balance = balance
	return l.accounts.Save(ctx, account)
}

// Withdraw списывает весь баланс владельца.
func (l *Ledger) Withdraw(ctx context.Context, owner string) (valueobject.Asset, error) {
	account, err := l.accounts.FindByOwner(ctx, owner)
	if err != nil {
		return valueobject.Asset{}, err
	}
	if account == nil || !account.Balance.IsPositive() {
		return valueobject.Asset{}, apperror.ErrNoBalance
	}
	amount := account.Balance
	if err := l.accounts.Delete(ctx, owner); err != nil {
		return valueobject.Asset{}, err
	}
	return amount, nil
}

func (l *Ledger) Reserve(amount valueobject.Asset) error {
	if l.config.AvailableFunds.Symbol == amount.Symbol && l.config.AvailableFunds.Amount < amount.Amount {
		return apperror.ErrInsufficientFunds
	}
	available, err := l.config.AvailableFunds.Sub(amount)
	if err != nil {
		return err
	}
	reserved, err := l.config.ReservedFunds.Add(amount)
	if err != nil {
		return err
	}
	l.config.AvailableFunds = available
	l.config.ReservedFunds = reserved
	return nil
}

// Release возвращает зарезервированную сумму в доступные средства.
func (l *Ledger) Release(amount valueobject.Asset) error {
	if err := l.unreserve(amount); err != nil {
		return err
	}
	available, err := l.config.AvailableFunds.Add(amount)
	if err != nil {
		return err
	}
	l.config.AvailableFunds = available
	return nil
}

// Escrow переводит сумму с баланса аккаунта в резерв контракта.
func (l *Ledger) Escrow(ctx context.Context, from string, amount valueobject.Asset) error {
	reserved, err := l.config.ReservedFunds.Add(amount)
	if err != nil {
		return err
	}
	if err := l.Debit(ctx, from, amount); err != nil {
		return err
	}
	l.config.ReservedFunds = reserved
	return nil
}

// Payout выплачивает сумму из резерва на баланс аккаунта.
func (l *Ledger) Payout(ctx context.Context, to string, amount valueobject.Asset) error {
	if err := l.unreserve(amount); err != nil {
		return err
	}
	return l.Credit(ctx, to, amount)
}

// Fund пополняет доступные средства контракта.
func (l *Ledger) Fund(amount valueobject.Asset) error {
	if err := amount.Require(valueobject.TLOS); err != nil {
		return err
	}
	available, err := l.config.AvailableFunds.Add(amount)
	if err != nil {
		return err
	}
	l.config.AvailableFunds = available
	return nil
}

// Spend списывает доступные средства контракта на внешний платёж.
func (l *Ledger) Spend(amount valueobject.Asset) error {
	if err := l.RequireAvailable(amount); err != nil {
		return err
	}
	available, err := l.config.AvailableFunds.Sub(amount)
	if err != nil {
		return err
	}
	l.config.AvailableFunds = available
	return nil
}

func (l *Ledger) RequireAvailable(amount valueobject.Asset) error {
	cmp, err := l.config.AvailableFunds.Cmp(amount)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return apperror.ErrInsufficientFunds
	}
	return nil
}

func (l *Ledger) unreserve(amount valueobject.Asset) error {
	cmp, err := l.config.ReservedFunds.Cmp(amount)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return apperror.ErrReservedUnderflow
	}
	reserved, err := l.config.ReservedFunds.Sub(amount)
	if err != nil {
		return err
	}
	l.config.ReservedFunds = reserved
	return nil
}
