package arbitration

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// MemoSkip в переводе на счёт контракта пополняет доступные средства вместо баланса отправителя.
const MemoSkip = "skip"

func (s *session) withdraw(p WithdrawParams) (interface{}, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}
	amount, err := funds.Withdraw(s.ctx, p.Owner)
	if err != nil {
		return nil, err
	}
	transfer, err := s.enqueueTransfer(valueobject.TransferKindWithdrawal, p.Owner, amount, "arbitration withdrawal")
	if err != nil {
		return nil, err
	}
	result := WithdrawResult{TransferID: transfer.ID.String(), Quantity: amount}
	s.notify(p.Owner, EventTransferScheduled, result)
	return result, nil
}

func (s *session) deposit(d entity.Deposit) error {
	if _, err := s.config(); err != nil {
		return err
	}
	if err := d.Quantity.Require(valueobject.TLOS); err != nil {
		return err
	}
	if d.From == s.self() {
		return nil
	}
	if d.To != s.self() {
		return apperror.New(apperror.ErrCodeValidation, "перевод адресован другому аккаунту")
	}
	if !d.Quantity.IsPositive() {
		return apperror.ErrInvalidAsset
	}

	funds, err := s.funds()
	if err != nil {
		return err
	}
	if d.Memo == MemoSkip {
		return funds.Fund(d.Quantity)
	}
	if err := funds.Credit(s.ctx, d.From, d.Quantity); err != nil {
		return err
	}
	s.notify(d.From, EventBalanceCredited, entity.NewAccount(d.From, d.Quantity))
	return nil
}
