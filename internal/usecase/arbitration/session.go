package arbitration

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/ledger"
)

type notification struct {
	principal string
	event     repository.Event
}

// session - состояние одного действия: транзакция, момент времени и загруженный config.
type session struct {
	ctx    context.Context
	tx     repository.Tx
	engine *Engine
	now    time.Time

	cfg           *entity.Config
	cfgDirty      bool
	ledger        *ledger.Ledger
	notifications []notification
}

func newSession(ctx context.Context, e *Engine, tx repository.Tx) *session {
	return &session{
		ctx:    ctx,
		tx:     tx,
		engine: e,
		now:    e.clock().UTC().Truncate(time.Second),
	}
}

func (s *session) self() string {
	return s.engine.self
}

func (s *session) config() (*entity.Config, error) {
	if s.cfg != nil {
		return s.cfg, nil
	}
	cfg, err := s.tx.Config().Get(s.ctx)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return cfg, nil
}

// mutableConfig загружает config и помечает его для сохранения в конце действия.
func (s *session) mutableConfig() (*entity.Config, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	s.cfgDirty = true
	return cfg, nil
}

func (s *session) funds() (*ledger.Ledger, error) {
	if s.ledger != nil {
		return s.ledger, nil
	}
	cfg, err := s.mutableConfig()
	if err != nil {
		return nil, err
	}
	s.ledger = ledger.New(s.tx.Accounts(), cfg)
	return s.ledger, nil
}

func (s *session) flush() error {
	if s.cfg == nil || !s.cfgDirty {
		return nil
	}
	return s.tx.Config().Save(s.ctx, s.cfg)
}

func (s *session) accountExists(name string) (bool, error) {
	if name == s.self() {
		return true, nil
	}
	return s.tx.Principals().Exists(s.ctx, name)
}

func (s *session) notify(principal string, eventType string, data interface{}) {
	if principal == "" {
		return
	}
	s.notifications = append(s.notifications, notification{
		principal: principal,
		event:     repository.Event{Type: eventType, Data: data},
	})
}

// usdToTLOS переводит сумму в USD в TLOS по медиане оракула с усечением.
func (s *session) usdToTLOS(amount valueobject.Asset) (valueobject.Asset, error) {
	if err := amount.Require(valueobject.USD); err != nil {
		return valueobject.Asset{}, err
	}
	median, err := s.engine.oracle.TLOSUSDMedian(s.ctx)
	if err != nil {
		return valueobject.Asset{}, apperror.Wrap(err, apperror.ErrCodeUnavailable, "оракул цены недоступен")
	}
	if median == 0 {
		return valueobject.Asset{}, apperror.New(apperror.ErrCodeUnavailable, "оракул вернул нулевую цену")
	}
	return amount.MulDiv(10000, median, valueobject.TLOS)
}

func (s *session) loadCase(id uint64) (*entity.CaseFile, error) {
	return s.tx.Cases().FindByID(s.ctx, id)
}

func (s *session) loadClaim(caseID, claimID uint64) (*entity.Claim, error) {
	return s.tx.Claims().FindByID(s.ctx, caseID, claimID)
}

func (s *session) saveCase(cf *entity.CaseFile) error {
	return s.tx.Cases().Update(s.ctx, cf)
}

// findNominee возвращает nil без ошибки, если номинант не зарегистрирован.
func (s *session) findNominee(name string) (*entity.Nominee, error) {
	n, err := s.tx.Nominees().FindByName(s.ctx, name)
	if errors.Is(err, apperror.ErrNomineeNotFound) {
		return nil, nil
	}
	return n, err
}

// findArbitrator возвращает nil без ошибки, если арбитр не найден.
func (s *session) findArbitrator(name string) (*entity.Arbitrator, error) {
	a, err := s.tx.Arbitrators().FindByName(s.ctx, name)
	if errors.Is(err, apperror.ErrArbitratorNotFound) {
		return nil, nil
	}
	return a, err
}

// currentElection возвращает nil без ошибки, если выборов ещё не было.
func (s *session) currentElection() (*entity.Election, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	election, err := s.tx.Elections().FindByID(s.ctx, cfg.CurrentElectionID)
	if errors.Is(err, apperror.ErrElectionNotFound) {
		return nil, nil
	}
	return election, err
}

func (s *session) enqueueTransfer(kind valueobject.TransferKind, to string, quantity valueobject.Asset, memo string) (*entity.Transfer, error) {
	transfer := entity.NewTransfer(kind, s.self(), to, quantity, memo, s.now)
	if err := s.tx.Transfers().Create(s.ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}
