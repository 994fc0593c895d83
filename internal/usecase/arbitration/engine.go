package arbitration

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

// Metrics получает результат каждого выполненного действия.
type Metrics interface {
	ObserveAction(action string, code string, duration time.Duration)
	SetFunds(available, reserved valueobject.Asset)
}

type InitSettings struct {
	Version string
	Params  entity.ConfigParams
}

func DefaultInitSettings() InitSettings {
	return InitSettings{
		Version: "0.1.0",
		Params: entity.ConfigParams{
			MaxElectedArbitrators:   21,
			ElectionVotingDuration:  2505600 * time.Second,
			RunoffVotingDuration:    604800 * time.Second,
			AddCandidatesDuration:   604800 * time.Second,
			ArbitratorTermLength:    31536000 * time.Second,
			MaxClaimsPerCase:        21,
			FeeUSD:                  valueobject.NewAsset(100000, valueobject.USD),
			AcceptingOffersDuration: 604800 * time.Second,
		},
	}
}

// Engine выполняет действия арбитража строго по одному, каждое в своей транзакции.
type Engine struct {
	store    repository.Store
	oracle   repository.PriceOracle
	ballots  repository.BallotService
	notifier repository.Notifier
	metrics  Metrics
	log      logrus.FieldLogger
	clock    func() time.Time
	self     string
	settings InitSettings
	handlers map[Action]handler

	mu sync.Mutex
}

type Option func(*Engine)

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithNotifier(notifier repository.Notifier) Option {
	return func(e *Engine) { e.notifier = notifier }
}

func WithMetrics(metrics Metrics) Option {
	return func(e *Engine) { e.metrics = metrics }
}

func WithInitSettings(settings InitSettings) Option {
	return func(e *Engine) { e.settings = settings }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(store repository.Store, oracle repository.PriceOracle, ballots repository.BallotService, self string, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		oracle:   oracle,
		ballots:  ballots,
		notifier: nopNotifier{},
		metrics:  nopMetrics{},
		log:      logger.Get(),
		clock:    time.Now,
		self:     self,
		settings: DefaultInitSettings(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = e.routes()
	return e
}

// Self возвращает аккаунт самого контракта.
func (e *Engine) Self() string {
	return e.self
}

// Actions возвращает список поддерживаемых действий.
func (e *Engine) Actions() []Action {
	actions := make([]Action, 0, len(e.handlers))
	for a := range e.handlers {
		actions = append(actions, a)
	}
	return actions
}

// Dispatch разбирает параметры действия из JSON и выполняет его от имени actor.
func (e *Engine) Dispatch(ctx context.Context, actor string, action Action, raw json.RawMessage) (interface{}, error) {
	h, ok := e.handlers[action]
	if !ok {
		return nil, apperror.ErrUnknownAction
	}
	params, err := h.decode(raw)
	if err != nil {
		return nil, err
	}
	return e.Do(ctx, actor, params)
}

// Do выполняет действие от имени actor. Авторизация проверяется до любых изменений.
func (e *Engine) Do(ctx context.Context, actor string, params Params) (interface{}, error) {
	h, ok := e.handlers[params.Action()]
	if !ok {
		return nil, apperror.ErrUnknownAction
	}
	return e.run(ctx, params.Action(), actor, func(s *session) (interface{}, error) {
		allowed, err := h.authorize(s, params)
		if err != nil {
			return nil, err
		}
		if !containsPrincipal(allowed, actor) {
			return nil, apperror.ErrForbidden
		}
		return h.execute(s, params)
	})
}

// Deposit обрабатывает уведомление о входящем переводе токенов.
func (e *Engine) Deposit(ctx context.Context, deposit entity.Deposit) error {
	_, err := e.run(ctx, actionTransfer, deposit.From, func(s *session) (interface{}, error) {
		return nil, s.deposit(deposit)
	})
	return err
}

func (e *Engine) run(ctx context.Context, action Action, actor string, fn func(s *session) (interface{}, error)) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var (
		result interface{}
		s      *session
	)
	err := e.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		s = newSession(ctx, e, tx)
		var err error
		result, err = fn(s)
		if err != nil {
			return err
		}
		return s.flush()
	})

	e.observe(action, actor, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if s.cfg != nil {
		e.metrics.SetFunds(s.cfg.AvailableFunds, s.cfg.ReservedFunds)
	}
	for _, n := range s.notifications {
		e.notifier.Notify(n.principal, n.event)
	}
	return result, nil
}

func (e *Engine) observe(action Action, actor string, duration time.Duration, err error) {
	code := "OK"
	if err != nil {
		code = string(apperror.CodeOf(err))
	}
	e.metrics.ObserveAction(string(action), code, duration)

	fields := logrus.Fields{
		"action":   action,
		"actor":    actor,
		"duration": duration.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		fields["code"] = code
		if code == string(apperror.ErrCodeInternal) || code == string(apperror.ErrCodeDatabaseError) || code == string(apperror.ErrCodeInvariant) {
			e.log.WithFields(fields).Error("action failed")
			return
		}
		e.log.WithFields(fields).Warn("action rejected")
		return
	}
	e.log.WithFields(fields).Info("action executed")
}

type handler struct {
	decode    func(raw json.RawMessage) (Params, error)
	authorize func(s *session, p Params) ([]string, error)
	execute   func(s *session, p Params) (interface{}, error)
}

func bind[P Params](auth func(s *session, p P) ([]string, error), exec func(s *session, p P) (interface{}, error)) handler {
	return handler{
		decode: func(raw json.RawMessage) (Params, error) {
			var p P
			if len(bytes.TrimSpace(raw)) == 0 {
				return p, nil
			}
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&p); err != nil {
				return nil, apperror.Wrap(err, apperror.ErrCodeValidation, apperror.ErrInvalidParams.Message)
			}
			return p, nil
		},
		authorize: func(s *session, p Params) ([]string, error) {
			return auth(s, p.(P))
		},
		execute: func(s *session, p Params) (interface{}, error) {
			return exec(s, p.(P))
		},
	}
}

func containsPrincipal(list []string, principal string) bool {
	if principal == "" {
		return false
	}
	for _, p := range list {
		if p == principal {
			return true
		}
	}
	return false
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, repository.Event) {}

type nopMetrics struct{}

func (nopMetrics) ObserveAction(string, string, time.Duration) {}

func (nopMetrics) SetFunds(valueobject.Asset, valueobject.Asset) {}
