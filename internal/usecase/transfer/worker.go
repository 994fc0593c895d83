package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/goroutine"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/ledger"
)

const defaultBatchSize = 50

type Metrics interface {
	ObserveTransfer(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTransfer(string) {}

// Worker доставляет исходящие переводы из очереди в леджер токена.
type Worker struct {
	store    repository.Store
	ledger   repository.TokenLedger
	metrics  Metrics
	log      logrus.FieldLogger
	clock    func() time.Time
	interval time.Duration
	batch    int
}

func NewWorker(store repository.Store, ledger repository.TokenLedger, interval time.Duration, metrics Metrics) *Worker {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Worker{
		store:    store,
		ledger:   ledger,
		metrics:  metrics,
		log:      logger.Component("transfer_worker"),
		clock:    time.Now,
		interval: interval,
		batch:    defaultBatchSize,
	}
}

// Start запускает периодическую доставку до отмены ctx.
func (w *Worker) Start(ctx context.Context) {
	goroutine.SafeGoWithContext(ctx, "transfer_worker", w.loop)
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				w.log.WithError(err).Warn("transfer delivery round failed")
			}
		}
	}
}

// RunOnce отправляет одну пачку ожидающих переводов и возвращает число отправленных.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	var pending []*entity.Transfer
	err := w.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		pending, err = tx.Transfers().FindPending(ctx, w.batch)
		return err
	})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, t := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		deliveryErr := w.ledger.Transfer(ctx, t)
		outcome, err := w.record(ctx, t, deliveryErr)
		if err != nil {
			return sent, err
		}
		w.metrics.ObserveTransfer(outcome)

		fields := logrus.Fields{
			"transfer_id": t.ID,
			"to":          t.To,
			"quantity":    t.Quantity.String(),
			"outcome":     outcome,
		}
		if deliveryErr != nil {
			w.log.WithFields(fields).WithError(deliveryErr).Warn("transfer delivery failed")
			continue
		}
		sent++
		w.log.WithFields(fields).Info("transfer delivered")
	}
	return sent, nil
}

func (w *Worker) record(ctx context.Context, t *entity.Transfer, deliveryErr error) (string, error) {
	outcome := "sent"
	err := w.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Transfers().FindByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if current.Status != valueobject.TransferStatusPending {
			outcome = "skipped"
			return nil
		}
		if deliveryErr != nil {
			outcome = "retry"
			if current.MarkFailed(deliveryErr) {
				outcome = "failed"
				if err := refund(ctx, tx, current); err != nil {
					return err
				}
			}
		} else {
			current.MarkSent(w.clock().UTC())
		}
		return tx.Transfers().Update(ctx, current)
	})
	return outcome, err
}

// refund возвращает сумму окончательно неудавшегося перевода туда, откуда она была списана.
func refund(ctx context.Context, tx repository.Tx, t *entity.Transfer) error {
	cfg, err := tx.Config().Get(ctx)
	if err != nil {
		return err
	}
	funds := ledger.New(tx.Accounts(), cfg)

	switch t.Kind {
	case valueobject.TransferKindWithdrawal:
		return funds.Credit(ctx, t.To, t.Quantity)
	case valueobject.TransferKindBallotFee:
		if err := funds.Fund(t.Quantity); err != nil {
			return err
		}
		return tx.Config().Save(ctx, cfg)
	default:
		return apperror.New(apperror.ErrCodeInvariant, fmt.Sprintf("неизвестный тип перевода %q", t.Kind))
	}
}
