package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

// ArbitrationMetrics собирает метрики движка арбитража и воркера переводов.
type ArbitrationMetrics struct {
	actions   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	funds     *prometheus.GaugeVec
	transfers *prometheus.CounterVec
}

var (
	arbitrationOnce     sync.Once
	arbitrationRegistry *ArbitrationMetrics
)

// Arbitration возвращает лениво зарегистрированный набор метрик.
func Arbitration() *ArbitrationMetrics {
	arbitrationOnce.Do(func() {
		arbitrationRegistry = &ArbitrationMetrics{
			actions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "arbitration",
				Subsystem: "engine",
				Name:      "actions_total",
				Help:      "Executed actions segmented by action name and result code.",
			}, []string{"action", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "arbitration",
				Subsystem: "engine",
				Name:      "action_duration_seconds",
				Help:      "Latency of actions including the storage transaction.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"action"}),
			funds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "arbitration",
				Subsystem: "ledger",
				Name:      "funds_tlos",
				Help:      "Contract funds in TLOS split into available and reserved.",
			}, []string{"kind"}),
			transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "arbitration",
				Subsystem: "transfers",
				Name:      "deliveries_total",
				Help:      "Outbound transfer delivery attempts segmented by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			arbitrationRegistry.actions,
			arbitrationRegistry.latency,
			arbitrationRegistry.funds,
			arbitrationRegistry.transfers,
		)
	})
	return arbitrationRegistry
}

func (m *ArbitrationMetrics) ObserveAction(action string, code string, duration time.Duration) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	m.actions.WithLabelValues(action, code).Inc()
	m.latency.WithLabelValues(action).Observe(duration.Seconds())
}

func (m *ArbitrationMetrics) SetFunds(available, reserved valueobject.Asset) {
	if m == nil {
		return
	}
	m.funds.WithLabelValues("available").Set(assetFloat(available))
	m.funds.WithLabelValues("reserved").Set(assetFloat(reserved))
}

// ObserveTransfer учитывает попытку доставки: sent, retry или failed.
func (m *ArbitrationMetrics) ObserveTransfer(outcome string) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(outcome).Inc()
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

func assetFloat(a valueobject.Asset) float64 {
	f, _ := decimal.New(a.Amount, -int32(a.Symbol.Precision)).Float64()
	return f
}
