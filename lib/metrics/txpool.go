package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	RejectedDuplicated = "duplicated"
	RejectedPoolFull   = "pool_full"
)

// TxPoolMetrics follows the submitted transactions waiting for a block.
type TxPoolMetrics struct {
	Size     metrics.Gauge
	Rejected metrics.Counter
}

func (m *TxPoolMetrics) AddSize(delta int) {
	m.Size.Add(float64(delta))
}

func (m *TxPoolMetrics) AddRejected(reason string) {
	m.Rejected.With("reason", reason).Add(1)
}

func PromTxPoolMetrics() *TxPoolMetrics {
	return &TxPoolMetrics{
		Size: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: TxPoolSubsystem,
			Name:      "size",
			Help:      "Number of pooled transactions.",
		}, []string{}),
		Rejected: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: TxPoolSubsystem,
			Name:      "rejected_total",
			Help:      "Total number of transactions the pool refused.",
		}, []string{"reason"}),
	}
}

func NopTxPoolMetrics() *TxPoolMetrics {
	return &TxPoolMetrics{
		Size:     discard.NewGauge(),
		Rejected: discard.NewCounter(),
	}
}
