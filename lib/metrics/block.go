package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type BlockMetrics struct {
	Height   metrics.Gauge
	TotalTxs metrics.Gauge
}

func (c *BlockMetrics) SetHeight(height uint64) {
	c.Height.Set(float64(height))
}

func (c *BlockMetrics) SetTotalTxs(total uint64) {
	c.TotalTxs.Set(float64(total))
}

func PromBlockMetrics() *BlockMetrics {
	return &BlockMetrics{
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BlockSubsystem,
			Name:      "height",
			Help:      "Height of the latest block.",
		}, []string{}),
		TotalTxs: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BlockSubsystem,
			Name:      "total_txs",
			Help:      "Total number of applied transactions.",
		}, []string{}),
	}
}

func NopBlockMetrics() *BlockMetrics {
	return &BlockMetrics{
		Height:   discard.NewGauge(),
		TotalTxs: discard.NewGauge(),
	}
}
