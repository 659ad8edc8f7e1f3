package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type GovernanceMetrics struct {
	Operations     metrics.Counter
	Events         metrics.Counter
	VotesConcluded metrics.Counter
	LockedDeposits metrics.Gauge
}

func (m *GovernanceMetrics) AddOperation(operationType string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.Operations.With("type", operationType, "result", result).Add(1)
}

func (m *GovernanceMetrics) AddEvent(eventType string) {
	m.Events.With("type", eventType).Add(1)
}

func (m *GovernanceMetrics) AddConcluded(voteType string) {
	m.VotesConcluded.With("vote_type", voteType).Add(1)
}

func (m *GovernanceMetrics) AddLockedDeposit(delta float64) {
	m.LockedDeposits.Add(delta)
}

func PromGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		Operations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "operations_total",
			Help:      "Total number of applied operations.",
		}, []string{"type", "result"}),
		Events: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "events_total",
			Help:      "Total number of emitted events.",
		}, []string{"type"}),
		VotesConcluded: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "votes_concluded_total",
			Help:      "Total number of concluded votes.",
		}, []string{"vote_type"}),
		LockedDeposits: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "locked_deposits",
			Help:      "Amount currently held by lock votes.",
		}, []string{}),
	}
}

func NopGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		Operations:     discard.NewCounter(),
		Events:         discard.NewCounter(),
		VotesConcluded: discard.NewCounter(),
		LockedDeposits: discard.NewGauge(),
	}
}
