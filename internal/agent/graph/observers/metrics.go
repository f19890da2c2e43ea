package observers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts turn outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	turns             *prometheus.CounterVec
	decisions         *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	handlerFailures   *prometheus.CounterVec
	classifierCostUSD prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Name:      "turns_total",
			Help:      "Turns handled, by routing path.",
		}, []string{"path"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Name:      "classifier_decisions_total",
			Help:      "Classifier decisions, by source and retry outcome.",
		}, []string{"source", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Name:      "validation_rejections_total",
			Help:      "Model decisions rejected by the validator, by action.",
		}, []string{"action"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Name:      "handler_failures_total",
			Help:      "Action handlers that failed on a collaborator, by action.",
		}, []string{"action"}),
		classifierCostUSD: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orderbot",
			Name:      "classifier_cost_usd_total",
			Help:      "Accumulated classifier model cost in USD.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.turns, m.decisions, m.rejections, m.handlerFailures, m.classifierCostUSD)
	}
	return m
}

func (m *Metrics) Turn(path string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(path).Inc()
}

func (m *Metrics) Decision(source, outcome string, costUSD float64) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(source, outcome).Inc()
	if costUSD > 0 {
		m.classifierCostUSD.Add(costUSD)
	}
}

func (m *Metrics) Rejection(action string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(action).Inc()
}

func (m *Metrics) HandlerFailure(action string) {
	if m == nil {
		return
	}
	m.handlerFailures.WithLabelValues(action).Inc()
}
