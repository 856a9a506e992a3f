package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "campus"
	subsystem = "assistant"
)

// AssistantMetrics exposes counters/histograms for conversation turns.
type AssistantMetrics struct {
	turnsTotal     *prometheus.CounterVec
	retrievalTotal *prometheus.CounterVec
	reviewsTotal   *prometheus.CounterVec
	modelLatency   *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "turns_total",
			Help:      "Conversation turns by routed intent and terminal path",
		}, []string{"intent", "path"}),
		retrievalTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retrieval_total",
			Help:      "Context retrievals by the tier that produced them",
		}, []string{"tier", "degraded"}),
		reviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reviews_total",
			Help:      "Reviews recorded by sentiment",
		}, []string{"sentiment"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "model_latency_seconds",
			Help:      "Latency of language model calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}, []string{"lang", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.retrievalTotal, m.reviewsTotal, m.modelLatency)
	return m
}

func (m *AssistantMetrics) ObserveTurn(intent, path string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, path).Inc()
}

func (m *AssistantMetrics) ObserveRetrieval(tier string, degraded bool) {
	if m == nil {
		return
	}
	m.retrievalTotal.WithLabelValues(tier, strconv.FormatBool(degraded)).Inc()
}

func (m *AssistantMetrics) ObserveReview(sentiment string) {
	if m == nil {
		return
	}
	m.reviewsTotal.WithLabelValues(sentiment).Inc()
}

func (m *AssistantMetrics) ObserveModelLatency(lang, status string, seconds float64) {
	if m == nil {
		return
	}
	m.modelLatency.WithLabelValues(lang, status).Observe(seconds)
}
