package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "helpdesk"

// Domain Prometheus metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Total number of completion service requests",
		},
		[]string{"model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Completion service request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"model", "type"},
	)

	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Composed answers by source and language",
		},
		[]string{"source", "language"},
	)

	EscalationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Conversations handed to a human agent",
		},
		[]string{"reason"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of tracked dialogue sessions",
		},
	)

	SessionsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed by the idle sweep",
		},
	)

	RankingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_cache_total",
			Help:      "Ranking cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	KnowledgeBaseRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "knowledge_base_records",
			Help:      "Records in the current knowledge base snapshot",
		},
	)

	KnowledgeBaseLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_base_loads_total",
			Help:      "Knowledge base load attempts by status",
		},
		[]string{"status"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers Prometheus domain metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(CompletionTokensTotal)
	prometheus.MustRegister(AnswersTotal)
	prometheus.MustRegister(EscalationsTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionsEvictedTotal)
	prometheus.MustRegister(RankingCacheTotal)
	prometheus.MustRegister(KnowledgeBaseRecords)
	prometheus.MustRegister(KnowledgeBaseLoadsTotal)
	domainMetricsRegistered = true
}
