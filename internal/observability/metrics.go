package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the relay.
type Metrics struct {
	Events             *prometheus.CounterVec
	Completions        *prometheus.CounterVec
	CompletionDuration prometheus.Histogram
	SendFailures       *prometheus.CounterVec

	registerer prometheus.Registerer
	namespace  string
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound chat events by kind.",
		}, []string{"kind"}),
		Completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion API calls by result.",
		}, []string{"result"}),
		CompletionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion API call latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		SendFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outbound chat transport failures by operation.",
		}, []string{"op"}),
		registerer: reg,
		namespace:  namespace,
	}
}

// TrackConversations exports the number of stored conversations, read
// lazily at scrape time.
func (m *Metrics) TrackConversations(count func() int) {
	promauto.With(m.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "conversations",
		Help:      "Number of users with an in-memory conversation window.",
	}, func() float64 {
		return float64(count())
	})
}

func (m *Metrics) ObserveCompletion(result string, d time.Duration) {
	m.Completions.WithLabelValues(result).Inc()
	m.CompletionDuration.Observe(d.Seconds())
}

func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
