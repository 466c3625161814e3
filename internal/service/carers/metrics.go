package carers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks directory loads and review writes.
type Metrics struct {
	Fetches             *prometheus.CounterVec
	FetchDuration       prometheus.Histogram
	ReviewBatchFailures prometheus.Counter
	ReviewWrites        *prometheus.CounterVec
	ReviewsAdded        *prometheus.CounterVec
}

// NewMetrics registers the directory metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carers_fetch_total",
			Help: "Directory loads by outcome (loaded, unavailable, failed)",
		}, []string{"outcome"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carers_fetch_duration_seconds",
			Help:    "Duration of directory loads including review enrichment",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ReviewBatchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "carers_review_batch_failures_total",
			Help: "Review batch queries that failed and were skipped",
		}),
		ReviewWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carers_review_writes_total",
			Help: "Individual review writes by target and result",
		}, []string{"target", "result"}),
		ReviewsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carers_reviews_added_total",
			Help: "AddReview calls by outcome (stored, local, rejected, failed)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeFetch(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) batchFailed() {
	if m == nil {
		return
	}
	m.ReviewBatchFailures.Inc()
}

func (m *Metrics) write(r WriteResult) {
	if m == nil {
		return
	}
	result := "ok"
	if r.Err != nil {
		result = "error"
	}
	m.ReviewWrites.WithLabelValues(r.Target, result).Inc()
}

func (m *Metrics) reviewAdded(outcome string) {
	if m == nil {
		return
	}
	m.ReviewsAdded.WithLabelValues(outcome).Inc()
}
