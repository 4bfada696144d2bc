// Package metrics records invoice generation counters for batch runs and
// writes them in the Prometheus text format, for node_exporter's textfile
// collector.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"facturx/internal/facturx/xsd"
	"facturx/internal/invoice"
	"facturx/pkg/models"
)

const namespace = "facturx"

// Recorder holds the generation metrics of one process.
type Recorder struct {
	registry  *prometheus.Registry
	generated *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  prometheus.Histogram
	lastRun   prometheus.Gauge
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_generated_total",
			Help:      "Invoices generated, by CII profile.",
		}, []string{"profile"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_failed_total",
			Help:      "Invoices that could not be generated, by failure reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_generation_seconds",
			Help:      "Time spent generating one invoice.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last generation run.",
		}),
	}
	r.registry.MustRegister(r.generated, r.failed, r.duration, r.lastRun)
	return r
}

// Generated records a successful invoice.
func (r *Recorder) Generated(profile string, took time.Duration) {
	r.generated.WithLabelValues(profile).Inc()
	r.duration.Observe(took.Seconds())
}

// Failed records a failed invoice under the reason derived from err.
func (r *Recorder) Failed(err error) {
	r.failed.WithLabelValues(Reason(err)).Inc()
}

// Finished stamps the end of a run.
func (r *Recorder) Finished(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Reason maps an error to a low-cardinality label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, invoice.ErrContextCanceled):
		return "canceled"
	case errors.Is(err, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, models.ErrMissingPrerequisite):
		return "missing_prerequisite"
	case errors.Is(err, models.ErrUnclassifiableRate):
		return "unclassifiable_rate"
	case errors.Is(err, models.ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, models.ErrDateParse):
		return "date_parse"
	case errors.Is(err, xsd.ErrInvalidDocument):
		return "schema"
	default:
		return "other"
	}
}
