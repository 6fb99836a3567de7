package observe

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver exports wait activity as Prometheus metrics.
type PrometheusObserver struct {
	attempts  *prometheus.CounterVec
	sleeps    prometheus.Counter
	durations *prometheus.HistogramVec
	waits     *prometheus.CounterVec
}

// NewPrometheusObserver creates a PrometheusObserver and registers its
// metrics with registerer. If registerer is nil, the metrics are not
// registered anywhere.
func NewPrometheusObserver(registerer prometheus.Registerer, namespace string) *PrometheusObserver {
	o := &PrometheusObserver{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wait",
			Name:      "attempts_total",
			Help:      "Number of probe invocations, by label and outcome",
		}, []string{"label", "outcome"}),
		sleeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wait",
			Name:      "sleeps_total",
			Help:      "Number of backoff sleeps",
		}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wait",
			Name:      "duration_seconds",
			Help:      "Total duration of wait calls",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"label"}),
		waits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wait",
			Name:      "calls_total",
			Help:      "Number of completed wait calls, by label and result",
		}, []string{"label", "result"}),
	}
	if registerer != nil {
		registerer.MustRegister(o.attempts, o.sleeps, o.durations, o.waits)
	}
	return o
}

func (o *PrometheusObserver) OnStart(context.Context, WaitInfo) {}

func (o *PrometheusObserver) OnAttempt(_ context.Context, att Attempt) {
	o.attempts.WithLabelValues(att.Info.Label, att.Outcome.String()).Inc()
}

func (o *PrometheusObserver) OnSleep(_ context.Context, _ WaitInfo, _ time.Duration) {
	o.sleeps.Inc()
}

func (o *PrometheusObserver) OnEnd(_ context.Context, res Result) {
	result := "ok"
	if res.Err != nil {
		result = "error"
	}
	o.waits.WithLabelValues(res.Info.Label, result).Inc()
	o.durations.WithLabelValues(res.Info.Label).Observe(res.End.Sub(res.Start).Seconds())
}
