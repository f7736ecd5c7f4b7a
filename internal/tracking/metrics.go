package tracking

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts closed runs.
	// Labels: run (run name), status (finished, failed)
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "tracking",
		Name:      "runs_total",
		Help:      "Total tracking runs closed, by run name and status",
	}, []string{"run", "status"})

	// metricValue mirrors the last value logged for each run metric.
	// Labels: run (run name), metric
	metricValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pulse",
		Subsystem: "tracking",
		Name:      "metric_value",
		Help:      "Last value logged for a run metric",
	}, []string{"run", "metric"})
)

// Instrument wraps t so run metrics and run outcomes are also exported as
// Prometheus series.
func Instrument(t Tracker) Tracker {
	return &instrumented{Tracker: t}
}

type instrumented struct {
	Tracker
}

func (i *instrumented) StartRun(ctx context.Context, name string) (Run, error) {
	run, err := i.Tracker.StartRun(ctx, name)
	if err != nil {
		return nil, err
	}
	return &instrumentedRun{Run: run, name: name}, nil
}

type instrumentedRun struct {
	Run
	name string
}

func (r *instrumentedRun) LogMetric(ctx context.Context, name string, value float64) error {
	if err := r.Run.LogMetric(ctx, name, value); err != nil {
		return err
	}
	metricValue.WithLabelValues(r.name, name).Set(value)
	return nil
}

func (r *instrumentedRun) End(ctx context.Context, status Status) error {
	if err := r.Run.End(ctx, status); err != nil {
		return err
	}
	runsTotal.WithLabelValues(r.name, string(status)).Inc()
	return nil
}
