package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// syncsTotal counts SyncAll invocations.
	// Labels: status (success, error)
	syncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "dashboard",
		Name:      "syncs_total",
		Help:      "Total dashboard syncs, by outcome",
	}, []string{"status"})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pulse",
		Subsystem: "dashboard",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last fully successful dashboard sync",
	})
)
