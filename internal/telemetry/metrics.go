package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortie_runs_total",
			Help: "Completed engine runs by variant and final status",
		},
		[]string{"variant", "status"},
	)
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortie_run_duration_seconds",
			Help:    "Wall time of engine runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"variant"},
	)
	stepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortie_steps_total",
			Help: "Cells advanced onto by variant and point kind",
		},
		[]string{"variant", "kind"},
	)
	battlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortie_battles_total",
			Help: "Resolved battles by variant and rank",
		},
		[]string{"variant", "rank"},
	)
	ticketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortie_tickets_total",
			Help: "Entry tickets spent or recovered by variant",
		},
		[]string{"variant", "action"},
	)
)

// RecordRun counts a finished run.
func RecordRun(variant, status string, elapsed time.Duration) {
	runsTotal.WithLabelValues(variant, status).Inc()
	runDuration.WithLabelValues(variant).Observe(elapsed.Seconds())
}

// RecordStep counts one advance onto a cell of the given kind.
func RecordStep(variant, kind string) {
	stepsTotal.WithLabelValues(variant, kind).Inc()
}

// RecordBattle counts one resolved battle.
func RecordBattle(variant, rank string) {
	battlesTotal.WithLabelValues(variant, rank).Inc()
}

// RecordTickets counts n tickets for action "spent" or "recovered".
func RecordTickets(variant, action string, n int) {
	if n <= 0 {
		return
	}
	ticketsTotal.WithLabelValues(variant, action).Add(float64(n))
}

// ServeMetrics exposes the default registry on addr until the server fails.
// It returns nil if addr is empty.
func ServeMetrics(addr string) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
