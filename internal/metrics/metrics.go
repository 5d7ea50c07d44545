// Package metrics exposes Prometheus counters for dashboard runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_analyses_total", Help: "Instrument analyses by group and outcome"},
		[]string{"group", "outcome"},
	)
	RunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dashboard_runs_total", Help: "Completed dashboard generation runs"},
	)
	LastRunUnix = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "dashboard_last_run_timestamp_seconds", Help: "Unix time of the last completed run"},
	)
)

func init() {
	prometheus.MustRegister(AnalysesTotal, RunsTotal, LastRunUnix)
}

// Serve starts the /metrics endpoint on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
