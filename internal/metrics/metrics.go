package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScanCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scan_cycles_total", Help: "Completed scan cycles"},
	)
	InstrumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scan_instruments_total", Help: "Instruments processed per outcome"},
		[]string{"outcome"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Actionable signals by direction"},
		[]string{"direction"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_total", Help: "Notification dispatch attempts by result"},
		[]string{"result"},
	)
	UniverseFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "universe_fallback_total", Help: "Cycles that used the fallback symbol list"},
	)
)

func init() {
	prometheus.MustRegister(ScanCyclesTotal, InstrumentsTotal, SignalsTotal, NotificationsTotal, UniverseFallbackTotal)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
