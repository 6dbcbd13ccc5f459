package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BridgeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridge_requests_total", Help: "Bridge commands issued, by action and result"},
		[]string{"action", "result"},
	)
	EventsDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "events_detected_total", Help: "Market events detected"},
		[]string{"symbol", "kind"},
	)
	NotifyFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notify_failures_total", Help: "Notification delivery failures"},
		[]string{"notifier"},
	)
)

func init() {
	prometheus.MustRegister(BridgeRequestsTotal, EventsDetectedTotal, NotifyFailuresTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
