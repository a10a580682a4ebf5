package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type prometheusObserver struct {
	backendDuration *prometheus.SummaryVec
	refreshCounter  *prometheus.CounterVec
	httpDuration    *prometheus.SummaryVec
	sessionGauge    prometheus.Gauge
}

var (
	backendDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "yoladmin_backend_request_duration_seconds",
			Help:       "Duration of requests sent to the REST backend.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method", "route", "status"},
	)
	refreshCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yoladmin_token_refresh_total",
			Help: "Token refresh attempts by outcome.",
		},
		[]string{"outcome"},
	)
	httpDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "yoladmin_http_duration_seconds",
			Help: "Duration of console HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)
	sessionGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yoladmin_session_active",
		Help: "1 while the console holds an operator session.",
	})
)

// Observer implements both BackendObserver and ConsoleObserver on the
// default prometheus registry.
type Observer interface {
	BackendObserver
	ConsoleObserver
}

func NewPrometheusObserver() Observer {
	return &prometheusObserver{
		backendDuration: backendDuration,
		refreshCounter:  refreshCounter,
		httpDuration:    httpDuration,
		sessionGauge:    sessionGauge,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusObserver) ObserveRequest(method, route string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	p.backendDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

func (p *prometheusObserver) RecordRefresh(outcome string) {
	p.refreshCounter.WithLabelValues(outcome).Inc()
}

func (p *prometheusObserver) ObserveHTTP(path, method string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	p.httpDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (p *prometheusObserver) SetSessionActive(active bool) {
	if active {
		p.sessionGauge.Set(1)
		return
	}
	p.sessionGauge.Set(0)
}
