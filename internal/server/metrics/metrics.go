// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caltracker"

type Metrics struct {
	authResults  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	rpcRequests  *prometheus.CounterVec
}

// New registers the collectors on reg. Passing a fresh prometheus.Registry
// keeps tests isolated from the global one.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		authResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_resolutions_total",
			Help:      "Token resolutions by outcome.",
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, status and client error type.",
		}, []string{"method", "status", "error_type"}),
		rpcRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC calls by method and status code.",
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) ObserveAuth(outcome string) {
	m.authResults.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method string, status int, errorType string) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status), errorType).Inc()
}

func (m *Metrics) ObserveRPC(method, code string) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
