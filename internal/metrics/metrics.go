package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Path is where the scrape endpoint is mounted.
const Path = "/metrics"

const subsystem = "authform"

// Metrics owns a private registry with HTTP request metrics and counters for
// form submissions.
type Metrics struct {
	registry     *prometheus.Registry
	authAttempts *prometheus.CounterVec
}

// New builds a registry with Go runtime, process and auth collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "auth_attempts_total",
		Help:      "Register and login submissions by outcome.",
	}, []string{"action", "outcome"})

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		authAttempts,
	)

	return &Metrics{registry: reg, authAttempts: authAttempts}
}

// ObserveAuth counts one submission. outcome is ok, rejected or error.
func (m *Metrics) ObserveAuth(action, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(action, outcome).Inc()
}

// Middleware records request count, latency and sizes per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  subsystem,
		Registerer: m.registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == Path
		},
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.registry})
}
