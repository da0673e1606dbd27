// Package monitoring exposes Prometheus metrics for the session core.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the session.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Hotkey metrics
	HotkeyDispatches *prometheus.CounterVec

	// Supervisor metrics
	AppLaunches prometheus.Counter
	AppFailures prometheus.Counter
	AppsTracked prometheus.Gauge
	AppsReaped  prometheus.Counter

	// Window metrics
	WindowsTracked prometheus.Gauge

	// Settings metrics
	SettingsOps     *prometheus.CounterVec
	CommandFailures prometheus.Counter

	// Notification metrics
	Notifications prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blued_http_requests_total",
				Help: "Total number of session API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blued_http_request_duration_seconds",
				Help:    "Session API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		HotkeyDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blued_hotkey_dispatches_total",
				Help: "Total number of dispatched hotkey actions",
			},
			[]string{"action"},
		),

		AppLaunches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blued_app_launches_total",
				Help: "Total number of successful app launches",
			},
		),
		AppFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blued_app_launch_failures_total",
				Help: "Total number of failed app launches",
			},
		),
		AppsTracked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blued_apps_tracked",
				Help: "Number of currently tracked app processes",
			},
		),
		AppsReaped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blued_apps_reaped_total",
				Help: "Total number of reaped app processes",
			},
		),

		WindowsTracked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blued_windows_tracked",
				Help: "Number of windows in the stacking order",
			},
		),

		SettingsOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blued_settings_operations_total",
				Help: "Total number of settings operations",
			},
			[]string{"operation"},
		),
		CommandFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blued_command_failures_total",
				Help: "Total number of failed fire-and-forget commands",
			},
		),

		Notifications: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blued_notifications_total",
				Help: "Total number of appended notifications",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blued_uptime_seconds",
				Help: "Session uptime in seconds",
			},
		),
	}

	return m
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a session API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDispatch records a dispatched hotkey action.
func (m *Metrics) RecordDispatch(action string) {
	m.HotkeyDispatches.WithLabelValues(action).Inc()
}

// RecordSettingsOp records a settings operation.
func (m *Metrics) RecordSettingsOp(operation string) {
	m.SettingsOps.WithLabelValues(operation).Inc()
}

// Tick refreshes gauges owned by the session loop.
func (m *Metrics) Tick(appsTracked, windowsTracked int) {
	m.AppsTracked.Set(float64(appsTracked))
	m.WindowsTracked.Set(float64(windowsTracked))
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
