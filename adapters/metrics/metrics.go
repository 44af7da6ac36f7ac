// Package metrics provides Prometheus metrics collection for NetBill.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for NetBill.
type Collector struct {
	// Billing metrics
	BillsAssembled     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	PaymentsRecorded   *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		BillsAssembled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "bills_assembled_total",
				Help:      "Total number of bills assembled",
			},
			[]string{"jurisdiction"},
		),
		ValidationFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "validation_failures_total",
				Help:      "Total number of billing validation failures",
			},
			[]string{"kind"},
		),
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "payments_recorded_total",
				Help:      "Total number of payments recorded",
			},
			[]string{"method"},
		),
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "netbill",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),
		ConfigReloads: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "config_reloads_total",
				Help:      "Total number of configuration reloads",
			},
		),
		ConfigReloadErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "netbill",
				Name:      "config_reload_errors_total",
				Help:      "Total number of failed configuration reloads",
			},
		),
	}
}
