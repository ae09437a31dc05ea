// Package metrics provides Prometheus metrics for the OPD service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	TokensIssued     prometheus.Counter
	BookingsRejected *prometheus.CounterVec
	BillsCreated     prometheus.Counter
	BillFinalAmount  prometheus.Histogram
	StockAlerts      *prometheus.GaugeVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total appointment tokens issued",
		}),
		BookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Total booking attempts rejected",
		}, []string{"reason"}),
		BillsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bills_created_total",
			Help: "Total bills created",
		}),
		BillFinalAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bill_final_amount",
			Help:    "Final payable amount per bill",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}),
		StockAlerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stock_alerts",
			Help: "Active stock batches per alert type",
		}, []string{"alert"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "status"}),
	}

	prometheus.MustRegister(
		m.TokensIssued,
		m.BookingsRejected,
		m.BillsCreated,
		m.BillFinalAmount,
		m.StockAlerts,
		m.RequestDuration,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
