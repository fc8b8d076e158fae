package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that tests can build as many as they need.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpDuration   *prometheus.HistogramVec
	ordersCreated  prometheus.Counter
	payments       *prometheus.CounterVec
	stockUpdates   *prometheus.CounterVec
	kitchenChanges *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders accepted for a table session",
		}),
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_recorded_total",
				Help: "Payments recorded by method and status",
			},
			[]string{"method", "status"},
		),
		stockUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_updates_total",
				Help: "Inventory ledger entries by transaction type",
			},
			[]string{"type"},
		),
		kitchenChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_status_changes_total",
				Help: "Kitchen ticket transitions by target status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpDuration,
		m.ordersCreated,
		m.payments,
		m.stockUpdates,
		m.kitchenChanges,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method string, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) PaymentRecorded(method string, status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(method, status).Inc()
}

func (m *Metrics) StockUpdated(transactionType string) {
	if m == nil {
		return
	}
	m.stockUpdates.WithLabelValues(transactionType).Inc()
}

func (m *Metrics) KitchenStatusChanged(status string) {
	if m == nil {
		return
	}
	m.kitchenChanges.WithLabelValues(status).Inc()
}
