// Package metrics exposes Prometheus collectors for the POS service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersCreated   *prometheus.CounterVec
	billsGenerated  prometheus.Counter
	itemsServed     *prometheus.CounterVec
	wsClients       prometheus.Gauge
	eventsPublished *prometheus.CounterVec
}

// New registers the service collectors, plus Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created by order type.",
		}, []string{"order_type"}),
		billsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_generated_total",
			Help:      "Bills generated.",
		}),
		itemsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kitchen_items_served_total",
			Help:      "Kitchen serve requests by outcome (served, already_served).",
		}, []string{"outcome"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected realtime clients.",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Realtime events published by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.billsGenerated,
		m.itemsServed,
		m.wsClients,
		m.eventsPublished,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OrderCreated(orderType string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(orderType).Inc()
}

func (m *Metrics) BillGenerated() {
	if m == nil {
		return
	}
	m.billsGenerated.Inc()
}

func (m *Metrics) ItemServed(outcome string) {
	if m == nil {
		return
	}
	m.itemsServed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.wsClients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.wsClients.Dec()
}

func (m *Metrics) EventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}
