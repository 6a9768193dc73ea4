// Package metrics exposes Prometheus collectors for the canvas server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server collectors on a private registry
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
}

// New creates the collectors. sessions and clients report the number of open
// sessions and connected SSE clients at scrape time; either may be nil.
func New(sessions, clients func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbus_canvas_mutations_total",
				Help: "Canvas store mutations by operation",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.mutations)
	reg.MustRegister(collectors.NewGoCollector())

	if sessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "smartbus_sessions_open",
			Help: "Open canvas sessions",
		}, func() float64 { return float64(sessions()) }))
	}
	if clients != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "smartbus_sse_clients",
			Help: "Connected event stream clients",
		}, func() float64 { return float64(clients()) }))
	}
	return m
}

// RecordMutation counts one store mutation
func (m *Metrics) RecordMutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
