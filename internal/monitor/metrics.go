// Package monitor exports probe readings as Prometheus metrics.
package monitor

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds the gauges updated after every poll.
type Metrics struct {
	MV          prometheus.Gauge
	Temperature prometheus.Gauge
	PH          prometheus.Gauge
	ORP         prometheus.Gauge
	Eh          prometheus.Gauge
	ReadErrors  prometheus.Counter

	registry *prometheus.Registry
}

// New registers the probe metrics, labelled with the probe kind and address,
// on a fresh registry.
func New(kind string, addr uint16) *Metrics {
	labels := prometheus.Labels{
		"kind": kind,
		"addr": fmt.Sprintf("%#02x", addr),
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "iseprobe",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	m := &Metrics{
		MV:          gauge("millivolts", "Last probe potential in mV."),
		Temperature: gauge("temperature_celsius", "Last temperature in Celsius."),
		PH:          gauge("ph", "Last pH, -1 when out of range."),
		ORP:         gauge("orp_millivolts", "Last ORP in mV."),
		Eh:          gauge("eh_millivolts", "Last Eh in mV."),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "iseprobe",
			Name:        "read_errors_total",
			Help:        "Polls that failed with a bus error.",
			ConstLabels: labels,
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.MV, m.Temperature, m.PH, m.ORP, m.Eh, m.ReadErrors)

	return m
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on listen at /metrics until the server fails.
func (m *Metrics) Serve(listen string, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	log.WithField("listen", listen).Info("monitor: serving metrics")
	if err := http.ListenAndServe(listen, mux); err != nil {
		log.WithError(err).Error("monitor: metrics server stopped")
	}
}
