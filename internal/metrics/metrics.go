// Package metrics exposes controller activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "irrigation"

// Metrics owns its registry so tests and multiple instances do not collide.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	scheduleRuns     *prometheus.CounterVec
	activeZones      prometheus.Gauge
	skippedZones     prometheus.Gauge
	rainReading      prometheus.Gauge
	circlesPopulated prometheus.Counter
	publishFailures  prometheus.Counter
	auditFailures    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scheduleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_runs_total",
			Help:      "Schedule runs by policy.",
		}, []string{"policy"}),
		activeZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_zones",
			Help:      "Zones switched on by the last schedule run.",
		}),
		skippedZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skipped_zones",
			Help:      "Zones skipped for rain by the last schedule run.",
		}),
		rainReading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rain_reading_inches",
			Help:      "Last rain sensor reading.",
		}),
		circlesPopulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circle_populations_total",
			Help:      "Times the circle collection was populated.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Schedule decisions that could not be published.",
		}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_record_failures_total",
			Help:      "Schedule runs that could not be written to the audit table.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scheduleRuns,
		m.activeZones,
		m.skippedZones,
		m.rainReading,
		m.circlesPopulated,
		m.publishFailures,
		m.auditFailures,
	)
	return m
}

func (m *Metrics) ObserveSchedule(policy string, active, skipped int) {
	if m == nil {
		return
	}
	m.scheduleRuns.WithLabelValues(policy).Inc()
	m.activeZones.Set(float64(active))
	m.skippedZones.Set(float64(skipped))
}

func (m *Metrics) ObserveRainReading(inches float64) {
	if m == nil {
		return
	}
	m.rainReading.Set(inches)
}

func (m *Metrics) ObservePopulate() {
	if m == nil {
		return
	}
	m.circlesPopulated.Inc()
}

func (m *Metrics) ObservePublishFailure() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
