package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MonitorCollector bundles Prometheus metrics for the security monitor's
// mediation surface and satisfies the monitor's Recorder interface.
type MonitorCollector struct {
	gatherer prometheus.Gatherer

	Events         *prometheus.CounterVec
	EventDurations *prometheus.HistogramVec
	Violations     *prometheus.CounterVec
	ActiveZones    prometheus.Gauge
}

// NewMonitorCollector registers monitor Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewMonitorCollector(reg prometheus.Registerer) (*MonitorCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_events_total",
		Help: "Total events handled by the security monitor, labeled by operation and decision.",
	}, []string{"operation", "decision"})
	events, err := registerCounterVec(reg, events, "monitor_events_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monitor_event_duration_seconds",
		Help:    "Wall time spent handling one event, labeled by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	durations, err = registerHistogramVec(reg, durations, "monitor_event_duration_seconds")
	if err != nil {
		return nil, err
	}

	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_violations_total",
		Help: "Blocked photo attempts recorded in the violation ledger, labeled by user.",
	}, []string{"user"})
	violations, err = registerCounterVec(reg, violations, "monitor_violations_total")
	if err != nil {
		return nil, err
	}

	activeZones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "monitor_restricted_zones",
		Help: "Number of restricted zones currently registered.",
	}), "monitor_restricted_zones")
	if err != nil {
		return nil, err
	}

	return &MonitorCollector{
		gatherer:       gatherer,
		Events:         events,
		EventDurations: durations,
		Violations:     violations,
		ActiveZones:    activeZones,
	}, nil
}

// ObserveEvent records one handled event and its decision.
func (c *MonitorCollector) ObserveEvent(operation, decision string) {
	if c == nil || c.Events == nil {
		return
	}
	c.Events.WithLabelValues(operation, decision).Inc()
}

// ObserveDuration records the handling time of one event.
func (c *MonitorCollector) ObserveDuration(operation string, d time.Duration) {
	if c == nil || c.EventDurations == nil {
		return
	}
	c.EventDurations.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveViolation records one blocked attempt for the user.
func (c *MonitorCollector) ObserveViolation(user string) {
	if c == nil || c.Violations == nil {
		return
	}
	c.Violations.WithLabelValues(user).Inc()
}

// SetActiveZones records the current zone registry size.
func (c *MonitorCollector) SetActiveZones(n int) {
	if c == nil || c.ActiveZones == nil {
		return
	}
	c.ActiveZones.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MonitorCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
