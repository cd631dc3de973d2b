// Package metrics exposes Prometheus instrumentation for orbit evaluation.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpSolve = "solve"
	OpWarp  = "warp"
)

// Collector bundles the evaluation metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Evaluations *prometheus.CounterVec
	Durations   *prometheus.HistogramVec
	Orbits      prometheus.Gauge
}

// NewCollector registers the evaluation metrics against reg, defaulting to
// the global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evals, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_evaluations_total",
		Help: "Orbit evaluations, labeled by operation and result.",
	}, []string{"op", "result"}), "orbit_evaluations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbit_batch_duration_seconds",
		Help:    "Wall time of one batch evaluation in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"op"}), "orbit_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	orbits, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbit_loaded",
		Help: "Number of orbits currently loaded.",
	}), "orbit_loaded")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		Evaluations: evals,
		Durations:   durations,
		Orbits:      orbits,
	}, nil
}

// ObserveBatch records a batch of n evaluations of which failed did not
// succeed.
func (c *Collector) ObserveBatch(op string, n, failed int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if ok := n - failed; ok > 0 {
		c.Evaluations.WithLabelValues(op, "ok").Add(float64(ok))
	}
	if failed > 0 {
		c.Evaluations.WithLabelValues(op, "error").Add(float64(failed))
	}
	c.Durations.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetOrbits sets the loaded orbit count.
func (c *Collector) SetOrbits(n int) {
	if c == nil {
		return
	}
	c.Orbits.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics in the text exposition format,
// for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
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
