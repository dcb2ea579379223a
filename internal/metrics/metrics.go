// Package metrics holds the Prometheus collectors for document reductions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dgallion1/htmlpack/pkg/pack"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "htmlpack").
	Namespace string

	// Buckets are the histogram buckets for reduction duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "htmlpack",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is the set of collectors recorded by the pipeline.
type Metrics struct {
	reductions     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inputWeight    prometheus.Histogram
	outputWeight   prometheus.Histogram
	packIterations prometheus.Histogram
	packSnips      *prometheus.CounterVec
	overBudget     prometheus.Counter
	inFlight       prometheus.Gauge
}

// New registers the collectors.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)
	weightBuckets := prometheus.ExponentialBuckets(64, 4, 8) // 64 to 1M

	return &Metrics{
		reductions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "reductions_total",
			Help:      "Total number of document reductions by operation and status",
		}, []string{"op", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "reduction_duration_seconds",
			Help:      "Document reduction duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"op"}),

		inputWeight: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "pack_input_weight",
			Help:      "Weight of documents before packing",
			Buckets:   weightBuckets,
		}),

		outputWeight: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "pack_output_weight",
			Help:      "Weight of documents after packing",
			Buckets:   weightBuckets,
		}),

		packIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "pack_iterations",
			Help:      "Packing loop iterations per document",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}),

		packSnips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "pack_snips_total",
			Help:      "Truncations adopted by the packer by kind",
		}, []string{"kind"}),

		overBudget: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "pack_over_budget_total",
			Help:      "Packed documents that still exceed their budget",
		}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "reductions_in_flight",
			Help:      "Document reductions currently running",
		}),
	}
}

// ObserveReduction records one finished reduction.
func (m *Metrics) ObserveReduction(op string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.reductions.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObservePack records the outcome of a packing run.
func (m *Metrics) ObservePack(res pack.Result) {
	m.inputWeight.Observe(float64(res.InputWeight))
	m.outputWeight.Observe(float64(res.Weight))
	m.packIterations.Observe(float64(res.Iterations))
	m.packSnips.WithLabelValues("depth").Add(float64(res.DepthSnips))
	m.packSnips.WithLabelValues("breadth").Add(float64(res.BreadthSnips))
	if !res.Fits {
		m.overBudget.Inc()
	}
}

// Begin marks a reduction as in flight and returns the func that ends it.
func (m *Metrics) Begin() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}
