package metrics

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/legassign/core/metrics"
)

// PromSink records planning runs in Prometheus metrics. A planning run is a
// short-lived batch, so the sink can also dump its registry to a
// node-exporter textfile on Flush.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	assigned prometheus.Gauge
	nodes    prometheus.Gauge
	gatherer prometheus.Gatherer
	textfile string
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink(textfile string) (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer, textfile)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. gatherer is
// only used by Flush and may be nil when textfile is empty.
func NewPromSinkWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer, textfile string) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legassign_runs_total",
		Help: "Total number of planning runs by outcome",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legassign_solve_duration_seconds",
		Help:    "Wall-clock time spent in the solver",
		Buckets: prometheus.DefBuckets,
	})
	assigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "legassign_legs_assigned",
		Help: "Number of legs assigned by the last run",
	})
	nodes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "legassign_bnb_nodes",
		Help: "Branch-and-bound nodes explored by the last run",
	})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if assigned, err = register(reg, assigned); err != nil {
		return nil, err
	}
	if nodes, err = register(reg, nodes); err != nil {
		return nil, err
	}
	return &PromSink{
		runs:     runs,
		duration: duration,
		assigned: assigned,
		nodes:    nodes,
		gatherer: gatherer,
		textfile: textfile,
	}, nil
}

// register returns the already registered collector when c is a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the run counter and, for solved runs, the solver metrics.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status.String()).Inc()
	if ev.Duration > 0 {
		s.duration.Observe(ev.Duration.Seconds())
	}
	s.assigned.Set(float64(ev.Assigned))
	s.nodes.Set(float64(ev.Nodes))
	return nil
}

// RunsCounter returns the run counter for status. It is exposed for tests.
func (s *PromSink) RunsCounter(status string) prometheus.Counter {
	return s.runs.WithLabelValues(status)
}

// Flush writes the gathered metrics to the configured textfile, if any.
func (s *PromSink) Flush() error {
	if s.textfile == "" {
		return nil
	}
	if dir := filepath.Dir(s.textfile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return prometheus.WriteToTextfile(s.textfile, s.gatherer)
}
