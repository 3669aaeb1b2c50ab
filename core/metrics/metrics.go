package metrics

import (
	"time"

	"github.com/kilianp07/legassign/core/model"
)

// RunEvent summarizes one planning run.
type RunEvent struct {
	RunID      string
	ScenarioID string
	Status     model.PlanStatus
	Legs       int
	Aircraft   int
	Assigned   int
	Objective  float64
	Nodes      int
	Duration   time.Duration
	Time       time.Time
}

// EventFromPlan converts a finished plan into a RunEvent.
func EventFromPlan(p model.Plan) RunEvent {
	return RunEvent{
		RunID:      p.RunID,
		ScenarioID: p.ScenarioID,
		Status:     p.Status,
		Legs:       p.Legs,
		Aircraft:   p.Aircraft,
		Assigned:   len(p.Rows),
		Objective:  p.Objective,
		Nodes:      p.Nodes,
		Duration:   p.Duration,
		Time:       p.CreatedAt,
	}
}

// MetricsSink records planning runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// Flusher is implemented by sinks that buffer until the process exits.
type Flusher interface {
	Flush() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error { return nil }

// MultiSink fans out runs to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every sink that buffers.
func (m *MultiSink) Flush() error {
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
