package history

import (
	"context"
	"time"

	"github.com/kilianp07/legassign/core/model"
)

// Record captures one planning run and its outcome.
type Record struct {
	RunID      string                `json:"run_id"`
	Timestamp  time.Time             `json:"timestamp"`
	ScenarioID string                `json:"scenario_id"`
	Status     model.PlanStatus      `json:"status"`
	Legs       int                   `json:"legs"`
	Aircraft   int                   `json:"aircraft"`
	Capacity   int                   `json:"capacity"`
	Objective  float64               `json:"objective"`
	Nodes      int                   `json:"nodes"`
	Duration   time.Duration         `json:"duration"`
	Rows       []model.AssignmentRow `json:"rows,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// FromPlan builds the record of a finished run. runErr is the error the run
// ended with, if any.
func FromPlan(p model.Plan, capacity int, runErr error) Record {
	r := Record{
		RunID:      p.RunID,
		Timestamp:  p.CreatedAt,
		ScenarioID: p.ScenarioID,
		Status:     p.Status,
		Legs:       p.Legs,
		Aircraft:   p.Aircraft,
		Capacity:   capacity,
		Objective:  p.Objective,
		Nodes:      p.Nodes,
		Duration:   p.Duration,
		Rows:       p.Rows,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}

// Query defines filters for retrieving records. Zero fields match anything.
type Query struct {
	Start      time.Time
	End        time.Time
	Status     model.PlanStatus
	ScenarioID string
	// Limit keeps the most recent records; zero means no limit.
	Limit int
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != model.StatusUnknown && r.Status != q.Status {
		return false
	}
	if q.ScenarioID != "" && r.ScenarioID != q.ScenarioID {
		return false
	}
	return true
}

func (q Query) limit(res []Record) []Record {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// Store persists Records and supports querying. Query returns records in
// insertion order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
