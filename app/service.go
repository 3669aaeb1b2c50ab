package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/legassign/config"
	"github.com/kilianp07/legassign/core/assign"
	"github.com/kilianp07/legassign/core/history"
	coremetrics "github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/core/milp"
	"github.com/kilianp07/legassign/core/model"
	coremon "github.com/kilianp07/legassign/core/monitoring"
	"github.com/kilianp07/legassign/core/transform"
	"github.com/kilianp07/legassign/infra/csvio"
	"github.com/kilianp07/legassign/infra/logger"
	_ "github.com/kilianp07/legassign/infra/metrics"
	"github.com/kilianp07/legassign/infra/monitoring"
	"github.com/kilianp07/legassign/pkg/export"
)

// DatasetLoader provides the planner inputs.
type DatasetLoader interface {
	Load() (model.Dataset, error)
}

// Service runs the planning pipeline: load, transform, build, solve,
// extract, export and record.
type Service struct {
	cfg      *config.Config
	loader   DatasetLoader
	pipeline *transform.Pipeline
	solver   milp.Solver
	store    history.Store
	sink     coremetrics.MetricsSink
	monitor  coremon.Monitor
	log      logger.Logger
	now      func() time.Time
}

// Option overrides a Service dependency.
type Option func(*Service)

// WithLoader replaces the CSV loader.
func WithLoader(l DatasetLoader) Option { return func(s *Service) { s.loader = l } }

// WithSolver replaces the branch-and-bound solver.
func WithSolver(sv milp.Solver) Option { return func(s *Service) { s.solver = sv } }

// WithStore replaces the configured history store.
func WithStore(st history.Store) Option { return func(s *Service) { s.store = st } }

// WithSink replaces the configured metrics sinks.
func WithSink(sk coremetrics.MetricsSink) Option { return func(s *Service) { s.sink = sk } }

// WithMonitor replaces the Sentry monitor.
func WithMonitor(m coremon.Monitor) Option { return func(s *Service) { s.monitor = m } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates a Service from the configuration. Dependencies not supplied
// through opts are built from cfg.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{cfg: cfg, log: logger.New("service"), now: time.Now}
	for _, o := range opts {
		o(s)
	}

	if s.loader == nil {
		l, err := csvio.NewLoader(cfg.Data, logger.New("csvio"))
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		s.loader = l
	}
	pipeline, err := transform.Build(cfg.Transform, logger.New("transform"))
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	s.pipeline = pipeline
	if s.solver == nil {
		bnb := assign.NewSolver(cfg.Solver)
		bnb.Log = logger.New("milp")
		s.solver = bnb
	}
	if s.sink == nil {
		if err := cfg.Metrics.Validate(); err != nil {
			return nil, err
		}
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	if s.monitor == nil {
		m, err := monitoring.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		s.monitor = m
	}
	if s.store == nil {
		st, err := history.Open(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		s.store = st
	}
	return s, nil
}

// Run executes one planning run. Parse and model size errors abort before
// the solver is called; infeasible and solver errors abort after it. The
// returned plan carries the outcome status and has rows only when the run
// succeeded. Every run is recorded in history and metrics.
func (s *Service) Run(ctx context.Context) (model.Plan, error) {
	start := s.now()
	plan := model.Plan{
		RunID:      uuid.NewString(),
		ScenarioID: s.cfg.Model.ScenarioID,
		CreatedAt:  start,
	}
	err := s.plan(ctx, &plan)
	plan.Status = assign.StatusOf(err)
	if err != nil {
		plan.Rows = nil
		plan.Objective = 0
	}
	s.record(ctx, plan, err)
	if err == nil && s.cfg.Output.Path != "" {
		if werr := export.WriteFile(s.cfg.Output.Path, s.cfg.Output.Format, plan, s.cfg.Output.Options()); werr != nil {
			return plan, fmt.Errorf("write output: %w", werr)
		}
		s.log.Infof("plan written to %s", s.cfg.Output.Path)
	}
	return plan, err
}

func (s *Service) plan(ctx context.Context, plan *model.Plan) error {
	ds, err := s.dataset()
	if err != nil {
		return err
	}
	plan.Legs, plan.Aircraft = len(ds.Demands), len(ds.Aircraft)

	m, err := assign.Build(ds.Demands, ds.Aircraft, s.cfg.Model.MaxLegs())
	if err != nil {
		return err
	}
	s.log.Debugw("model built", map[string]any{
		"variables": m.NumVars(),
		"rows":      len(m.Problem().Rows),
		"capacity":  m.Capacity,
	})

	res, err := assign.Solve(ctx, s.solver, m, s.cfg.Solver.Timeout())
	plan.Nodes, plan.Duration = res.Nodes, res.Duration
	if err != nil {
		return err
	}
	rows, err := assign.Extract(m, res.Values, plan.ScenarioID)
	if err != nil {
		return err
	}
	plan.Rows = rows
	plan.Objective = res.Objective
	return nil
}

// dataset loads and transforms the inputs. Transform failures are input
// errors and reported as parse errors.
func (s *Service) dataset() (model.Dataset, error) {
	ds, err := s.loader.Load()
	if err != nil {
		return model.Dataset{}, err
	}
	ds, err = s.pipeline.Apply(ds)
	if err != nil {
		return model.Dataset{}, &assign.ParseError{File: "transform", Err: err}
	}
	return ds, nil
}

func (s *Service) record(ctx context.Context, plan model.Plan, runErr error) {
	fields := map[string]any{
		"run_id":   plan.RunID,
		"status":   plan.Status.String(),
		"legs":     plan.Legs,
		"aircraft": plan.Aircraft,
		"assigned": len(plan.Rows),
		"nodes":    plan.Nodes,
		"duration": plan.Duration.String(),
	}
	if runErr != nil {
		fields["error"] = runErr.Error()
		s.log.Infow("planning run failed", fields)
	} else {
		s.log.Infow("planning run completed", fields)
	}

	if err := s.store.Append(ctx, history.FromPlan(plan, s.cfg.Model.MaxLegs(), runErr)); err != nil {
		s.log.Errorf("history append: %v", err)
	}
	if err := s.sink.RecordRun(coremetrics.EventFromPlan(plan)); err != nil {
		s.log.Errorf("metrics record: %v", err)
	}
	if runErr != nil && plan.Status == model.StatusSolverError {
		s.monitor.CaptureException(runErr, map[string]string{
			"run_id":      plan.RunID,
			"scenario_id": plan.ScenarioID,
			"status":      plan.Status.String(),
		})
	}
}

// Summary describes the loaded inputs without solving.
type Summary struct {
	Aircraft     int      `json:"aircraft"`
	Demands      int      `json:"demands"`
	Airports     int      `json:"airports"`
	DistanceTime int      `json:"distance_time"`
	Capacity     int      `json:"capacity"`
	Stages       []string `json:"stages"`
	// Feasible reports whether the fleet has enough capacity for every leg.
	// Coverage and capacity are the only constraints, so this is exact.
	Feasible bool `json:"feasible"`
}

// Inspect loads and transforms the inputs and reports their sizes.
func (s *Service) Inspect() (Summary, error) {
	ds, err := s.dataset()
	if err != nil {
		return Summary{}, err
	}
	c := s.cfg.Model.MaxLegs()
	return Summary{
		Aircraft:     len(ds.Aircraft),
		Demands:      len(ds.Demands),
		Airports:     ds.Airports.Len(),
		DistanceTime: ds.DistanceTime.Len(),
		Capacity:     c,
		Stages:       s.pipeline.Stages(),
		Feasible:     len(ds.Aircraft) > 0 && len(ds.Demands) > 0 && len(ds.Demands) <= len(ds.Aircraft)*c,
	}, nil
}

// Monitor returns the error monitor the service reports to.
func (s *Service) Monitor() coremon.Monitor { return s.monitor }

// History returns recorded runs matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return s.store.Query(ctx, q)
}

// Close flushes metrics and monitoring and releases the history store.
func (s *Service) Close() error {
	var errs []error
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("metrics flush: %w", err))
		}
	}
	s.monitor.Flush(2 * time.Second)
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("history close: %w", err))
	}
	return errors.Join(errs...)
}
