package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/legassign/core/milp"
	"github.com/kilianp07/legassign/core/model"
)

// Result is the outcome of a solve.
type Result struct {
	Status    model.PlanStatus
	Values    []float64
	Objective float64
	Nodes     int
	Duration  time.Duration
}

// NewSolver returns the branch-and-bound solver configured by cfg.
func NewSolver(cfg SolverConfig) *milp.BranchAndBound {
	return &milp.BranchAndBound{
		Tol:      cfg.Tolerance,
		IntTol:   cfg.IntTolerance,
		MaxNodes: cfg.MaxNodes,
	}
}

type solveOutcome struct {
	sol milp.Solution
	err error
}

// solveCtx runs s in its own goroutine and returns as soon as ctx ends, even
// when s is blocked inside a single relaxation. The abandoned goroutine
// finishes in the background and its result is dropped.
func solveCtx(ctx context.Context, s milp.Solver, p *milp.Problem) (milp.Solution, error) {
	if err := ctx.Err(); err != nil {
		return milp.Solution{}, err
	}
	done := make(chan solveOutcome, 1)
	go func() {
		sol, err := s.Solve(ctx, p)
		done <- solveOutcome{sol: sol, err: err}
	}()
	select {
	case out := <-done:
		if out.err == nil {
			if err := ctx.Err(); err != nil {
				return out.sol, err
			}
		}
		return out.sol, out.err
	case <-ctx.Done():
		return milp.Solution{}, ctx.Err()
	}
}

// Solve hands m to s and classifies the outcome. It returns ErrInfeasible
// when no assignment satisfies the constraints and an ErrSolver kind when the
// solver fails, times out or returns an unusable solution. A positive timeout
// bounds the wall-clock time of the call.
func Solve(ctx context.Context, s milp.Solver, m *Model, timeout time.Duration) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	sol, err := solveCtx(ctx, s, m.Problem())
	res := Result{Nodes: sol.Nodes, Duration: time.Since(start)}
	if err != nil {
		res.Status = model.StatusSolverError
		return res, fmt.Errorf("%w: %w", ErrSolver, err)
	}
	switch sol.Status {
	case milp.StatusOptimal:
		if err := m.Check(sol.Values); err != nil {
			res.Status = model.StatusSolverError
			return res, solverError("inconsistent solution: %v", err)
		}
		res.Status = model.StatusOptimal
		res.Values = sol.Values
		res.Objective = sol.Objective
		return res, nil
	case milp.StatusInfeasible:
		res.Status = model.StatusInfeasible
		return res, fmt.Errorf("%w: %d legs, %d aircraft, capacity %d",
			ErrInfeasible, len(m.Legs), len(m.Aircraft), m.Capacity)
	default:
		res.Status = model.StatusSolverError
		return res, solverError("unrecognized status %s", sol.Status)
	}
}
