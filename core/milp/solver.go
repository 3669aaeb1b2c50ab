package milp

import (
	"context"
	"errors"
)

// Status is the outcome of a solve that terminated normally.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "not_solved"
	}
}

var (
	// ErrNodeLimit is returned when the search stops before proving optimality.
	ErrNodeLimit = errors.New("milp: node limit reached")
	// ErrNumeric is returned when an LP relaxation fails for numerical reasons.
	ErrNumeric = errors.New("milp: numerical failure")
	// ErrInterrupted is returned when the context ends during the search.
	ErrInterrupted = errors.New("milp: interrupted")
)

// Solution holds the solver output. Values are the raw relaxation values of
// the incumbent and may deviate from 0 or 1 by the solver tolerance.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	Nodes     int
}

// Solver solves binary linear programs.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, p *Problem) (Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, p *Problem) (Solution, error) { return f(ctx, p) }
