package milp

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// RowKind is the relation between a row's left-hand side and its RHS.
type RowKind int

const (
	Equal RowKind = iota
	LessEq
	GreaterEq
)

func (k RowKind) String() string {
	switch k {
	case Equal:
		return "=="
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Term is a coefficient applied to one variable.
type Term struct {
	Var   int
	Coeff float64
}

// Row is a named linear constraint.
type Row struct {
	Name  string
	Terms []Term
	Kind  RowKind
	RHS   float64
}

// Problem is a binary linear program. Every variable has domain {0, 1}.
type Problem struct {
	Name      string
	Sense     Sense
	VarNames  []string
	Objective []float64
	Rows      []Row
}

// NumVars returns the number of decision variables.
func (p *Problem) NumVars() int { return len(p.Objective) }

// Validate checks the problem is well formed.
func (p *Problem) Validate() error {
	n := p.NumVars()
	if n == 0 {
		return errors.New("milp: problem has no variables")
	}
	if len(p.VarNames) != 0 && len(p.VarNames) != n {
		return fmt.Errorf("milp: %d variable names for %d variables", len(p.VarNames), n)
	}
	names := make(map[string]struct{}, len(p.Rows))
	for _, r := range p.Rows {
		if r.Name != "" {
			if _, dup := names[r.Name]; dup {
				return fmt.Errorf("milp: duplicate row name %q", r.Name)
			}
			names[r.Name] = struct{}{}
		}
		for _, t := range r.Terms {
			if t.Var < 0 || t.Var >= n {
				return fmt.Errorf("milp: row %q references variable %d out of range", r.Name, t.Var)
			}
		}
	}
	return nil
}

// Evaluate returns the objective value of x.
func (p *Problem) Evaluate(x []float64) float64 {
	var obj float64
	for j, c := range p.Objective {
		obj += c * x[j]
	}
	return obj
}

// Violations lists the rows x does not satisfy within tol.
func (p *Problem) Violations(x []float64, tol float64) []string {
	var out []string
	for _, r := range p.Rows {
		var lhs float64
		for _, t := range r.Terms {
			lhs += t.Coeff * x[t.Var]
		}
		ok := true
		switch r.Kind {
		case Equal:
			ok = math.Abs(lhs-r.RHS) <= tol
		case LessEq:
			ok = lhs <= r.RHS+tol
		case GreaterEq:
			ok = lhs >= r.RHS-tol
		}
		if !ok {
			out = append(out, fmt.Sprintf("%s: %g %s %g", r.Name, lhs, r.Kind, r.RHS))
		}
	}
	return out
}
