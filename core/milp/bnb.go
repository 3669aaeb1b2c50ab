package milp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/legassign/core/logger"
)

const (
	defaultTol      = 1e-9
	defaultIntTol   = 1e-6
	defaultMaxNodes = 100000
	pruneTol        = 1e-9
)

// BranchAndBound solves binary programs by depth-first branch-and-bound on
// LP relaxations. Zero-valued fields take package defaults.
type BranchAndBound struct {
	// Tol is passed to lp.Simplex as the reduced cost tolerance.
	Tol float64
	// IntTol is the distance from 0 or 1 below which a value counts as integral.
	IntTol float64
	// MaxNodes bounds the number of relaxations solved.
	MaxNodes int
	// Log receives a summary per solve. Nil disables logging.
	Log logger.Logger
}

type node struct {
	fixed []int8 // -1 free, otherwise the fixed value
	depth int
}

// relaxFn solves the relaxation of p with the given variables fixed. It can
// be overridden in tests to simulate numerical failures.
var relaxFn = relax

var errRelaxInfeasible = errors.New("relaxation infeasible")

// Solve implements Solver.
func (b *BranchAndBound) Solve(ctx context.Context, p *Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	tol, intTol, maxNodes := b.Tol, b.IntTol, b.MaxNodes
	if tol <= 0 {
		tol = defaultTol
	}
	if intTol <= 0 {
		intTol = defaultIntTol
	}
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}
	dir := 1.0
	if p.Sense == Minimize {
		dir = -1
	}

	start := time.Now()
	n := p.NumVars()
	root := node{fixed: make([]int8, n)}
	for j := range root.fixed {
		root.fixed[j] = -1
	}
	stack := []node{root}
	best := math.Inf(-1)
	var bestX []float64
	nodes, maxDepth := 0, 0

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Solution{Nodes: nodes}, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		if nodes >= maxNodes {
			return Solution{Nodes: nodes}, fmt.Errorf("%w (%d)", ErrNodeLimit, maxNodes)
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++
		if nd.depth > maxDepth {
			maxDepth = nd.depth
		}

		x, err := relaxFn(p, dir, nd.fixed, tol)
		if errors.Is(err, errRelaxInfeasible) {
			continue
		}
		if err != nil {
			return Solution{Nodes: nodes}, fmt.Errorf("%w: node %d: %v", ErrNumeric, nodes, err)
		}
		bound := dir * p.Evaluate(x)
		if bestX != nil && bound <= best+pruneTol {
			continue
		}
		j := branchVar(x, nd.fixed, intTol)
		if j < 0 {
			best, bestX = bound, x
			continue
		}
		// Depth first, exploring the side x[j] rounds towards.
		zero, one := nd.child(j, 0), nd.child(j, 1)
		if x[j] >= 0.5 {
			stack = append(stack, zero, one)
		} else {
			stack = append(stack, one, zero)
		}
	}

	sol := Solution{Status: StatusInfeasible, Nodes: nodes}
	if bestX != nil {
		sol.Status = StatusOptimal
		sol.Values = bestX
		sol.Objective = p.Evaluate(bestX)
	}
	if b.Log != nil {
		b.Log.Debugw("branch and bound finished", map[string]any{
			"problem":   p.Name,
			"status":    sol.Status.String(),
			"objective": sol.Objective,
			"nodes":     nodes,
			"depth":     maxDepth,
			"elapsed":   time.Since(start).String(),
		})
	}
	return sol, nil
}

func (nd node) child(j int, v int8) node {
	fixed := make([]int8, len(nd.fixed))
	copy(fixed, nd.fixed)
	fixed[j] = v
	return node{fixed: fixed, depth: nd.depth + 1}
}

// branchVar returns the free variable farthest from integrality, or -1 when x
// is integral.
func branchVar(x []float64, fixed []int8, intTol float64) int {
	idx, worst := -1, intTol
	for j, v := range x {
		if fixed[j] >= 0 {
			continue
		}
		frac := math.Abs(v - math.Round(v))
		if frac > worst {
			idx, worst = j, frac
		}
	}
	return idx
}

// reduced is a row restricted to the free variables of a node.
type reduced struct {
	terms []Term // indexed by free column
	kind  RowKind
	rhs   float64
}

// relax solves the LP relaxation of p with fixed variables substituted out.
// Free variables get x <= 1 through an explicit bound row unless a row
// already implies it. The returned slice covers all variables of p.
func relax(p *Problem, dir float64, fixed []int8, tol float64) ([]float64, error) {
	n := p.NumVars()
	x := make([]float64, n)
	col := make([]int, n)
	var free []int
	for j := 0; j < n; j++ {
		col[j] = -1
		if fixed[j] >= 0 {
			x[j] = float64(fixed[j])
			continue
		}
		col[j] = len(free)
		free = append(free, j)
	}

	var rows []reduced
	ineq, eq := 0, 0
	for _, r := range p.Rows {
		rhs := r.RHS
		var terms []Term
		for _, t := range r.Terms {
			if t.Coeff == 0 {
				continue
			}
			if c := col[t.Var]; c >= 0 {
				terms = append(terms, Term{Var: c, Coeff: t.Coeff})
			} else {
				rhs -= t.Coeff * x[t.Var]
			}
		}
		if len(terms) == 0 {
			if !satisfied(0, r.Kind, rhs, tol) {
				return nil, errRelaxInfeasible
			}
			continue
		}
		if r.Kind == Equal {
			eq++
		} else {
			ineq++
		}
		rows = append(rows, reduced{terms: terms, kind: r.Kind, rhs: rhs})
	}

	nf := len(free)
	if nf == 0 {
		return x, nil
	}
	if eq > nf {
		return nil, fmt.Errorf("%d equality rows over %d free variables", eq, nf)
	}

	bounded := impliedUpper(rows, nf)
	var unbounded []int
	for k := 0; k < nf; k++ {
		if !bounded[k] {
			unbounded = append(unbounded, k)
		}
	}

	// Columns: free vars | one slack per inequality | one bound slack per unbounded var.
	m := len(rows) + len(unbounded)
	cols := nf + ineq + len(unbounded)
	a := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	c := make([]float64, cols)
	for k, j := range free {
		c[k] = -dir * p.Objective[j]
	}
	slack := nf
	for i, r := range rows {
		for _, t := range r.terms {
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coeff)
		}
		switch r.kind {
		case LessEq:
			a.Set(i, slack, 1)
			slack++
		case GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = r.rhs
		if b[i] < 0 {
			for k := 0; k < cols; k++ {
				if v := a.At(i, k); v != 0 {
					a.Set(i, k, -v)
				}
			}
			b[i] = -b[i]
		}
	}
	for u, k := range unbounded {
		i := len(rows) + u
		a.Set(i, k, 1)
		a.Set(i, nf+ineq+u, 1)
		b[i] = 1
	}

	_, sol, err := lp.Simplex(c, a, b, tol, nil)
	if errors.Is(err, lp.ErrInfeasible) {
		return nil, errRelaxInfeasible
	}
	if err != nil {
		return nil, err
	}
	for k, j := range free {
		x[j] = sol[k]
	}
	return x, nil
}

// impliedUpper reports, per free column, whether some row already forces
// x <= 1: an equality or <= row with non-negative coefficients where the
// column's coefficient is at least the RHS. Coverage rows of the form
// sum(x) = 1 bound every variable they touch.
func impliedUpper(rows []reduced, nf int) []bool {
	bounded := make([]bool, nf)
	for _, r := range rows {
		if r.kind == GreaterEq || r.rhs < 0 {
			continue
		}
		coeff := make(map[int]float64, len(r.terms))
		nonNeg := true
		for _, t := range r.terms {
			coeff[t.Var] += t.Coeff
		}
		for _, v := range coeff {
			if v < 0 {
				nonNeg = false
				break
			}
		}
		if !nonNeg {
			continue
		}
		for k, v := range coeff {
			if v > 0 && v >= r.rhs {
				bounded[k] = true
			}
		}
	}
	return bounded
}

func satisfied(lhs float64, kind RowKind, rhs, tol float64) bool {
	switch kind {
	case Equal:
		return math.Abs(lhs-rhs) <= tol
	case LessEq:
		return lhs <= rhs+tol
	default:
		return lhs >= rhs-tol
	}
}
