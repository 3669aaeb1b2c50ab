package assign

import (
	"fmt"

	"github.com/kilianp07/legassign/core/milp"
	"github.com/kilianp07/legassign/core/model"
)

// ModelName names the assignment program.
const ModelName = "Aircraft_Route_Optimization"

// Model is the leg-to-aircraft assignment program. Variable x[l,a] lives at
// index l*len(Aircraft)+a; coverage rows come first, one per leg, followed
// by capacity rows, one per aircraft.
type Model struct {
	Legs     []model.Demand
	Aircraft []model.Aircraft
	Capacity int
	problem  *milp.Problem
}

// CoverageName is the name of the row forcing exactly one aircraft on leg id.
func CoverageName(legID string) string { return "One_Aircraft_Per_Leg_" + legID }

// CapacityName is the name of the row capping the legs of aircraft id.
func CapacityName(aircraftID string) string { return "Max_Legs_Per_Aircraft_" + aircraftID }

// VarName is the name of the binary variable binding a leg to an aircraft.
func VarName(legID, aircraftID string) string { return "route_" + legID + "_" + aircraftID }

// Build constructs the assignment model. It fails with ErrModelSize when either
// set is empty and with ErrDuplicateID when an identifier repeats, since
// repeated names would merge constraints.
func Build(legs []model.Demand, aircraft []model.Aircraft, capacity int) (*Model, error) {
	if len(legs)*len(aircraft) <= 0 {
		return nil, fmt.Errorf("%w: %d legs x %d aircraft", ErrModelSize, len(legs), len(aircraft))
	}
	if capacity < 0 {
		return nil, fmt.Errorf("negative capacity %d", capacity)
	}
	if err := uniqueIDs(len(legs), func(i int) string { return legs[i].ID }); err != nil {
		return nil, fmt.Errorf("legs: %w", err)
	}
	if err := uniqueIDs(len(aircraft), func(i int) string { return aircraft[i].ID }); err != nil {
		return nil, fmt.Errorf("aircraft: %w", err)
	}

	m := &Model{Legs: legs, Aircraft: aircraft, Capacity: capacity}
	nL, nA := len(legs), len(aircraft)
	p := &milp.Problem{
		Name:      ModelName,
		Sense:     milp.Maximize,
		VarNames:  make([]string, nL*nA),
		Objective: make([]float64, nL*nA),
		Rows:      make([]milp.Row, 0, nL+nA),
	}
	for l, leg := range legs {
		for a, ac := range aircraft {
			v := m.Var(l, a)
			p.VarNames[v] = VarName(leg.ID, ac.ID)
			p.Objective[v] = 1
		}
	}
	for l, leg := range legs {
		terms := make([]milp.Term, nA)
		for a := range aircraft {
			terms[a] = milp.Term{Var: m.Var(l, a), Coeff: 1}
		}
		p.Rows = append(p.Rows, milp.Row{Name: CoverageName(leg.ID), Terms: terms, Kind: milp.Equal, RHS: 1})
	}
	for a, ac := range aircraft {
		terms := make([]milp.Term, nL)
		for l := range legs {
			terms[l] = milp.Term{Var: m.Var(l, a), Coeff: 1}
		}
		p.Rows = append(p.Rows, milp.Row{Name: CapacityName(ac.ID), Terms: terms, Kind: milp.LessEq, RHS: float64(capacity)})
	}
	m.problem = p
	return m, nil
}

func uniqueIDs(n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := id(i)
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w %q", ErrDuplicateID, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Var returns the variable index of (leg, aircraft).
func (m *Model) Var(leg, aircraft int) int { return leg*len(m.Aircraft) + aircraft }

// NumVars returns |legs| x |aircraft|.
func (m *Model) NumVars() int { return len(m.Legs) * len(m.Aircraft) }

// Problem returns the program handed to the solver.
func (m *Model) Problem() *milp.Problem { return m.problem }

// Check reports the constraints violated by values once rounded to integers.
func (m *Model) Check(values []float64) error {
	if len(values) != m.NumVars() {
		return fmt.Errorf("got %d values for %d variables", len(values), m.NumVars())
	}
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = roundBinary(v)
	}
	if v := m.problem.Violations(rounded, 0); len(v) > 0 {
		return fmt.Errorf("violated constraints: %v", v)
	}
	return nil
}
