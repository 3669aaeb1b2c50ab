package assign

import (
	"math"

	"github.com/kilianp07/legassign/core/model"
)

// roundBinary maps a solver value to the nearest integer so that values such
// as 0.999999 count as assigned.
func roundBinary(v float64) float64 { return math.Round(v) }

// Extract builds one row per leg, in leg input order, from solved values.
// Each leg must have exactly one aircraft whose value rounds to 1.
func Extract(m *Model, values []float64, scenarioID string) ([]model.AssignmentRow, error) {
	if len(values) != m.NumVars() {
		return nil, solverError("got %d values for %d variables", len(values), m.NumVars())
	}
	rows := make([]model.AssignmentRow, 0, len(m.Legs))
	for l, leg := range m.Legs {
		chosen := -1
		for a := range m.Aircraft {
			if roundBinary(values[m.Var(l, a)]) != 1 {
				continue
			}
			if chosen >= 0 {
				return nil, solverError("leg %s assigned to both %s and %s",
					leg.ID, m.Aircraft[chosen].ID, m.Aircraft[a].ID)
			}
			chosen = a
		}
		if chosen < 0 {
			return nil, solverError("leg %s has no assigned aircraft", leg.ID)
		}
		rows = append(rows, model.AssignmentRow{
			ScenarioID:         scenarioID,
			AircraftID:         m.Aircraft[chosen].ID,
			FlightLegSeqNumber: leg.ID,
			DepAirport:         leg.DepAirport,
			DepTime:            leg.Departure,
		})
	}
	return rows, nil
}
