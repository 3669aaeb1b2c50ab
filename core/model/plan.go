package model

import "time"

// DefaultScenarioID labels plans produced from the base input set.
const DefaultScenarioID = "BaseScenario"

// PlanStatus describes how a planning run ended.
type PlanStatus int

const (
	StatusUnknown PlanStatus = iota
	StatusOptimal
	StatusInfeasible
	StatusSolverError
	StatusParseError
	StatusModelSizeError
)

// String returns the lower-case name used in logs, metrics and history.
func (s PlanStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusSolverError:
		return "solver_error"
	case StatusParseError:
		return "parse_error"
	case StatusModelSizeError:
		return "model_size_error"
	default:
		return "unknown"
	}
}

// ParsePlanStatus is the inverse of PlanStatus.String.
func ParsePlanStatus(s string) PlanStatus {
	switch s {
	case "optimal":
		return StatusOptimal
	case "infeasible":
		return StatusInfeasible
	case "solver_error":
		return StatusSolverError
	case "parse_error":
		return StatusParseError
	case "model_size_error":
		return StatusModelSizeError
	default:
		return StatusUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s PlanStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PlanStatus) UnmarshalText(b []byte) error {
	*s = ParsePlanStatus(string(b))
	return nil
}

// AssignmentRow is one output line: the aircraft chosen to fly a leg.
type AssignmentRow struct {
	ScenarioID         string    `json:"scenario_id"`
	AircraftID         string    `json:"aircraft_id"`
	FlightLegSeqNumber string    `json:"flight_leg_seq_number"`
	DepAirport         string    `json:"dep_airport"`
	DepTime            time.Time `json:"dep_time"`
}

// Plan is the result of one planning run.
type Plan struct {
	RunID      string          `json:"run_id"`
	ScenarioID string          `json:"scenario_id"`
	Status     PlanStatus      `json:"status"`
	Objective  float64         `json:"objective"`
	Rows       []AssignmentRow `json:"rows"`
	Legs       int             `json:"legs"`
	Aircraft   int             `json:"aircraft"`
	Nodes      int             `json:"nodes"`
	Duration   time.Duration   `json:"duration"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LegsPerAircraft counts assigned legs by aircraft.
func (p Plan) LegsPerAircraft() map[string]int {
	out := make(map[string]int)
	for _, r := range p.Rows {
		out[r.AircraftID]++
	}
	return out
}
