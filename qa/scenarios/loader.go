package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/legassign/core/factory"
)

type LegDef struct {
	ID        string `yaml:"id" csv:"DemandID"`
	From      string `yaml:"from" csv:"DepAirport"`
	To        string `yaml:"to" csv:"ArrAirport"`
	Departure string `yaml:"departure" csv:"ScheduledDepDatetime"`
	Arrival   string `yaml:"arrival" csv:"ScheduledArrDatetime"`
}

type AircraftDef struct {
	ID   string `yaml:"id" csv:"AircraftID"`
	Type string `yaml:"type,omitempty" csv:"AircraftType"`
}

type Expected struct {
	// Status is the plan status name, e.g. "optimal" or "infeasible".
	Status string `yaml:"status"`
	Rows   int    `yaml:"rows"`
	// Order lists the expected FlightLegSeqNumber sequence when set.
	Order []string `yaml:"order,omitempty"`
}

type Scenario struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Capacity    *int                   `yaml:"capacity,omitempty"`
	Stages      []factory.ModuleConfig `yaml:"stages,omitempty"`
	Aircraft    []AircraftDef          `yaml:"aircraft"`
	Legs        []LegDef               `yaml:"legs"`
	Expected    Expected               `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
