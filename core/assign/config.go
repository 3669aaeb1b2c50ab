package assign

import (
	"fmt"
	"time"

	"github.com/kilianp07/legassign/core/model"
)

// DefaultCapacity is the maximum number of legs per aircraft in the base
// configuration.
const DefaultCapacity = 3

// Config defines the assignment model parameters.
type Config struct {
	// Capacity caps the legs assigned to any one aircraft. Nil selects
	// DefaultCapacity; an explicit 0 is kept.
	Capacity *int `json:"capacity"`
	// ScenarioID labels every output row.
	ScenarioID string `json:"scenario_id"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Capacity == nil {
		capacity := DefaultCapacity
		c.Capacity = &capacity
	}
	if c.ScenarioID == "" {
		c.ScenarioID = model.DefaultScenarioID
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.MaxLegs() < 0 {
		return fmt.Errorf("model.capacity must not be negative, got %d", c.MaxLegs())
	}
	return nil
}

// MaxLegs returns the configured capacity, DefaultCapacity when unset.
func (c Config) MaxLegs() int {
	if c.Capacity == nil {
		return DefaultCapacity
	}
	return *c.Capacity
}

// SolverConfig tunes the branch-and-bound solver. Zero values select the
// solver defaults and no time limit.
type SolverConfig struct {
	TimeoutSeconds float64 `json:"timeout_seconds"`
	MaxNodes       int     `json:"max_nodes"`
	Tolerance      float64 `json:"tolerance"`
	IntTolerance   float64 `json:"int_tolerance"`
}

// Timeout returns the wall-clock limit of one solve, zero meaning none.
func (c SolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.TimeoutSeconds < 0 || c.MaxNodes < 0 || c.Tolerance < 0 || c.IntTolerance < 0 {
		return fmt.Errorf("solver settings must not be negative")
	}
	if c.IntTolerance >= 0.5 {
		return fmt.Errorf("solver.int_tolerance must be below 0.5, got %g", c.IntTolerance)
	}
	return nil
}
