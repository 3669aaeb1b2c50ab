package transform

import (
	"fmt"

	"github.com/kilianp07/legassign/core/factory"
	"github.com/kilianp07/legassign/core/logger"
	"github.com/kilianp07/legassign/core/model"
)

// Stage rewrites a dataset. Implementations must not mutate their input.
type Stage interface {
	Name() string
	Apply(model.Dataset) (model.Dataset, error)
}

// Config lists the stages to run, in order.
type Config struct {
	Stages []factory.ModuleConfig `json:"stages"`
}

// Validate checks that every configured stage type is registered.
func (c Config) Validate() error {
	for i, s := range c.Stages {
		if !Registry.Has(s.Type) {
			return fmt.Errorf("transform.stages[%d]: unknown stage type %q", i, s.Type)
		}
	}
	return nil
}

// Pipeline applies stages in order.
type Pipeline struct {
	stages []Stage
	log    logger.Logger
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(log logger.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, log: log}
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Apply runs every stage on ds.
func (p *Pipeline) Apply(ds model.Dataset) (model.Dataset, error) {
	for _, s := range p.stages {
		out, err := s.Apply(ds)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		if p.log != nil {
			p.log.Debugw("transform stage applied", map[string]any{
				"stage":    s.Name(),
				"demands":  len(out.Demands),
				"aircraft": len(out.Aircraft),
			})
		}
		ds = out
	}
	return ds, nil
}
