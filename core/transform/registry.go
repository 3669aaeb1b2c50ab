package transform

import (
	"github.com/kilianp07/legassign/core/factory"
	"github.com/kilianp07/legassign/core/logger"
)

// Registry holds the available stage types.
var Registry = factory.NewRegistry[Stage]()

func init() {
	_ = Registry.Register(NormalizeCodesType, func(conf map[string]any) (Stage, error) {
		var c NormalizeCodesConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewNormalizeCodes(c), nil
	})
	_ = Registry.Register(SortDepartureType, func(map[string]any) (Stage, error) {
		return SortDeparture{}, nil
	})
}

// Build instantiates the configured stages.
func Build(cfg Config, log logger.Logger) (*Pipeline, error) {
	stages := make([]Stage, 0, len(cfg.Stages))
	for _, sc := range cfg.Stages {
		s, err := Registry.Create(sc)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return NewPipeline(log, stages...), nil
}
