package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/legassign/core/assign"
	"github.com/kilianp07/legassign/core/history"
	"github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/core/transform"
	"github.com/kilianp07/legassign/infra/csvio"
)

// EnvPrefix prefixes environment overrides. LA_MODEL__CAPACITY=4 sets
// model.capacity.
const EnvPrefix = "LA_"

type Config struct {
	Data      csvio.Config        `json:"data"`
	Model     assign.Config       `json:"model"`
	Solver    assign.SolverConfig `json:"solver"`
	Transform transform.Config    `json:"transform"`
	Output    OutputConfig        `json:"output"`
	History   history.Config      `json:"history"`
	Metrics   metrics.Config      `json:"metrics"`
	Logging   LoggingConfig       `json:"logging"`
	Sentry    SentryConfig        `json:"sentry"`
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Data.SetDefaults()
	c.Model.SetDefaults()
	c.Output.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section. Metrics sinks are validated when they are
// instantiated since their types are registered by infra packages.
func (c Config) Validate() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"data", c.Data.Validate},
		{"model", c.Model.Validate},
		{"solver", c.Solver.Validate},
		{"transform", c.Transform.Validate},
		{"output", c.Output.Validate},
		{"history", c.History.Validate},
		{"logging", c.Logging.Validate},
		{"sentry", c.Sentry.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

// Load reads the configuration file at path, applies LA_ environment
// overrides, then defaults and validation. An empty path loads the
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
