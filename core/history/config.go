package history

import (
	"fmt"

	"github.com/kilianp07/legassign/core/factory"
)

// Backend names.
const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects where run records are kept.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "legassign_history.db"
		case BackendJSONL:
			c.Path = "legassign_history.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !Registry.Has(c.Backend) {
		return fmt.Errorf("history.backend: unknown backend %q", c.Backend)
	}
	if c.Backend != BackendNone && c.Path == "" {
		return fmt.Errorf("history.path required for backend %s", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("history rotation settings must not be negative")
	}
	return nil
}

// Registry holds the available backends.
var Registry = factory.NewRegistry[Store]()

func init() {
	_ = Registry.Register(BackendNone, func(map[string]any) (Store, error) {
		return NopStore{}, nil
	})
	_ = Registry.Register(BackendJSONL, func(conf map[string]any) (Store, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	})
	_ = Registry.Register(BackendSQLite, func(conf map[string]any) (Store, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}

// Open creates the store selected by cfg.
func Open(cfg Config) (Store, error) {
	return Registry.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{
			"path":         cfg.Path,
			"max_size_mb":  cfg.MaxSizeMB,
			"max_backups":  cfg.MaxBackups,
			"max_age_days": cfg.MaxAgeDays,
		},
	})
}
