package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/legassign/pkg/export"
)

// OutputConfig defines where the plan is written. An empty path writes to
// standard output.
type OutputConfig struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	TimeLayout string `json:"time_layout"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		if c.Path != "" {
			c.Format = export.FormatFromPath(c.Path)
		} else {
			c.Format = export.FormatCSV
		}
	}
	c.Format = strings.ToLower(c.Format)
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Format != export.FormatCSV && c.Format != export.FormatJSON {
		return fmt.Errorf("output.format must be csv or json, got %q", c.Format)
	}
	return nil
}

// Options returns the writer options.
func (c OutputConfig) Options() export.Options {
	return export.Options{TimeLayout: c.TimeLayout}
}
