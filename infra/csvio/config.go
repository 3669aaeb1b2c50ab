package csvio

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Config locates the planner input tables and describes their format.
type Config struct {
	Aircraft     string `json:"aircraft"`
	Demands      string `json:"demands"`
	Airports     string `json:"airports"`
	DistanceTime string `json:"distance_time"`
	// Delimiter is the single-character field separator.
	Delimiter string `json:"delimiter"`
	// Encoding is one of utf-8, latin-1 or windows-1252.
	Encoding string `json:"encoding"`
	// Location is the IANA zone applied to datetimes without an offset.
	Location string `json:"location"`
	// TimeLayouts replaces the default datetime layouts when set.
	TimeLayouts []string `json:"time_layouts"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.Location == "" {
		c.Location = "UTC"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Aircraft == "" {
		return fmt.Errorf("data.aircraft path is required")
	}
	if c.Demands == "" {
		return fmt.Errorf("data.demands path is required")
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("data.delimiter must be a single character, got %q", c.Delimiter)
	}
	if _, err := decoderFor(c.Encoding); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		return fmt.Errorf("data.location: %w", err)
	}
	return nil
}

func (c Config) comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func normalizeEncoding(enc string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(enc)), "_", "-")
}
