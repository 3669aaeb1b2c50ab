package config

import "fmt"

// SentryConfig defines settings for Sentry error monitoring. An empty DSN
// disables reporting.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// Validate checks mandatory fields.
func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("sentry.traces_sample_rate must be within [0,1], got %g", c.TracesSampleRate)
	}
	return nil
}
