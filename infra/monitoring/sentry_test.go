package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/legassign/config"
	coremon "github.com/kilianp07/legassign/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitor_InvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitor_Capture(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{DSN: "https://public@127.0.0.1:1/1", Environment: "test"})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.CaptureException(errors.New("solver failed"), map[string]string{"status": "solver_error"})
		m.CaptureException(nil, nil)
		m.Recover("solver panicked")
		m.Flush(10 * time.Millisecond)
	})
}
