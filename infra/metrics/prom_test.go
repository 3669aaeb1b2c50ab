package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/core/model"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)

	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{
		Status: model.StatusOptimal, Assigned: 5, Nodes: 3, Duration: 20 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Status: model.StatusInfeasible, Nodes: 1}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("infeasible")))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.assigned))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.nodes))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.duration))

	expected := `
# HELP legassign_runs_total Total number of planning runs by outcome
# TYPE legassign_runs_total counter
legassign_runs_total{status="infeasible"} 1
legassign_runs_total{status="optimal"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "legassign_runs_total"))
}

func TestPromSink_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)

	require.NoError(t, second.RecordRun(coremetrics.RunEvent{Status: model.StatusSolverError}))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.runs.WithLabelValues("solver_error")))
}

func TestPromSink_FlushTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	path := filepath.Join(t.TempDir(), "textfile", "legassign.prom")
	sink, err := NewPromSinkWithRegistry(reg, reg, path)
	require.NoError(t, err)
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Status: model.StatusOptimal, Assigned: 5}))
	require.NoError(t, sink.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `legassign_runs_total{status="optimal"} 1`)
	assert.Contains(t, string(data), "legassign_legs_assigned 5")
}

func TestPromSink_FlushWithoutTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)
	assert.NoError(t, sink.Flush())
}
