package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/legassign/app"
	"github.com/kilianp07/legassign/config"
	coremon "github.com/kilianp07/legassign/core/monitoring"
)

func writeConfig(t *testing.T, legs int) string {
	t.Helper()
	dir := t.TempDir()
	ac := "AircraftID\nAC1\nAC2\n"
	var dm strings.Builder
	dm.WriteString("DemandID,DepAirport,ArrAirport,ScheduledDepDatetime,ScheduledArrDatetime\n")
	for i := 1; i <= legs; i++ {
		fmt.Fprintf(&dm, "%d,AP%d,AP%d,03/01/2024 %02d:00,03/01/2024 %02d:45\n", i, i, i+1, i+4, i+4)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Aircraft.csv"), []byte(ac), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Demands.csv"), []byte(dm.String()), 0o644))
	cfg := fmt.Sprintf(`data:
  aircraft: %q
  demands: %q
history:
  backend: jsonl
  path: %q
logging:
  level: error
`, filepath.Join(dir, "Aircraft.csv"), filepath.Join(dir, "Demands.csv"), filepath.Join(dir, "runs.jsonl"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		solveOut, solveFormat = "", ""
		historyStatus, historyScenario, historySince, historyLimit = "", "", 0, 20
	})
	code := Execute()
	return out.String(), code
}

func TestSolveToStdout(t *testing.T) {
	cfg := writeConfig(t, 5)
	out, code := run(t, "solve", "-c", cfg)
	require.Equal(t, ExitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "ScenarioID,AircraftID,FlightLegSeqNumber,DepAirport,DepTime", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "BaseScenario,"))
	assert.True(t, strings.HasSuffix(lines[1], ",1,AP1,2024-03-01T05:00:00Z"))
}

func TestSolveToFileAndHistory(t *testing.T) {
	cfg := writeConfig(t, 4)
	outPath := filepath.Join(t.TempDir(), "plan.json")
	_, code := run(t, "solve", "-c", cfg, "-o", outPath)
	require.Equal(t, ExitOK, code)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "optimal"`)

	out, code := run(t, "history", "-c", cfg, "--status", "optimal")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "optimal")
	assert.Equal(t, 2, len(strings.Split(strings.TrimSpace(out), "\n")))
}

func TestSolveInfeasibleExitCode(t *testing.T) {
	cfg := writeConfig(t, 7)
	out, code := run(t, "solve", "-c", cfg)
	assert.Equal(t, ExitInfeasible, code)
	assert.Empty(t, out)
}

func TestInspect(t *testing.T) {
	cfg := writeConfig(t, 7)
	out, code := run(t, "inspect", "-c", cfg)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "demands:        7")
	assert.Contains(t, out, "feasible:       no")
}

func TestBadFlags(t *testing.T) {
	cfg := writeConfig(t, 1)
	_, code := run(t, "history", "-c", cfg, "--status", "great")
	assert.Equal(t, ExitError, code)
	_, code = run(t, "solve", "-c", cfg, "--format", "xml")
	assert.Equal(t, ExitError, code)
	_, code = run(t, "solve", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitError, code)
}

type panicMonitor struct {
	errs   []error
	panics []any
}

func (m *panicMonitor) CaptureException(err error, _ map[string]string) { m.errs = append(m.errs, err) }
func (m *panicMonitor) Recover(r any)                                   { m.panics = append(m.panics, r) }
func (m *panicMonitor) Flush(time.Duration)                             {}

func TestWithServiceReportsPanic(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, 1))
	require.NoError(t, err)
	mon := &panicMonitor{}

	assert.PanicsWithValue(t, "solver blew up", func() {
		_ = withService(cfg, func(context.Context, *app.Service) error {
			assert.Equal(t, coremon.Monitor(mon), coremon.Current())
			panic("solver blew up")
		}, app.WithMonitor(mon))
	})
	assert.Equal(t, []any{"solver blew up"}, mon.panics)
	assert.IsType(t, coremon.NopMonitor{}, coremon.Current())
}

func TestWithServiceReturnsError(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, 1))
	require.NoError(t, err)
	mon := &panicMonitor{}

	want := errors.New("inspect failed")
	err = withService(cfg, func(context.Context, *app.Service) error { return want }, app.WithMonitor(mon))
	assert.ErrorIs(t, err, want)
	assert.Empty(t, mon.panics)
}
