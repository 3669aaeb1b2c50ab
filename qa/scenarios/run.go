package scenarios

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/legassign/app"
	"github.com/kilianp07/legassign/config"
	"github.com/kilianp07/legassign/core/history"
	"github.com/kilianp07/legassign/infra/metrics"
)

// writeCSV writes rows to dir/name with gocsv and returns the path.
func writeCSV(t *testing.T, dir, name string, rows any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer func() { _ = f.Close() }()
	if err := gocsv.Marshal(rows, f); err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	return path
}

// RunScenario materializes the scenario as CSV inputs, runs the planning
// service on them and checks the expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Data.Aircraft = writeCSV(t, dir, "Aircraft.csv", sc.Aircraft)
	cfg.Data.Demands = writeCSV(t, dir, "Demands.csv", sc.Legs)
	cfg.Model.Capacity = sc.Capacity
	cfg.Transform.Stages = sc.Stages
	cfg.History = history.Config{Backend: history.BackendNone}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg, reg, "")
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	svc, err := app.New(cfg, app.WithSink(sink))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	plan, runErr := svc.Run(context.Background())
	if got := plan.Status.String(); got != sc.Expected.Status {
		t.Fatalf("status: got %s want %s (err: %v)", got, sc.Expected.Status, runErr)
	}
	if (runErr == nil) != (sc.Expected.Status == "optimal") {
		t.Fatalf("unexpected error state: %v", runErr)
	}
	if len(plan.Rows) != sc.Expected.Rows {
		t.Fatalf("rows: got %d want %d", len(plan.Rows), sc.Expected.Rows)
	}
	for id, n := range plan.LegsPerAircraft() {
		if n > cfg.Model.MaxLegs() {
			t.Errorf("aircraft %s flies %d legs, capacity %d", id, n, cfg.Model.MaxLegs())
		}
	}
	for i, want := range sc.Expected.Order {
		if i >= len(plan.Rows) || plan.Rows[i].FlightLegSeqNumber != want {
			t.Fatalf("row order: want %v", sc.Expected.Order)
		}
	}
	if got := testutil.ToFloat64(sink.RunsCounter(sc.Expected.Status)); got != 1 {
		t.Errorf("legassign_runs_total{status=%q} = %v, want 1", sc.Expected.Status, got)
	}
}
