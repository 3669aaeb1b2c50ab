//go:build integration

package metrics

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/core/model"
)

const (
	itOrg    = "legassign_org"
	itBucket = "legassign_bucket"
	itToken  = "legassign-token"
)

// startInflux starts an InfluxDB 2.7 container initialized with a bucket and
// returns it along with the base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "legassign",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "legassign-password",
			"DOCKER_INFLUXDB_INIT_ORG":         itOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      itBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": itToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestInfluxSink_Container(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	defer cont.Terminate(ctx) //nolint:errcheck

	sink := NewInfluxSinkWithFallback(url, itToken, itOrg, itBucket)
	if _, ok := sink.(*InfluxSink); !ok {
		t.Fatalf("expected InfluxSink, got %T", sink)
	}
	ev := coremetrics.RunEvent{
		RunID: "it-1", ScenarioID: model.DefaultScenarioID, Status: model.StatusOptimal,
		Legs: 5, Aircraft: 2, Assigned: 5, Objective: 5, Nodes: 1, Time: time.Now(),
	}
	if err := sink.RecordRun(ev); err != nil {
		t.Fatalf("record run: %v", err)
	}

	client := influxdb2.NewClient(url, itToken)
	defer client.Close()
	q := fmt.Sprintf(`from(bucket:"%s") |> range(start:-5m) |> filter(fn: (r) => r._measurement == "legassign_run" and r._field == "assigned")`, itBucket)
	res, err := client.QueryAPI(itOrg).Query(ctx, q)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	found := false
	for res.Next() {
		if v, ok := res.Record().Value().(int64); ok && v == 5 {
			found = true
		}
	}
	if res.Err() != nil {
		t.Fatalf("query result: %v", res.Err())
	}
	if !found {
		t.Fatal("legassign_run point not found")
	}
}
