package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/infra/logger"
)

// InfluxSink writes planning runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one legassign_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runPoint(ev))
}

func runPoint(ev coremetrics.RunEvent) *write.Point {
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return write.NewPointWithMeasurement("legassign_run").
		AddTag("scenario_id", ev.ScenarioID).
		AddTag("status", ev.Status.String()).
		AddTag("run_id", ev.RunID).
		AddField("legs", ev.Legs).
		AddField("aircraft", ev.Aircraft).
		AddField("assigned", ev.Assigned).
		AddField("objective", round3(ev.Objective)).
		AddField("nodes", ev.Nodes).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ts)
}

// Flush closes the client.
func (s *InfluxSink) Flush() error {
	s.client.Close()
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
