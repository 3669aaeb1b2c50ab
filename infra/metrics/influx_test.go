package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/legassign/core/metrics"
	"github.com/kilianp07/legassign/core/model"
)

func TestInfluxSink_RecordRun(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer func() { _ = sink.Flush() }()
	now := time.Now()
	ev := coremetrics.RunEvent{
		RunID:      "run-1",
		ScenarioID: model.DefaultScenarioID,
		Status:     model.StatusOptimal,
		Legs:       5,
		Aircraft:   2,
		Assigned:   5,
		Objective:  5,
		Nodes:      1,
		Duration:   1500 * time.Microsecond,
		Time:       now,
	}
	if err := sink.RecordRun(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("legassign_run").
		AddTag("scenario_id", "BaseScenario").
		AddTag("status", "optimal").
		AddTag("run_id", "run-1").
		AddField("legs", 5).
		AddField("aircraft", 2).
		AddField("assigned", 5).
		AddField("objective", 5.0).
		AddField("nodes", 1).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
