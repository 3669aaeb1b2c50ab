// Package metrics defines the MetricsSink interface used to report planning
// runs. Concrete sinks (Prometheus, InfluxDB) live in infra/metrics and
// register themselves by name; NewMetricsSink returns a MultiSink when
// several sinks are configured.
package metrics
