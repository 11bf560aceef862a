// Package telemetry holds the Prometheus collectors and OpenTelemetry
// tracer wiring used by async task trackers.
//
// Both are optional. A nil *TaskMetrics records nothing, and without an
// installed provider the global otel tracer is a no-op.
package telemetry
