// Package otel exposes the engine's counters as OpenTelemetry observable
// instruments. The engine itself stays dependency-free; hosts that already
// run an OTel pipeline register this exporter against their meter.
package otel
