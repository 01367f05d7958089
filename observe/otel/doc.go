// Package otel provides an OpenTelemetry observer plugin for the scope
// library. It adds span events (scope created, cancelled, joined; task
// started, finished) to the span carried by the observed context, so a run
// started under a traced span shows its fan-out inline.
package otel
