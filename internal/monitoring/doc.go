// Package monitoring provides Prometheus metrics for the blueprint engine.
//
// Metrics cover the HTTP surface (request counts, latencies) and the engine
// itself (renders by module and outcome, render latency, validation failures
// by error kind, registry size). Handlers expose them on /metrics in the
// standard exposition format.
package monitoring
