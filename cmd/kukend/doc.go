// Package main is the entry point for the Kuken blueprint engine daemon.
//
// The daemon serves the blueprint registry and render pipeline over REST,
// turning schema-validated blueprints into deployment manifests for the
// hosting platform's deployment collaborator.
//
// The server provides:
//   - Blueprint registry (list, get, save, delete)
//   - Manifest rendering for stored and ad-hoc blueprints
//   - Prometheus metrics and health endpoints
//   - Rate limiting and request correlation
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./kukend -port 8000 -catalog ./catalog
//
//	# Development mode (colored logs, debug level)
//	./kukend -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
