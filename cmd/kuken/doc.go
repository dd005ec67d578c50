// Package main is the Kuken blueprint CLI.
//
// Commands:
//   - eval: render a blueprint file into a deployment manifest
//   - test: run a blueprint's fixture cases against the render pipeline
//
// Usage:
//
//	kuken eval postgres.bp.yaml -set db-password=hunter2 -ctx instance.name=db-1
//	kuken test postgres.bp.yaml
//
// eval prints the manifest as indented JSON with secrets redacted; pass
// -reveal to emit true values. test loads <name>.fixtures.yaml next to the
// blueprint and reports each case.
package main
