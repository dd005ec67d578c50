// Package server assembles the engine, registry, and HTTP surface.
//
// Construction wires configuration into the render pipeline, seeds the
// catalog, and registers routes with their middleware chain. Run blocks
// until the context is canceled, then drains in-flight requests.
package server
