// Package refs provides two-phase value expressions for blueprint build rules.
//
// A value in a blueprint's build section is authored as a string but may defer
// its final value to render time. This package parses those strings into
// expressions and resolves them against input values and the deployment
// context supplied by the hosting platform.
//
// Expression Forms:
//   - Literal: "redis:7" resolves to itself
//   - Input interpolation: "redis:${version}" substitutes declared inputs
//   - Runtime reference: "refs.instance.name" resolves only via a
//     caller-supplied Context at render time, never from engine state
//
// Resolution is total within a render: the first unresolved reference in
// left-to-right order fails the render with an UnresolvedError naming it.
//
// Example Usage:
//
//	expr, err := refs.Parse("postgres:${version}")
//	resolved, err := expr.Resolve(inputs, refs.Context{"instance.name": "db-1"})
package refs
