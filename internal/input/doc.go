// Package input implements the blueprint input type system.
//
// Inputs are the user-facing configuration surface of a blueprint: a closed,
// extensible set of typed declarations (text, password, port) whose values are
// supplied by the hosting platform or fall back to declared defaults.
//
// Each kind contributes one Validator with two checks:
//   - ValidateDeclaration: author-time shape of the declaration itself
//     (a port default must already be in range when the blueprint is written)
//   - Normalize: render-time validation and normalization of a supplied value
//
// Password values are wrapped in a Secret that redacts itself in logs and
// diagnostic output; the true value is only reachable through an explicit
// Reveal during final environment assembly.
//
// Example Usage:
//
//	reg := input.DefaultRegistry()
//	values, err := input.ResolveValues(reg, decls, map[string]string{"port": "8080"})
package input
