// Package resolve implements blueprint inheritance resolution.
//
// Every blueprint amends exactly one parent: another blueprint (by local path
// or HTTP(S) URI) or, at the root of the chain, a registered reference schema.
// The resolver walks that chain with a visited-set cycle check, merges fields
// child-over-parent, and validates the merged result for completeness against
// the terminating schema.
//
// Merge Semantics:
//   - Scalar metadata (name, version, url, image) overrides field-by-field
//   - inputs concatenate in declaration order; a child redeclaring a name
//     replaces the parent's declaration wholesale, keeping its first position
//   - environmentVariables concatenate; key dedup is the composer's concern
//
// Remote parents are fetched through a retrying HTTP client and can be
// disabled entirely for air-gapped deployments.
package resolve
