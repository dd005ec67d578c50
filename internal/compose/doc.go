// Package compose assembles a concrete build from a resolved blueprint.
//
// Composition is the point where declared rules meet supplied values: input
// values are validated and normalized, the image template is interpolated,
// every deferred reference is resolved, and the environment variable list is
// deduplicated.
//
// Dedup Contract:
//
//	Declarations [(A,1), (B,2), (A,3)] compose to [(A,3), (B,2)]: a key keeps
//	the position of its first declaration and the value of its last. This
//	mirrors declarative override intent across the inheritance chain.
//
// Composition is all-or-nothing: any invalid input or unresolved reference
// fails the whole call and no partial build escapes.
package compose
