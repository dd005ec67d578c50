// Package schema implements the base reference schema and its registry.
//
// A Schema declares the closed set of top-level fields a fully resolved
// blueprint must carry (name, version, url, inputs, build) and their expected
// shapes. Blueprints point at a schema through their amends chain; the module
// resolver terminates chain resolution at a registered schema and validates
// the merged result against it.
//
// The registry follows a single-writer-at-init model: schemas are registered
// during startup and treated as read-only afterwards, so concurrent renders
// share it without locking on the read path.
package schema
