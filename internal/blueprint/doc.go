// Package blueprint provides parsing and validation of blueprint documents.
//
// A blueprint is the declarative unit describing one deployable application:
// identity metadata, typed input declarations, and a build specification
// (container image template plus ordered environment variables). Documents
// amend exactly one parent, forming an inheritance chain resolved by the
// resolve package.
//
// Key Components:
//   - Document: the parsed, validated in-memory form
//   - Decode/DecodeFile: multi-format decoding (YAML, JSON, TOML)
//   - Lexical validation: module shape, input names, env keys
//
// Document Structure:
//   - module: dotted io.kuken.{category}.{Name} identity
//   - amends: parent blueprint or base schema reference
//   - inputs: ordered, uniquely named typed declarations
//   - build: docker image template and environmentVariables list
//
// Example:
//
//	doc, err := blueprint.DecodeFile("postgres.bp.yaml", content)
package blueprint
