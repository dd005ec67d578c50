package engine

import (
	"errors"

	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/manifest"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/kuken-host/engine/internal/resolve"
	"github.com/kuken-host/engine/internal/schema"
)

// Error kind names. Stable: they label metrics and API error payloads.
const (
	KindSchemaLoad          = "schema_load"
	KindMalformedBlueprint  = "malformed_blueprint"
	KindCyclicInheritance   = "cyclic_inheritance"
	KindIncompleteBlueprint = "incomplete_blueprint"
	KindInvalidDeclaration  = "invalid_input_declaration"
	KindMissingInput        = "missing_required_input"
	KindInvalidValue        = "invalid_input_value"
	KindUnresolvedReference = "unresolved_reference"
	KindInvalidManifest     = "invalid_manifest"
	KindInternal            = "internal"
)

// ErrorKind maps a pipeline error to its stable taxonomy name.
func ErrorKind(err error) string {
	var (
		loadErr       *schema.LoadError
		parseErr      *blueprint.ParseError
		cycleErr      *resolve.CycleError
		incompleteErr *schema.IncompleteError
		declErr       *input.DeclarationError
		missingErr    *input.MissingError
		valueErr      *input.ValueError
		unresolvedErr *refs.UnresolvedError
		renderErr     *manifest.RenderError
	)

	switch {
	case errors.As(err, &loadErr):
		return KindSchemaLoad
	case errors.As(err, &parseErr):
		return KindMalformedBlueprint
	case errors.As(err, &cycleErr):
		return KindCyclicInheritance
	case errors.As(err, &incompleteErr):
		return KindIncompleteBlueprint
	case errors.As(err, &declErr):
		return KindInvalidDeclaration
	case errors.As(err, &missingErr):
		return KindMissingInput
	case errors.As(err, &valueErr):
		return KindInvalidValue
	case errors.As(err, &unresolvedErr):
		return KindUnresolvedReference
	case errors.As(err, &renderErr):
		return KindInvalidManifest
	default:
		return KindInternal
	}
}

// IsUserError reports whether the error is a blueprint or request defect, as
// opposed to an engine-internal failure. The HTTP layer maps these to 4xx.
func IsUserError(err error) bool {
	return ErrorKind(err) != KindInternal
}
