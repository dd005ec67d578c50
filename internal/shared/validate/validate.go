// Package validate provides field-level validation shared across the engine.
//
// Rules enforced here are the lexical contracts of the blueprint language:
// module paths, input names, environment variable keys, and versions. Shape
// and completeness checks live with the schema and resolver packages.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Input name length limits.
const (
	MinInputNameLength = 2
	MaxInputNameLength = 64
)

// Regular expressions for validation
var (
	// InputNamePattern enforces kebab-case identifiers.
	InputNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	// EnvKeyPattern enforces UPPER_SNAKE_CASE environment variable keys.
	EnvKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
	// ModulePattern enforces the io.kuken.{category}.{Name} module shape.
	ModulePattern = regexp.MustCompile(`^io\.kuken\.[a-z][a-z0-9-]*\.[A-Z][A-Za-z0-9]*$`)
)

// InputName validates a declared input identifier.
func InputName(name string) error {
	if len(name) < MinInputNameLength || len(name) > MaxInputNameLength {
		return fmt.Errorf("input name %q must be %d-%d characters", name, MinInputNameLength, MaxInputNameLength)
	}
	if !InputNamePattern.MatchString(name) {
		return fmt.Errorf("input name %q must be kebab-case (lowercase letters, digits, hyphens)", name)
	}
	return nil
}

// EnvKey validates an environment variable key.
func EnvKey(key string) error {
	if key == "" {
		return fmt.Errorf("environment variable key is required")
	}
	if !EnvKeyPattern.MatchString(key) {
		return fmt.Errorf("environment variable key %q must be UPPER_SNAKE_CASE", key)
	}
	return nil
}

// Module validates a dotted blueprint module path.
func Module(module string) error {
	if module == "" {
		return fmt.Errorf("module is required")
	}
	if !ModulePattern.MatchString(module) {
		return fmt.Errorf("module %q must match io.kuken.{category}.{Name}", module)
	}
	return nil
}

// ModuleCategory extracts the category segment of a validated module path.
func ModuleCategory(module string) string {
	parts := strings.Split(module, ".")
	if len(parts) != 4 {
		return ""
	}
	return parts[2]
}

// Version validates a semver version string.
func Version(version string) error {
	if version == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("version %q is not valid semver: %w", version, err)
	}
	return nil
}

// Required validates that a string field is present.
func Required(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
