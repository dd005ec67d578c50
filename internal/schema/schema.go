package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/kuken-host/engine/internal/blueprint"
)

// FieldKind is the expected shape of a schema field.
type FieldKind string

// Supported field shapes.
const (
	KindString FieldKind = "string"
	KindInputs FieldKind = "inputs"
	KindBuild  FieldKind = "build"
)

// Field is one declared field contract.
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Kind     FieldKind `yaml:"kind" json:"kind"`
	Required bool      `yaml:"required" json:"required"`
}

// Schema is the contract a resolved blueprint must satisfy.
type Schema struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`

	byName map[string]Field
}

// contractFields is the closed set of blueprint fields a schema may govern.
var contractFields = map[string]struct{}{
	"module": {}, "name": {}, "version": {}, "url": {}, "inputs": {}, "build": {},
}

// LoadError reports a malformed schema source.
type LoadError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *LoadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema load failed: %s", e.Reason)
	}
	return fmt.Sprintf("schema field %q is malformed: %s", e.Field, e.Reason)
}

// IncompleteError reports a schema-required field absent after merge.
type IncompleteError struct {
	Field string
}

// Error implements error.
func (e *IncompleteError) Error() string {
	return fmt.Sprintf("blueprint is missing required field %q", e.Field)
}

// Load parses a schema document. Pure: no side effects, no registration.
func Load(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &LoadError{Reason: err.Error()}
	}
	if s.Name == "" {
		return nil, &LoadError{Field: "name", Reason: "schema name is required"}
	}

	s.byName = make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, &LoadError{Field: f.Name, Reason: "field name is required"}
		}
		if _, ok := contractFields[f.Name]; !ok {
			return nil, &LoadError{Field: f.Name, Reason: "not a blueprint top-level field"}
		}
		switch f.Kind {
		case KindString, KindInputs, KindBuild:
		default:
			return nil, &LoadError{Field: f.Name, Reason: fmt.Sprintf("unknown field kind %q", f.Kind)}
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, &LoadError{Field: f.Name, Reason: "duplicate field declaration"}
		}
		s.byName[f.Name] = f
	}
	return &s, nil
}

// MustLoad parses a schema document and panics on error. Init-time helper.
func MustLoad(data []byte) *Schema {
	s, err := Load(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Field returns the contract for a named field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Validate checks a merged blueprint for completeness against the schema.
// The inputs field is satisfied by any declaration list, including an empty
// one; string fields and the build image must be non-empty.
func (s *Schema) Validate(doc *blueprint.Document) error {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		switch f.Kind {
		case KindString:
			if stringField(doc, f.Name) == "" {
				return &IncompleteError{Field: f.Name}
			}
		case KindBuild:
			if doc.Build.Docker.Image.Raw() == "" {
				return &IncompleteError{Field: "build.docker.image"}
			}
		case KindInputs:
			// Zero declared inputs is a complete (if spartan) blueprint.
		}
	}
	return nil
}

func stringField(doc *blueprint.Document, name string) string {
	switch name {
	case "name":
		return doc.Name
	case "version":
		return doc.Version
	case "url":
		return doc.URL
	case "module":
		return doc.Module
	default:
		return ""
	}
}
