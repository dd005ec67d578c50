package blueprint

import (
	"github.com/kuken-host/engine/internal/shared/validate"
)

// validateLexical enforces the field-level contracts that hold for any single
// document, before inheritance is resolved: module shape, version grammar,
// input name uniqueness, and env key casing. Completeness against the schema
// is the resolver's concern since parents may supply missing fields.
func (d *Document) validateLexical() error {
	if err := validate.Module(d.Module); err != nil {
		return &ParseError{Field: "module", Reason: err.Error()}
	}
	if d.Amends == "" {
		return &ParseError{Field: "amends", Reason: "every blueprint must amend a parent schema"}
	}
	if d.Version != "" {
		if err := validate.Version(d.Version); err != nil {
			return &ParseError{Field: "version", Reason: err.Error()}
		}
	}

	seen := make(map[string]struct{}, len(d.Inputs))
	for _, decl := range d.Inputs {
		if err := validate.InputName(decl.Name); err != nil {
			return &ParseError{Field: decl.Name, Reason: err.Error()}
		}
		if decl.Kind == "" {
			return &ParseError{Field: decl.Name, Reason: "input type is required"}
		}
		// Uniqueness is case-sensitive and per-document; overriding an
		// inherited input happens across documents, not within one.
		if _, dup := seen[decl.Name]; dup {
			return &ParseError{Field: decl.Name, Reason: "duplicate input declaration"}
		}
		seen[decl.Name] = struct{}{}
	}

	for _, env := range d.Build.Env {
		if err := validate.EnvKey(env.Key); err != nil {
			return &ParseError{Field: env.Key, Reason: err.Error()}
		}
	}

	return nil
}
