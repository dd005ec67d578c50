package input

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/kuken-host/engine/internal/shared/validate"
)

// Port bounds per the container networking model.
const (
	MinPort = 1
	MaxPort = 65535
)

// Text accepts any string, with optional length and pattern constraints.
type Text struct{}

// Kind implements Validator.
func (Text) Kind() Kind { return KindText }

// ValidateDeclaration implements Validator.
func (Text) ValidateDeclaration(d Decl) error {
	if err := validateCommon(d); err != nil {
		return err
	}
	if d.MinLength < 0 || (d.MaxLength > 0 && d.MaxLength < d.MinLength) {
		return &DeclarationError{Input: d.Name, Reason: "length constraints are inconsistent"}
	}
	if d.Pattern != "" {
		if _, err := regexp.Compile(d.Pattern); err != nil {
			return &DeclarationError{Input: d.Name, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
	}
	return nil
}

// Normalize implements Validator.
func (Text) Normalize(d Decl, raw string) (Value, error) {
	length := utf8.RuneCountInString(raw)
	if length < d.MinLength {
		return Value{}, &ValueError{Input: d.Name, Reason: fmt.Sprintf("must be at least %d characters", d.MinLength)}
	}
	if d.MaxLength > 0 && length > d.MaxLength {
		return Value{}, &ValueError{Input: d.Name, Reason: fmt.Sprintf("must not exceed %d characters", d.MaxLength)}
	}
	if d.Pattern != "" {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return Value{}, &DeclarationError{Input: d.Name, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
		if !re.MatchString(raw) {
			return Value{}, &ValueError{Input: d.Name, Reason: fmt.Sprintf("does not match pattern %q", d.Pattern)}
		}
	}
	return TextValue(KindText, raw), nil
}

// Password accepts any string and wraps it so it is never echoed or logged.
type Password struct{}

// Kind implements Validator.
func (Password) Kind() Kind { return KindPassword }

// ValidateDeclaration implements Validator.
func (Password) ValidateDeclaration(d Decl) error {
	return validateCommon(d)
}

// Normalize implements Validator.
func (Password) Normalize(d Decl, raw string) (Value, error) {
	if raw == "" {
		return Value{}, &ValueError{Input: d.Name, Reason: "password must not be empty"}
	}
	return SecretValue(NewSecret(raw)), nil
}

// Port accepts an integer in [MinPort, MaxPort]. Defaults are range-checked
// at declaration time, independent of value-time validation.
type Port struct{}

// Kind implements Validator.
func (Port) Kind() Kind { return KindPort }

// ValidateDeclaration implements Validator.
func (Port) ValidateDeclaration(d Decl) error {
	if err := validateCommon(d); err != nil {
		return err
	}
	if d.Default != nil {
		if _, err := parsePort(*d.Default); err != nil {
			return &DeclarationError{Input: d.Name, Reason: fmt.Sprintf("default %q: %v", *d.Default, err)}
		}
	}
	return nil
}

// Normalize implements Validator.
func (Port) Normalize(d Decl, raw string) (Value, error) {
	port, err := parsePort(raw)
	if err != nil {
		return Value{}, &ValueError{Input: d.Name, Reason: err.Error()}
	}
	return PortValue(port), nil
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if port < MinPort || port > MaxPort {
		return 0, fmt.Errorf("must be in range [%d, %d]", MinPort, MaxPort)
	}
	return port, nil
}

func validateCommon(d Decl) error {
	if err := validate.InputName(d.Name); err != nil {
		return &DeclarationError{Input: d.Name, Reason: err.Error()}
	}
	return nil
}
