package refs

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// RuntimePrefix marks a whole-value runtime reference.
const RuntimePrefix = "refs."

// Kind identifies the variant of a reference.
type Kind int

const (
	// KindLiteral is a fixed string fragment.
	KindLiteral Kind = iota
	// KindInput references a declared blueprint input.
	KindInput
	// KindRuntime references deployment-time state (instance identity etc).
	KindRuntime
)

// String returns the human-readable reference kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRuntime:
		return "runtime"
	default:
		return "literal"
	}
}

// Ref names a single reference inside an expression.
type Ref struct {
	Kind Kind
	Name string
}

type part struct {
	kind Kind
	// literal text for KindLiteral, input name for KindInput,
	// context path for KindRuntime
	text string
}

// Expr is a parsed value expression. The zero value resolves to "".
type Expr struct {
	raw   string
	parts []part
}

// Parse converts a raw authored string into an expression.
//
// A string equal to "refs.<path>" becomes a runtime reference. Otherwise
// "${name}" segments become input references and the rest stays literal.
// An unterminated "${" is a parse error, not a literal.
func Parse(raw string) (Expr, error) {
	if path, ok := strings.CutPrefix(raw, RuntimePrefix); ok {
		if path == "" {
			return Expr{}, fmt.Errorf("runtime reference %q has an empty path", raw)
		}
		return Expr{raw: raw, parts: []part{{kind: KindRuntime, text: path}}}, nil
	}

	var parts []part
	rest := raw
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			if rest != "" {
				parts = append(parts, part{kind: KindLiteral, text: rest})
			}
			break
		}
		if start > 0 {
			parts = append(parts, part{kind: KindLiteral, text: rest[:start]})
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return Expr{}, fmt.Errorf("unterminated input reference in %q", raw)
		}
		name := rest[start+2 : start+end]
		if name == "" {
			return Expr{}, fmt.Errorf("empty input reference in %q", raw)
		}
		parts = append(parts, part{kind: KindInput, text: name})
		rest = rest[start+end+1:]
	}

	return Expr{raw: raw, parts: parts}, nil
}

// MustParse parses a raw string and panics on error. Test helper.
func MustParse(raw string) Expr {
	e, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// Raw returns the authored form of the expression.
func (e Expr) Raw() string { return e.raw }

// IsLiteral reports whether the expression contains no references.
func (e Expr) IsLiteral() bool {
	for _, p := range e.parts {
		if p.kind != KindLiteral {
			return false
		}
	}
	return true
}

// Refs returns every reference in left-to-right order.
func (e Expr) Refs() []Ref {
	var out []Ref
	for _, p := range e.parts {
		if p.kind != KindLiteral {
			out = append(out, Ref{Kind: p.kind, Name: p.text})
		}
	}
	return out
}

// String returns the authored form; secret material never lives in an Expr.
func (e Expr) String() string { return e.raw }

// MarshalJSON serializes the authored form.
func (e Expr) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(e.raw)
}

// UnmarshalJSON parses the authored form.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var raw string
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
