package blueprint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/pelletier/go-toml/v2"
)

// Format identifies a blueprint source encoding.
type Format string

// Supported source formats. YAML is the canonical authoring format.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseError reports a malformed blueprint source document.
type ParseError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed blueprint: %s", e.Reason)
	}
	return fmt.Sprintf("malformed blueprint field %q: %s", e.Field, e.Reason)
}

// rawDocument mirrors the source grammar with plain strings for deferred
// value expressions. Conversion into Document parses those expressions.
type rawDocument struct {
	Module  string       `json:"module" yaml:"module" toml:"module"`
	Name    string       `json:"name" yaml:"name" toml:"name"`
	Version string       `json:"version" yaml:"version" toml:"version"`
	URL     string       `json:"url" yaml:"url" toml:"url"`
	Amends  string       `json:"amends" yaml:"amends" toml:"amends"`
	Inputs  []input.Decl `json:"inputs" yaml:"inputs" toml:"inputs"`
	Build   rawBuild     `json:"build" yaml:"build" toml:"build"`
}

type rawBuild struct {
	Docker rawDocker `json:"docker" yaml:"docker" toml:"docker"`
	Env    []rawEnv  `json:"environmentVariables" yaml:"environmentVariables" toml:"environmentVariables"`
}

type rawDocker struct {
	Image string `json:"image" yaml:"image" toml:"image"`
}

type rawEnv struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// knownTopLevelFields is the closed set of accepted document keys.
var knownTopLevelFields = map[string]struct{}{
	"module": {}, "name": {}, "version": {}, "url": {},
	"amends": {}, "inputs": {}, "build": {},
}

// FormatForPath infers the source format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".bp":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported blueprint extension %q", ext)
	}
}

// Decode parses blueprint source in the given format and validates its
// lexical shape. Unknown top-level fields are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	var generic map[string]any
	var raw rawDocument

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	case FormatJSON:
		if err := sonic.Unmarshal(data, &generic); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &generic); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	default:
		return nil, fmt.Errorf("unsupported blueprint format %q", format)
	}

	for key := range generic {
		if _, ok := knownTopLevelFields[key]; !ok {
			return nil, &ParseError{Field: key, Reason: "unknown top-level field"}
		}
	}

	return raw.convert()
}

// DecodeFile parses a blueprint from file content, inferring the format.
func DecodeFile(path string, data []byte) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

func (r rawDocument) convert() (*Document, error) {
	doc := &Document{
		Module:  r.Module,
		Name:    r.Name,
		Version: r.Version,
		URL:     r.URL,
		Amends:  r.Amends,
		Inputs:  r.Inputs,
	}

	image, err := refs.Parse(r.Build.Docker.Image)
	if err != nil {
		return nil, &ParseError{Field: "build.docker.image", Reason: err.Error()}
	}
	doc.Build.Docker.Image = image

	for _, env := range r.Build.Env {
		value, err := refs.Parse(env.Value)
		if err != nil {
			return nil, &ParseError{Field: env.Key, Reason: err.Error()}
		}
		doc.Build.Env = append(doc.Build.Env, EnvDecl{Key: env.Key, Value: value})
	}

	if err := doc.validateLexical(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode serializes a document back to its canonical YAML authoring form.
func Encode(doc *Document) ([]byte, error) {
	raw := rawDocument{
		Module:  doc.Module,
		Name:    doc.Name,
		Version: doc.Version,
		URL:     doc.URL,
		Amends:  doc.Amends,
		Inputs:  doc.Inputs,
	}
	raw.Build.Docker.Image = doc.Build.Docker.Image.Raw()
	for _, env := range doc.Build.Env {
		raw.Build.Env = append(raw.Build.Env, rawEnv{Key: env.Key, Value: env.Value.Raw()})
	}
	return yaml.Marshal(raw)
}
