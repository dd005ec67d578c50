package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kuken-host/engine/internal/engine"
)

// fixtureFile holds the declared test cases for one blueprint.
type fixtureFile struct {
	Cases []fixtureCase `yaml:"cases"`
}

type fixtureCase struct {
	Name    string            `yaml:"name"`
	Values  map[string]string `yaml:"values"`
	Context map[string]string `yaml:"context"`
	Expect  fixtureExpect     `yaml:"expect"`
}

type fixtureExpect struct {
	Image string            `yaml:"image"`
	Env   map[string]string `yaml:"env"`
	Ports map[string]int    `yaml:"ports"`
	// Error names the expected failure kind; empty means the render must
	// succeed.
	Error string `yaml:"error"`
}

func runTest(args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	fixtures := fs.String("fixtures", "", "Fixture file (defaults to <name>.fixtures.yaml next to the blueprint)")
	root := fs.String("root", "", "Blueprint root for relative amends (defaults to the blueprint's directory)")
	remote := fs.Bool("remote", false, "Allow HTTP(S) amends references")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("test expects exactly one blueprint file")
	}
	path := fs.Arg(0)

	fixturePath := *fixtures
	if fixturePath == "" {
		fixturePath = fixturesPath(path)
	}
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse fixtures %s: %w", fixturePath, err)
	}
	if len(file.Cases) == 0 {
		return fmt.Errorf("no cases in %s", fixturePath)
	}

	failed := 0
	for _, tc := range file.Cases {
		if reasons := runCase(path, *root, *remote, tc); len(reasons) > 0 {
			failed++
			fmt.Printf("FAIL  %s\n", tc.Name)
			for _, reason := range reasons {
				fmt.Printf("      %s\n", reason)
			}
			continue
		}
		fmt.Printf("ok    %s\n", tc.Name)
	}

	fmt.Printf("\n%d cases, %d failed\n", len(file.Cases), failed)
	if failed > 0 {
		return fmt.Errorf("%d case(s) failed", failed)
	}
	return nil
}

func runCase(path, root string, remote bool, tc fixtureCase) []string {
	m, err := render(path, root, remote, tc.Values, tc.Context)

	if tc.Expect.Error != "" {
		if err == nil {
			return []string{fmt.Sprintf("expected error kind %q, render succeeded", tc.Expect.Error)}
		}
		if kind := engine.ErrorKind(err); kind != tc.Expect.Error {
			return []string{fmt.Sprintf("expected error kind %q, got %q: %v", tc.Expect.Error, kind, err)}
		}
		return nil
	}

	if err != nil {
		return []string{fmt.Sprintf("unexpected error (%s): %v", engine.ErrorKind(err), err)}
	}

	var reasons []string
	if tc.Expect.Image != "" && m.Image != tc.Expect.Image {
		reasons = append(reasons, fmt.Sprintf("image: want %q, got %q", tc.Expect.Image, m.Image))
	}

	env := make(map[string]string, len(m.Env))
	for _, v := range m.Env {
		env[v.Key] = v.Value
	}
	for key, want := range tc.Expect.Env {
		if got, ok := env[key]; !ok {
			reasons = append(reasons, fmt.Sprintf("env %s: missing", key))
		} else if got != want {
			reasons = append(reasons, fmt.Sprintf("env %s: want %q, got %q", key, want, got))
		}
	}

	ports := make(map[string]int, len(m.Ports))
	for _, p := range m.Ports {
		ports[p.Name] = p.Port
	}
	for name, want := range tc.Expect.Ports {
		if got, ok := ports[name]; !ok {
			reasons = append(reasons, fmt.Sprintf("port %s: missing", name))
		} else if got != want {
			reasons = append(reasons, fmt.Sprintf("port %s: want %d, got %d", name, want, got))
		}
	}

	return reasons
}

// blueprintSuffixes in trim order, longest first.
var blueprintSuffixes = []string{
	".bp.yaml", ".bp.yml", ".bp.json", ".bp.toml",
	".bp", ".yaml", ".yml", ".json", ".toml",
}

// fixturesPath derives the fixture file for a blueprint:
// postgres.bp.yaml -> postgres.fixtures.yaml.
func fixturesPath(path string) string {
	for _, suffix := range blueprintSuffixes {
		if strings.HasSuffix(path, suffix) {
			return strings.TrimSuffix(path, suffix) + ".fixtures.yaml"
		}
	}
	return path + ".fixtures.yaml"
}
