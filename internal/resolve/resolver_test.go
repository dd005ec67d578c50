package resolve

import (
	"fmt"
	"testing"

	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLoader serves parent blueprints from memory, keyed by amends reference.
type mapLoader map[string]string

func (m mapLoader) Load(ref string) (*blueprint.Document, error) {
	src, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("parent blueprint %q not found", ref)
	}
	return blueprint.Decode([]byte(src), blueprint.FormatYAML)
}

func newResolver(t *testing.T, loader Loader) *Resolver {
	t.Helper()
	return New(schema.DefaultRegistry(), input.DefaultRegistry(), loader)
}

func decode(t *testing.T, src string) *blueprint.Document {
	t.Helper()
	doc, err := blueprint.Decode([]byte(src), blueprint.FormatYAML)
	require.NoError(t, err)
	return doc
}

const baseDatabaseYAML = `
module: io.kuken.database.Base
name: Database
version: 1.0.0
url: https://kuken.io/blueprints/database
amends: io.kuken.Schema
inputs:
  - name: db-password
    type: password
    label: Database password
  - name: server-port
    type: port
    default: "5432"
build:
  docker:
    image: postgres:16
  environmentVariables:
    - key: PGDATA
      value: /var/lib/postgresql/data
`

func TestResolveDirectChild(t *testing.T) {
	r := newResolver(t, mapLoader{})
	rb, err := r.Resolve(decode(t, baseDatabaseYAML))
	require.NoError(t, err)

	assert.Equal(t, "io.kuken.database.Base", rb.Doc.Module)
	assert.Equal(t, schema.BaseRef, rb.Schema.Name)
	assert.Equal(t, []string{"io.kuken.database.Base"}, rb.Chain)
}

func TestResolveInheritsParentInputs(t *testing.T) {
	// A child declaring no inputs inherits the parent's unchanged.
	child := decode(t, `
module: io.kuken.database.Postgres
name: PostgreSQL
amends: database/base.bp.yaml
`)
	r := newResolver(t, mapLoader{"database/base.bp.yaml": baseDatabaseYAML})

	rb, err := r.Resolve(child)
	require.NoError(t, err)

	require.Len(t, rb.Doc.Inputs, 2)
	assert.Equal(t, "db-password", rb.Doc.Inputs[0].Name)
	assert.Equal(t, "server-port", rb.Doc.Inputs[1].Name)
	// Child scalars override; missing ones fall back to the parent.
	assert.Equal(t, "PostgreSQL", rb.Doc.Name)
	assert.Equal(t, "1.0.0", rb.Doc.Version)
	assert.Equal(t, []string{"io.kuken.database.Postgres", "io.kuken.database.Base"}, rb.Chain)
}

func TestResolveChildOverridesInputWholesale(t *testing.T) {
	child := decode(t, `
module: io.kuken.database.Postgres
amends: database/base.bp.yaml
inputs:
  - name: server-port
    type: port
    label: Postgres port
    default: "6543"
`)
	r := newResolver(t, mapLoader{"database/base.bp.yaml": baseDatabaseYAML})

	rb, err := r.Resolve(child)
	require.NoError(t, err)

	require.Len(t, rb.Doc.Inputs, 2)
	// The redeclared input keeps the parent's position but is replaced
	// entirely, not field-merged: the parent's label is gone.
	override := rb.Doc.Inputs[1]
	assert.Equal(t, "server-port", override.Name)
	assert.Equal(t, "Postgres port", override.Label)
	require.NotNil(t, override.Default)
	assert.Equal(t, "6543", *override.Default)
}

func TestResolveConcatenatesEnv(t *testing.T) {
	child := decode(t, `
module: io.kuken.database.Postgres
amends: database/base.bp.yaml
build:
  environmentVariables:
    - key: POSTGRES_PASSWORD
      value: ${db-password}
`)
	r := newResolver(t, mapLoader{"database/base.bp.yaml": baseDatabaseYAML})

	rb, err := r.Resolve(child)
	require.NoError(t, err)

	require.Len(t, rb.Doc.Build.Env, 2)
	assert.Equal(t, "PGDATA", rb.Doc.Build.Env[0].Key)
	assert.Equal(t, "POSTGRES_PASSWORD", rb.Doc.Build.Env[1].Key)
	// The child declared no image, so the parent's survives the merge.
	assert.Equal(t, "postgres:16", rb.Doc.Build.Docker.Image.Raw())
}

func TestResolveCycleDetection(t *testing.T) {
	a := `
module: io.kuken.test.CycleA
amends: b.bp.yaml
`
	b := `
module: io.kuken.test.CycleB
amends: a.bp.yaml
`
	r := newResolver(t, mapLoader{"a.bp.yaml": a, "b.bp.yaml": b})

	_, err := r.Resolve(decode(t, a))
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"io.kuken.test.CycleA", "io.kuken.test.CycleB", "io.kuken.test.CycleA"}, cycle.Chain)
}

func TestResolveDepthBound(t *testing.T) {
	// Self-referencing chains are caught by the cycle check; the depth bound
	// guards pathologically long distinct chains.
	loader := mapLoader{}
	for i := 0; i < 10; i++ {
		loader[fmt.Sprintf("level-%d.bp.yaml", i)] = fmt.Sprintf(`
module: io.kuken.test.Level%d
amends: level-%d.bp.yaml
`, i, i+1)
	}
	loader["level-10.bp.yaml"] = `
module: io.kuken.test.Root
name: Root
version: 1.0.0
url: https://kuken.io
amends: io.kuken.Schema
build:
  docker:
    image: busybox:latest
`

	r := New(schema.DefaultRegistry(), input.DefaultRegistry(), loader, WithMaxDepth(3))
	_, err := r.Resolve(decode(t, loader["level-0.bp.yaml"]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum depth")

	deep := New(schema.DefaultRegistry(), input.DefaultRegistry(), loader)
	_, err = deep.Resolve(decode(t, loader["level-0.bp.yaml"]))
	assert.NoError(t, err)
}

func TestResolveIncompleteBlueprint(t *testing.T) {
	doc := decode(t, `
module: io.kuken.database.Postgres
name: PostgreSQL
version: 1.0.0
amends: io.kuken.Schema
build:
  docker:
    image: postgres:16
`)
	r := newResolver(t, mapLoader{})

	_, err := r.Resolve(doc)
	var incomplete *schema.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "url", incomplete.Field)
}

func TestResolveRejectsBadPortDefault(t *testing.T) {
	// Declaration-time validation runs on the merged inputs.
	doc := decode(t, `
module: io.kuken.database.Postgres
name: PostgreSQL
version: 1.0.0
url: https://kuken.io
amends: io.kuken.Schema
inputs:
  - name: server-port
    type: port
    default: "70000"
build:
  docker:
    image: postgres:16
`)
	r := newResolver(t, mapLoader{})

	_, err := r.Resolve(doc)
	var declErr *input.DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "server-port", declErr.Input)
}

func TestResolveUnknownParent(t *testing.T) {
	doc := decode(t, `
module: io.kuken.database.Postgres
amends: nowhere/missing.bp.yaml
`)
	r := newResolver(t, mapLoader{})
	_, err := r.Resolve(doc)
	assert.Error(t, err)
}
