package compose

import (
	"testing"

	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/kuken-host/engine/internal/resolve"
	"github.com/kuken-host/engine/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(t *testing.T, src string) *resolve.ResolvedBlueprint {
	t.Helper()
	doc, err := blueprint.Decode([]byte(src), blueprint.FormatYAML)
	require.NoError(t, err)
	r := resolve.New(schema.DefaultRegistry(), input.DefaultRegistry(), nil)
	rb, err := r.Resolve(doc)
	require.NoError(t, err)
	return rb
}

const postgresYAML = `
module: io.kuken.database.Postgres
name: PostgreSQL
version: 1.0.0
url: https://www.postgresql.org
amends: io.kuken.Schema
inputs:
  - name: version
    type: text
    default: "16.4"
  - name: db-password
    type: password
  - name: server-port
    type: port
    default: "5432"
build:
  docker:
    image: postgres:${version}
  environmentVariables:
    - key: POSTGRES_PASSWORD
      value: ${db-password}
    - key: PGPORT
      value: ${server-port}
    - key: INSTANCE_NAME
      value: refs.instance.name
`

func TestComposePostgres(t *testing.T) {
	c := New(input.DefaultRegistry())
	rb := resolved(t, postgresYAML)

	cb, err := c.Compose(rb,
		map[string]string{"db-password": "hunter2"},
		refs.Context{"instance.name": "db-1"})
	require.NoError(t, err)

	assert.Equal(t, "postgres:16.4", cb.Image)
	require.Len(t, cb.Env, 3)
	assert.Equal(t, EnvVar{Key: "POSTGRES_PASSWORD", Value: "hunter2", Secret: true}, cb.Env[0])
	assert.Equal(t, EnvVar{Key: "PGPORT", Value: "5432"}, cb.Env[1])
	assert.Equal(t, EnvVar{Key: "INSTANCE_NAME", Value: "db-1"}, cb.Env[2])
	assert.Equal(t, []PortBinding{{Name: "server-port", Port: 5432}}, cb.Ports)
}

func TestComposeDedupOrderLaw(t *testing.T) {
	// [(A,1), (B,2), (A,3)] composes to [(A,3), (B,2)].
	rb := resolved(t, `
module: io.kuken.test.Dedup
name: Dedup
version: 1.0.0
url: https://kuken.io
amends: io.kuken.Schema
build:
  docker:
    image: busybox:latest
  environmentVariables:
    - key: A
      value: "1"
    - key: B
      value: "2"
    - key: A
      value: "3"
`)
	c := New(input.DefaultRegistry())

	cb, err := c.Compose(rb, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []EnvVar{{Key: "A", Value: "3"}, {Key: "B", Value: "2"}}, cb.Env)
}

func TestComposeMissingRequiredInput(t *testing.T) {
	c := New(input.DefaultRegistry())
	rb := resolved(t, postgresYAML)

	_, err := c.Compose(rb, nil, refs.Context{"instance.name": "db-1"})
	var missing *input.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "db-password", missing.Input)
}

func TestComposeInvalidInputValue(t *testing.T) {
	c := New(input.DefaultRegistry())
	rb := resolved(t, postgresYAML)

	_, err := c.Compose(rb,
		map[string]string{"db-password": "hunter2", "server-port": "70000"},
		refs.Context{"instance.name": "db-1"})
	var valueErr *input.ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "server-port", valueErr.Input)
}

func TestComposeUnresolvedRuntimeReference(t *testing.T) {
	c := New(input.DefaultRegistry())
	rb := resolved(t, postgresYAML)

	_, err := c.Compose(rb, map[string]string{"db-password": "hunter2"}, nil)
	var unresolved *refs.UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, refs.KindRuntime, unresolved.Kind)
	assert.Equal(t, "instance.name", unresolved.Name)
}

func TestComposeReportsFirstUnresolvedInDeclarationOrder(t *testing.T) {
	rb := resolved(t, `
module: io.kuken.test.Order
name: Order
version: 1.0.0
url: https://kuken.io
amends: io.kuken.Schema
build:
  docker:
    image: busybox:latest
  environmentVariables:
    - key: FIRST
      value: refs.instance.name
    - key: SECOND
      value: refs.instance.id
`)
	c := New(input.DefaultRegistry())

	_, err := c.Compose(rb, nil, nil)
	var unresolved *refs.UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "instance.name", unresolved.Name)
}

func TestComposeImageInterpolation(t *testing.T) {
	rb := resolved(t, `
module: io.kuken.test.Image
name: Image
version: 1.0.0
url: https://kuken.io
amends: io.kuken.Schema
inputs:
  - name: tag
    type: text
    default: stable
build:
  docker:
    image: ghcr.io/kuken/app:${tag}
`)
	c := New(input.DefaultRegistry())

	cb, err := c.Compose(rb, map[string]string{"tag": "v2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ghcr.io/kuken/app:v2", cb.Image)
}
