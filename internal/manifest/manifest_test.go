package manifest

import (
	"testing"

	"github.com/kuken-host/engine/internal/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composedBuild() *compose.ComposedBuild {
	return &compose.ComposedBuild{
		Module: "io.kuken.database.Postgres",
		Image:  "postgres:16.4",
		Env: []compose.EnvVar{
			{Key: "POSTGRES_PASSWORD", Value: "hunter2", Secret: true},
			{Key: "PGPORT", Value: "5432"},
		},
		Ports: []compose.PortBinding{{Name: "server-port", Port: 5432}},
	}
}

func TestRender(t *testing.T) {
	m, err := Render(composedBuild())
	require.NoError(t, err)
	assert.Equal(t, "postgres:16.4", m.Image)
	assert.Len(t, m.Env, 2)
	assert.Len(t, m.Ports, 1)
}

func TestRenderRejectsEmptyImage(t *testing.T) {
	cb := composedBuild()
	cb.Image = ""

	_, err := Render(cb)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "image", renderErr.Field)
}

func TestRenderRejectsMalformedKey(t *testing.T) {
	cb := composedBuild()
	cb.Env = append(cb.Env, compose.EnvVar{Key: "bad-key", Value: "x"})

	_, err := Render(cb)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "bad-key", renderErr.Field)
}

func TestRenderCopiesInput(t *testing.T) {
	cb := composedBuild()
	m, err := Render(cb)
	require.NoError(t, err)

	// Mutating the composed build must not reach the frozen manifest.
	cb.Env[1].Value = "mutated"
	assert.Equal(t, "5432", m.Env[1].Value)
}

func TestRenderDeterministic(t *testing.T) {
	m1, err := Render(composedBuild())
	require.NoError(t, err)
	m2, err := Render(composedBuild())
	require.NoError(t, err)

	b1, err := m1.Encode()
	require.NoError(t, err)
	b2, err := m2.Encode()
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "repeated renders must be byte-identical")
}

func TestRedacted(t *testing.T) {
	m, err := Render(composedBuild())
	require.NoError(t, err)

	red := m.Redacted()
	assert.Equal(t, RedactionMarker, red.Env[0].Value)
	assert.Equal(t, "5432", red.Env[1].Value)
	// The original keeps the true value for the deployment collaborator.
	assert.Equal(t, "hunter2", m.Env[0].Value)

	data, err := red.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
}
