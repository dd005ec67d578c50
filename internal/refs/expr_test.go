package refs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	e, err := Parse("redis:7")
	require.NoError(t, err)
	assert.True(t, e.IsLiteral())
	assert.Empty(t, e.Refs())
	assert.Equal(t, "redis:7", e.Raw())
}

func TestParseInputInterpolation(t *testing.T) {
	e, err := Parse("postgres:${version}-alpine")
	require.NoError(t, err)
	assert.False(t, e.IsLiteral())
	assert.Equal(t, []Ref{{Kind: KindInput, Name: "version"}}, e.Refs())
}

func TestParseMultipleInputs(t *testing.T) {
	e, err := Parse("${registry}/${image-name}")
	require.NoError(t, err)
	assert.Equal(t, []Ref{
		{Kind: KindInput, Name: "registry"},
		{Kind: KindInput, Name: "image-name"},
	}, e.Refs())
}

func TestParseRuntimeReference(t *testing.T) {
	e, err := Parse("refs.instance.name")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{Kind: KindRuntime, Name: "instance.name"}}, e.Refs())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unterminated", "image:${version"},
		{"empty input ref", "image:${}"},
		{"empty runtime path", "refs."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestResolveLiteral(t *testing.T) {
	r, err := MustParse("plain").Resolve(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", r.Value)
	assert.False(t, r.Secret)
}

func TestResolveInput(t *testing.T) {
	inputs := InputMap{"version": {Value: "16.4"}}
	r, err := MustParse("postgres:${version}").Resolve(inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres:16.4", r.Value)
}

func TestResolveSecretPropagates(t *testing.T) {
	inputs := InputMap{"db-password": {Value: "hunter2", Secret: true}}
	r, err := MustParse("${db-password}").Resolve(inputs, nil)
	require.NoError(t, err)
	assert.True(t, r.Secret)
	assert.Equal(t, "hunter2", r.Value)
}

func TestResolveRuntime(t *testing.T) {
	ctx := Context{"instance.name": "db-1"}
	r, err := MustParse("refs.instance.name").Resolve(nil, ctx)
	require.NoError(t, err)
	assert.Equal(t, "db-1", r.Value)
}

func TestResolveUnresolvedInput(t *testing.T) {
	_, err := MustParse("${missing}").Resolve(InputMap{}, nil)
	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, KindInput, unresolved.Kind)
	assert.Equal(t, "missing", unresolved.Name)
}

func TestResolveUnresolvedRuntime(t *testing.T) {
	_, err := MustParse("refs.instance.id").Resolve(nil, Context{})
	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, KindRuntime, unresolved.Kind)
	assert.Equal(t, "instance.id", unresolved.Name)
}

func TestResolveReportsFirstUnresolved(t *testing.T) {
	// Both references are unresolved; the leftmost one must be reported.
	e := MustParse("${first}-then-${second}")
	_, err := e.Resolve(InputMap{}, nil)
	var unresolved *UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "first", unresolved.Name)
}

func TestExprJSONRoundTrip(t *testing.T) {
	e := MustParse("img:${version}")
	data, err := e.MarshalJSON()
	require.NoError(t, err)

	var back Expr
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, e.Refs(), back.Refs())
	assert.Equal(t, e.Raw(), back.Raw())
}
