package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDefaultRegistryKinds(t *testing.T) {
	r := DefaultRegistry()
	for _, kind := range []Kind{KindText, KindPassword, KindPort} {
		_, ok := r.Get(kind)
		assert.True(t, ok, "kind %s should be registered", kind)
	}
	assert.Len(t, r.Kinds(), 3)
}

func TestTextDeclaration(t *testing.T) {
	v := Text{}
	assert.NoError(t, v.ValidateDeclaration(Decl{Name: "username", Kind: KindText}))
	assert.Error(t, v.ValidateDeclaration(Decl{Name: "X", Kind: KindText}))
	assert.Error(t, v.ValidateDeclaration(Decl{Name: "username", MinLength: 5, MaxLength: 2}))
	assert.Error(t, v.ValidateDeclaration(Decl{Name: "username", Pattern: "["}))
}

func TestTextConstraints(t *testing.T) {
	v := Text{}
	d := Decl{Name: "username", Kind: KindText, MinLength: 3, MaxLength: 8, Pattern: "^[a-z]+$"}

	val, err := v.Normalize(d, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", val.String())

	_, err = v.Normalize(d, "ab")
	assert.Error(t, err)
	_, err = v.Normalize(d, strings.Repeat("a", 9))
	assert.Error(t, err)
	_, err = v.Normalize(d, "Admin")
	assert.Error(t, err)
}

func TestPortBounds(t *testing.T) {
	v := Port{}
	d := Decl{Name: "server-port", Kind: KindPort}

	val, err := v.Normalize(d, "8080")
	require.NoError(t, err)
	// A valid port is stored as an integer, not a string.
	assert.Equal(t, 8080, val.Port)
	assert.Equal(t, KindPort, val.Kind)

	for _, raw := range []string{"70000", "0", "-1", "not-a-port", "80.5"} {
		_, err := v.Normalize(d, raw)
		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr, "port %q should be rejected", raw)
		assert.Equal(t, "server-port", valueErr.Input)
	}
}

func TestPortDefaultCheckedAtDeclarationTime(t *testing.T) {
	v := Port{}
	assert.NoError(t, v.ValidateDeclaration(Decl{Name: "server-port", Kind: KindPort, Default: strPtr("25565")}))

	err := v.ValidateDeclaration(Decl{Name: "server-port", Kind: KindPort, Default: strPtr("70000")})
	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "server-port", declErr.Input)
}

func TestPasswordRedaction(t *testing.T) {
	v := Password{}
	d := Decl{Name: "db-password", Kind: KindPassword}

	val, err := v.Normalize(d, "hunter2")
	require.NoError(t, err)
	assert.True(t, val.IsSecret())
	assert.NotContains(t, val.String(), "hunter2")
	assert.Contains(t, val.String(), "redacted")

	// The true value still reaches environment assembly.
	resolved := val.Resolved()
	assert.Equal(t, "hunter2", resolved.Value)
	assert.True(t, resolved.Secret)
}

func TestSecretJSONNeverLeaks(t *testing.T) {
	s := NewSecret("hunter2")
	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
}

func TestSecretFingerprintStable(t *testing.T) {
	assert.Equal(t, NewSecret("abc").Fingerprint(), NewSecret("abc").Fingerprint())
	assert.NotEqual(t, NewSecret("abc").Fingerprint(), NewSecret("abd").Fingerprint())
}

func TestResolveValuesDefaults(t *testing.T) {
	r := DefaultRegistry()
	decls := []Decl{
		{Name: "version", Kind: KindText, Default: strPtr("16.4")},
		{Name: "server-port", Kind: KindPort, Default: strPtr("5432")},
	}

	values, err := ResolveValues(r, decls, nil)
	require.NoError(t, err)
	assert.Equal(t, "16.4", values["version"].String())
	assert.Equal(t, 5432, values["server-port"].Port)
}

func TestResolveValuesSuppliedWinsOverDefault(t *testing.T) {
	r := DefaultRegistry()
	decls := []Decl{{Name: "version", Kind: KindText, Default: strPtr("16.4")}}

	values, err := ResolveValues(r, decls, map[string]string{"version": "17.0"})
	require.NoError(t, err)
	assert.Equal(t, "17.0", values["version"].String())
}

func TestResolveValuesMissingRequired(t *testing.T) {
	r := DefaultRegistry()
	decls := []Decl{{Name: "db-password", Kind: KindPassword}}

	_, err := ResolveValues(r, decls, nil)
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "db-password", missing.Input)
}

func TestResolveValuesUndeclaredSupplied(t *testing.T) {
	r := DefaultRegistry()
	decls := []Decl{{Name: "version", Kind: KindText, Default: strPtr("1.0.0")}}

	_, err := ResolveValues(r, decls, map[string]string{"verison": "2.0.0"})
	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "verison", valueErr.Input)
}

func TestResolveValuesAllOrNothing(t *testing.T) {
	r := DefaultRegistry()
	decls := []Decl{
		{Name: "version", Kind: KindText},
		{Name: "server-port", Kind: KindPort},
	}

	_, err := ResolveValues(r, decls, map[string]string{"version": "1.0.0", "server-port": "70000"})
	assert.Error(t, err)
}
