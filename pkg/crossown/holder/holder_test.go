package holder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFreeze(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("Widget", Shared))
	require.NoError(t, b.Add("Gadget", Unique))
	require.ErrorIs(t, b.Add("Widget", Unique), ErrDuplicateType)
	require.Error(t, b.Add("  ", Shared))
	require.Error(t, b.Add("Bad", Kind(7)))

	r := b.Freeze()
	require.ErrorIs(t, b.Add("Late", Shared), ErrFrozen)

	k, ok := r.Lookup("Widget")
	assert.True(t, ok)
	assert.Equal(t, Shared, k)
	assert.True(t, r.IsShared("Widget"))
	assert.False(t, r.IsShared("Gadget"))

	k, ok = r.Lookup("Unknown")
	assert.False(t, ok)
	assert.Equal(t, Unique, k)

	assert.Equal(t, []Entry{{"Gadget", Unique}, {"Widget", Shared}}, r.Entries())
	assert.Equal(t, 2, r.Len())
}

func TestNilRegistryLookups(t *testing.T) {
	var r *Registry
	k, ok := r.Lookup("Widget")
	assert.False(t, ok)
	assert.Equal(t, Unique, k)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Entries())
}

func TestLoad(t *testing.T) {
	r, err := Load([]byte(`
[[type]]
name = "Widget"
holder = "shared"

[[type]]
name = "Pet"
`))
	require.NoError(t, err)
	assert.True(t, r.IsShared("Widget"))
	k, ok := r.Lookup("Pet")
	assert.True(t, ok)
	assert.Equal(t, Unique, k)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad kind", "[[type]]\nname = \"A\"\nholder = \"weak\"\n"},
		{"missing name", "[[type]]\nholder = \"shared\"\n"},
		{"duplicate", "[[type]]\nname = \"A\"\n[[type]]\nname = \"A\"\n"},
		{"unknown key", "[[type]]\nname = \"A\"\nlifetime = \"static\"\n"},
		{"syntax", "[[type]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holders.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[type]]\nname = \"Widget\"\nholder = \"shared\"\n"), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, r.IsShared("Widget"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSetDefaultOnce(t *testing.T) {
	assert.Zero(t, Default().Len())

	b := NewBuilder()
	require.NoError(t, b.Add("Widget", Shared))
	require.NoError(t, SetDefault(b.Freeze()))
	assert.True(t, Default().IsShared("Widget"))

	require.ErrorIs(t, SetDefault(NewBuilder().Freeze()), ErrAlreadyInitialized)
	require.Error(t, SetDefault(nil))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Shared")
	require.NoError(t, err)
	assert.Equal(t, Shared, k)
	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Unique, k)
	_, err = ParseKind("weak")
	assert.Error(t, err)
}
