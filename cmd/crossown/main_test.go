package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestResolveText(t *testing.T) {
	out, err := execute(t, "resolve", "--shape", "owning", "--policy", "automatic", "--pointer")
	require.NoError(t, err)
	assert.Contains(t, out, "owning under automatic (effective take_ownership)")
	assert.Contains(t, out, "owner:      caller")
	assert.Contains(t, out, "keep-alive: false")
}

func TestResolveJSON(t *testing.T) {
	out, err := execute(t, "resolve", "--shape", "raw", "--policy", "reference_internal", "--format", "json")
	require.NoError(t, err)

	var p resolvePayload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "callee", p.Owner)
	assert.True(t, p.KeepAlive)
	assert.Empty(t, p.Error)
}

func TestResolveMismatchFails(t *testing.T) {
	out, err := execute(t, "resolve", "--shape", "raw", "--policy", "move")
	require.ErrorIs(t, err, ownership.ErrPolicyShapeMismatch)
	assert.Contains(t, out, "rejected:")
}

func TestResolveWarningSucceeds(t *testing.T) {
	out, err := execute(t, "resolve", "--shape", "raw", "--policy", "take_ownership",
		"--pointer", "--shared-holder", "--tracked-elsewhere")
	require.NoError(t, err)
	assert.Contains(t, out, "owner:      callee")
	assert.Contains(t, out, "warning:")
}

func TestResolveRejectsUnknownNames(t *testing.T) {
	_, err := execute(t, "resolve", "--shape", "blob")
	require.Error(t, err)
	_, err = execute(t, "resolve", "--policy", "borrow")
	require.Error(t, err)
	_, err = execute(t, "resolve", "--format", "yaml")
	require.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := execute(t, "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+len(ownership.Policies()))
	assert.True(t, strings.HasPrefix(lines[0], "policy"))

	rows := make(map[string][]string, len(lines)-1)
	for _, l := range lines[1:] {
		fields := strings.Fields(l)
		rows[fields[0]] = fields[1:]
	}
	// Columns follow ownership.Shapes(): owning, shared, raw, value.
	assert.Equal(t, []string{"caller", "shared", "mismatch", "mismatch"}, rows["take_ownership"])
	assert.Equal(t, []string{"callee+", "shared+", "callee+", "callee+"}, rows["reference_internal"])
	assert.Equal(t, []string{"caller", "shared", "mismatch", "caller"}, rows["move"])
}

func TestTableSharedHolder(t *testing.T) {
	out, err := execute(t, "table", "--pointer", "--shared-holder")
	require.NoError(t, err)
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "automatic ") {
			assert.Equal(t, []string{"automatic", "shared", "shared", "caller", "mismatch"}, strings.Fields(l))
		}
	}
}

func TestHolders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holders.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[type]]
name = "Widget"
holder = "shared"

[[type]]
name = "Gadget"
`), 0o600))

	out, err := execute(t, "holders", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Gadget\tunique\nWidget\tshared\n2 type(s)\n", out)

	_, err = execute(t, "holders")
	require.Error(t, err)
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "demo", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Pet.name -> callee+keep_alive")
	assert.Contains(t, out, "pet finalized, 1 link(s) released")
	assert.Equal(t, 1, strings.Count(out, "name releasable: false"))
	assert.Equal(t, 1, strings.Count(out, "name releasable: true"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "crossown "+crossown.WrapperVersion()))
}

func TestColorFlag(t *testing.T) {
	_, err := execute(t, "--color", "sometimes", "version")
	require.Error(t, err)
}
