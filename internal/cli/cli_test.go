package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/report"
)

const family = `
identities:
  - id: ada
    name: Ada Lovelace
    relations:
      - motherOf: byron
  - id: byron
    name: Byron King
    relations:
      - fatherOf: byron-jr
  - id: byron-jr
timelines:
  - title: Ada
    identityRef: ada
    records:
      - at: 1843-09-01
        title: Notes published
`

// runCLI executes the root command with an isolated config and cache.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"analyze", "hops", "graph", "frames", "serve", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestAnalyzeWritesReport(t *testing.T) {
	input := writeFile(t, "family.yaml", family)
	out := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, runCLI(t, "analyze", input, "--origin", "ada", "--max-hops", "1", "-f", "json", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rep, err := report.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "ada", rep.Origin)

	var trimmed []string
	for _, e := range rep.Trimmed {
		trimmed = append(trimmed, e.Identity)
	}
	assert.Equal(t, []string{"byron-jr"}, trimmed)
}

func TestAnalyzeUsesConfigOrigin(t *testing.T) {
	input := writeFile(t, "family.yaml", family)
	cfg := writeFile(t, "config.toml", "origin = \"byron\"\nmax_hops = 0\n[cache]\nbackend = \"none\"\n")
	out := filepath.Join(t.TempDir(), "report.yaml")

	require.NoError(t, runCLI(t, "--config", cfg, "analyze", input, "-f", "yaml", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "origin: byron")
	assert.Contains(t, string(data), "max_hops: 0")
}

func TestAnalyzeErrors(t *testing.T) {
	input := writeFile(t, "family.yaml", family)

	assert.Error(t, runCLI(t, "analyze", input, "--origin", "ada", "-f", "xml"))
	assert.Error(t, runCLI(t, "analyze", input, "--origin", "nobody"))
	assert.Error(t, runCLI(t, "analyze", filepath.Join(t.TempDir(), "missing.yaml"), "--origin", "ada"))
	assert.Error(t, runCLI(t, "analyze"))
}

func TestGraphWritesDOT(t *testing.T) {
	input := writeFile(t, "family.yaml", family)
	out := filepath.Join(t.TempDir(), "family.dot")

	require.NoError(t, runCLI(t, "graph", input, "-f", "dot", "--origin", "ada", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("digraph family {")))
	assert.Contains(t, string(data), `"byron-jr"`)
}

func TestCompletion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.Contains(buf.String(), "timeweave"))
}
