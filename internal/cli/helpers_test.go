package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/config"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// scenario is the root "<>" with transitions a and b to two leaves.
const scenario = `{
  "states": [
    {"id": "s0", "name": "<>", "outgoing": ["t0", "t1"]},
    {"id": "s1", "name": "a", "outgoing": []},
    {"id": "s2", "name": "b", "outgoing": []}
  ],
  "transitions": [
    {"id": "t0", "name": "a", "from_state": "s0", "to_state": "s1"},
    {"id": "t1", "name": "b", "from_state": "s0", "to_state": "s2"}
  ]
}`

// redirectOutput sends status lines to w for the rest of the test.
func redirectOutput(t *testing.T, w io.Writer) {
	t.Helper()
	old := out
	out = w
	t.Cleanup(func() { out = old })
}

// isolate points config and cache lookups at temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvBackendURL, "")
	t.Cleanup(observability.Reset)
}

// writeScenario writes the scenario automaton to a temp file.
func writeScenario(t *testing.T) string {
	t.Helper()
	a, err := automaton.Read(bytes.NewReader([]byte(scenario)))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "log-42.json")
	if err := automaton.WriteFile(a, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}
