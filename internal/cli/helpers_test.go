package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testTreesDir     = filepath.Join("..", "..", "testdata", "trees")
	testScenariosDir = filepath.Join("..", "..", "testdata", "scenarios")
	testMapFile      = filepath.Join("..", "..", "testdata", "maps", "opening.txt")
)

// openingMap is testdata/maps/opening.txt: greedy sends 50 ships from 0 to 1.
const openingMap = "P 0 0 1 100 5\nP 3 4 0 10 1\nP 20 0 2 40 5\ngo\n"

// runCLI executes the root command with args and stdin, returning stdout
// and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON CLIResponse and re-decodes its data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if v != nil && resp.Data != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, v))
	}
	return resp
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// playGame records one game of the greedy strategy into dbPath.
func playGame(t *testing.T, dbPath string) {
	t.Helper()

	out, _, err := runCLI(t, openingMap, "play", "--strategy", "greedy", "--db", dbPath)
	require.NoError(t, err)
	require.Equal(t, "0 1 50\ngo\n", out)
}
