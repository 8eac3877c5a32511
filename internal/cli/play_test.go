package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_WritesOrdersAndGo(t *testing.T) {
	out, logs, err := runCLI(t, openingMap, "play", "--strategy", "greedy")

	require.NoError(t, err)
	assert.Equal(t, "0 1 50\ngo\n", out, "stdout carries only the protocol")
	assert.Contains(t, logs, `msg="tree loaded" tree=greedy`)
	assert.Contains(t, logs, "Selector: Greedy expansion")
}

func TestPlay_DefaultStrategy(t *testing.T) {
	_, logs, err := runCLI(t, "", "play")

	require.NoError(t, err, "empty input is a game with no turns")
	assert.Contains(t, logs, "tree=balanced")
}

func TestPlay_CUETree(t *testing.T) {
	// Enemy fleet 80 outweighs ours, so the turtle reinforces planet 1.
	input := "P 0 0 1 30 5\nP 2 0 1 5 1\nP 10 0 2 80 5\ngo\n"

	out, _, err := runCLI(t, input, "play", "--tree", filepath.Join(testTreesDir, "trees.cue"), "--tree-name", "turtle")

	require.NoError(t, err)
	assert.Equal(t, "0 1 15\ngo\n", out)
}

func TestPlay_RecordsAndWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "games.db")
	metricsPath := filepath.Join(dir, "arbor.prom")
	logPath := filepath.Join(dir, "arbor.log")

	out, logs, err := runCLI(t, openingMap+openingMap, "play",
		"--strategy", "greedy",
		"--db", dbPath,
		"--metrics-file", metricsPath,
		"--log-file", logPath,
	)
	require.NoError(t, err)
	assert.Equal(t, "0 1 50\ngo\n0 1 50\ngo\n", out)
	assert.Empty(t, logs, "logs go to the log file")

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "game over")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "arbor_turns_total 2")
	assert.Contains(t, string(metrics), "arbor_orders_issued_total 2")

	var summaries []SessionSummary
	traceOut, _, err := runCLI(t, "", "trace", "--db", dbPath, "--format", "json")
	require.NoError(t, err)
	decodeResponse(t, traceOut, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, "greedy", summaries[0].Strategy)
	assert.Equal(t, 2, summaries[0].Turns)
	assert.Equal(t, int64(2), summaries[0].Orders)
}

func TestPlay_VerboseLogsNodes(t *testing.T) {
	_, logs, err := runCLI(t, openingMap, "play", "--strategy", "greedy", "--log-nodes", "-v")

	require.NoError(t, err)
	assert.Contains(t, logs, "level=DEBUG")
	assert.Contains(t, logs, `node="Action: spread_to_weakest_neutral_planet"`)
}

func TestPlay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		args   []string
		code   int
		errMsg string
	}{
		{
			name:   "unknown strategy",
			args:   []string{"play", "--strategy", "nope"},
			code:   ExitCommandError,
			errMsg: "failed to load tree",
		},
		{
			name:   "strategy and tree",
			args:   []string{"play", "--strategy", "greedy", "--tree", "x.cue"},
			code:   ExitCommandError,
			errMsg: "mutually exclusive",
		},
		{
			name:   "bad log level",
			args:   []string{"play", "--log-level", "loud"},
			code:   ExitCommandError,
			errMsg: "failed to configure logging",
		},
		{
			name:   "malformed turn",
			stdin:  "X 1 2\ngo\n",
			args:   []string{"play", "--strategy", "greedy"},
			code:   ExitFailure,
			errMsg: "game aborted: PARSE",
		},
		{
			name:   "missing tree file",
			args:   []string{"play", "--tree", "/nonexistent/trees.cue"},
			code:   ExitCommandError,
			errMsg: "read tree file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
