package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_ResolvesTreePath(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/turtle_defend.yaml")
	require.NoError(t, err)

	assert.Equal(t, "turtle_defend", s.Name)
	assert.Equal(t, filepath.Join("testdata", "trees", "turtle.cue"), s.Tree)
	assert.Equal(t, "turtle", s.TreeName)
	require.NotNil(t, s.ExpectResult)
	assert.True(t, *s.ExpectResult)
	require.Len(t, s.Assertions, 3)
	assert.Equal(t, 15, *s.Assertions[0].Ships)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "misspelt assertions"
strategy: greedy
map: "P 0 0 1 10 1"
assertion:
  - type: order_count
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing name",
			body: "description: d\nstrategy: greedy\nmap: x\nexpect_result: true\n",
			want: "name is required",
		},
		{
			name: "missing description",
			body: "name: n\nstrategy: greedy\nmap: x\nexpect_result: true\n",
			want: "description is required",
		},
		{
			name: "no tree",
			body: "name: n\ndescription: d\nmap: x\nexpect_result: true\n",
			want: "one of strategy or tree is required",
		},
		{
			name: "both trees",
			body: "name: n\ndescription: d\nstrategy: greedy\ntree: t.cue\nmap: x\nexpect_result: true\n",
			want: "mutually exclusive",
		},
		{
			name: "unknown strategy",
			body: "name: n\ndescription: d\nstrategy: turtle\nmap: x\nexpect_result: true\n",
			want: `unknown strategy "turtle"`,
		},
		{
			name: "missing tree file",
			body: "name: n\ndescription: d\ntree: nowhere.cue\nmap: x\nexpect_result: true\n",
			want: "tree file not found",
		},
		{
			name: "empty map",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: \"  \"\nexpect_result: true\n",
			want: "map is required",
		},
		{
			name: "nothing to check",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: x\n",
			want: "expect_result or assertions is required",
		},
		{
			name: "unknown assertion",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: x\nassertions:\n  - type: final_state\n",
			want: `assertions[0]: unknown assertion type "final_state"`,
		},
		{
			name: "empty order_contains",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: x\nassertions:\n  - type: order_contains\n",
			want: "order_contains needs source, destination or ships",
		},
		{
			name: "node_count without node",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: x\nassertions:\n  - type: node_count\n    count: 1\n",
			want: "node is required for node_count",
		},
		{
			name: "node_order without nodes",
			body: "name: n\ndescription: d\nstrategy: greedy\nmap: x\nassertions:\n  - type: node_order\n",
			want: "nodes list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.body)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestFindScenarios(t *testing.T) {
	all, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "balanced_shadowed.yaml"),
		filepath.Join("testdata", "scenarios", "greedy_expand.yaml"),
		filepath.Join("testdata", "scenarios", "turtle_defend.yaml"),
	}, all)

	filtered, err := FindScenarios("testdata/scenarios", "g*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "greedy_expand.yaml")}, filtered)

	_, err = FindScenarios("testdata/scenarios", "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}
