package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/ir"
)

const greedyRendered = `Selector: Greedy expansion
| Sequence: Take the weakest neutral
| | Check: if_neutral_planet_available
| | Action: spread_to_weakest_neutral_planet
| Sequence: Spend idle garrisons
| | Check: has_idle_planet
| | Action: attack_weakest_enemy_planet
`

func TestTree_RendersStrategy(t *testing.T) {
	out, _, err := runCLI(t, "", "tree", "--strategy", "greedy", "--color", "never")

	require.NoError(t, err)
	assert.Equal(t, greedyRendered, out)
}

func TestTree_AutoColorOnBufferIsPlain(t *testing.T) {
	out, _, err := runCLI(t, "", "tree", "--strategy", "greedy")

	require.NoError(t, err)
	assert.Equal(t, greedyRendered, out)
}

func TestTree_AlwaysColor(t *testing.T) {
	out, _, err := runCLI(t, "", "tree", "--strategy", "greedy", "--color", "always")

	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Check: has_idle_planet")
	assert.Equal(t, strings.Count(greedyRendered, "\n"), strings.Count(out, "\n"))
}

func TestTree_CUETreeJSON(t *testing.T) {
	out, _, err := runCLI(t, "", "tree",
		"--tree", filepath.Join(testTreesDir, "trees.cue"),
		"--tree-name", "turtle",
		"--format", "json",
	)
	require.NoError(t, err)

	var view TreeView
	decodeResponse(t, out, &view)
	assert.Equal(t, "turtle", view.Name)
	assert.Len(t, view.Hash, 64)
	assert.Equal(t, ir.NodeSelector, view.Definition.Root.Type)
	assert.Equal(t, "Turtle", view.Definition.Root.Name)
	assert.True(t, strings.HasPrefix(view.Rendered, "Selector: Turtle\n| Sequence: Defend\n"))
}

func TestTree_StrategyJSONHashMatchesStrategies(t *testing.T) {
	out, _, err := runCLI(t, "", "tree", "--strategy", "greedy", "--format", "json")
	require.NoError(t, err)
	var view TreeView
	decodeResponse(t, out, &view)

	infos, err := listStrategies()
	require.NoError(t, err)
	for _, info := range infos {
		if info.Name == "greedy" {
			assert.Equal(t, info.Hash, view.Hash)
		}
	}
}

func TestTree_InvalidColor(t *testing.T) {
	_, _, err := runCLI(t, "", "tree", "--color", "sometimes")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid --color")
}

func TestKindStyle(t *testing.T) {
	assert.Nil(t, kindStyle(termenv.Ascii))

	style := kindStyle(termenv.ANSI)
	require.NotNil(t, style)
	for _, kind := range []bt.Kind{bt.KindSelector, bt.KindInverter, bt.KindCheck, bt.KindAction, 0} {
		styled := style(kind, "label")
		assert.Contains(t, styled, "label")
		assert.NotEqual(t, "label", styled)
	}
}
