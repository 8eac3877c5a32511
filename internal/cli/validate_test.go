package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shadowedTrees = `package trees

tree: shadowed: root: {
	type: "selector"
	children: [
		{type: "always_succeed", child: {type: "action", fn: "attack_weakest_enemy_planet"}},
		{type: "action", fn: "spread_to_weakest_neutral_planet"},
	]
}
`

func TestValidate_Valid(t *testing.T) {
	out, _, err := runCLI(t, "", "validate", testTreesDir)

	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 2 tree(s) valid")
	assert.NotContains(t, out, "warning:")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, _, err := runCLI(t, "", "validate", testTreesDir, "--format", "json")
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Trees)
	assert.Empty(t, result.Errors)
}

func TestValidate_ReportsEveryBrokenTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.cue", brokenTrees)

	out, _, err := runCLI(t, "", "validate", dir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, `unknown function "is_raining"`)
	assert.Contains(t, out, "action requires fn")
}

func TestValidate_ErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.cue", brokenTrees)

	out, _, err := runCLI(t, "", "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeBuildFailed, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.Trees)
	require.Len(t, result.Errors, 2)
	assert.Greater(t, result.Errors[0].Line, 0)
}

func TestValidate_UnreachableWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shadowed.cue", shadowedTrees)

	out, _, err := runCLI(t, "", "validate", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "warning: tree shadowed: root.children[1]: ")
	assert.Contains(t, out, "✓ All 1 tree(s) valid")
}

func TestValidate_StrictFailsOnWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shadowed.cue", shadowedTrees)

	_, _, err := runCLI(t, "", "validate", dir, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 unreachable node(s)")

	out, _, err := runCLI(t, "", "validate", dir, "--strict", "--format", "json")
	require.Error(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "W001", resp.Error.Code)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "shadowed", result.Warnings[0].Tree)
	assert.Equal(t, "root.children[1]", result.Warnings[0].Field)
	assert.Equal(t, "root.children[0]", result.Warnings[0].ShadowedBy)
}

func TestValidate_MissingDirectory(t *testing.T) {
	out, _, err := runCLI(t, "", "validate", "/nonexistent/trees")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}
