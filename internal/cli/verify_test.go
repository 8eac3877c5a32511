package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/store"
)

func TestVerify_Consistent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "games.db")
	playGame(t, dbPath)

	out, _, err := runCLI(t, "", "verify", "--db", dbPath, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Verify Summary: 1 session(s)")
	assert.Contains(t, out, "strategy tree unchanged")
	assert.Contains(t, out, "✓ All sessions consistent")

	out, _, err = runCLI(t, "", "verify", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var result VerifyResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.AllConsistent)
	require.Len(t, result.Sessions, 1)
	check := result.Sessions[0]
	assert.True(t, check.Consistent)
	assert.Equal(t, 1, check.Turns)
	require.NotNil(t, check.TreeChanged)
	assert.False(t, *check.TreeChanged)
}

func TestVerify_CUETreeHasNoTreeCheck(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "games.db")
	_, _, err := runCLI(t, "P 0 0 1 30 5\nP 2 0 1 5 1\nP 10 0 2 80 5\ngo\n",
		"play", "--tree", filepath.Join(testTreesDir, "trees.cue"), "--tree-name", "turtle", "--db", dbPath)
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "verify", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var result VerifyResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Sessions, 1)
	assert.True(t, result.Sessions[0].Consistent)
	assert.Nil(t, result.Sessions[0].TreeChanged)
}

func TestVerify_TamperedOrders(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "games.db")
	playGame(t, dbPath)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec("UPDATE orders SET num_ships = 49")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := runCLI(t, "", "verify", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "ID does not match its orders")
	assert.Contains(t, out, "✗ Game log verification failed")

	out, _, err = runCLI(t, "", "verify", "--db", dbPath, "--format", "json")
	require.Error(t, err)

	var result VerifyResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "E_INTEGRITY", resp.Error.Code)
	assert.False(t, result.AllConsistent)
	require.Len(t, result.Sessions, 1)
	assert.Len(t, result.Sessions[0].BadIDs, 1)
	assert.Empty(t, result.Sessions[0].Gaps)
}

func TestVerify_SequenceGap(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "games.db")
	_, _, err := runCLI(t, openingMap+openingMap, "play", "--strategy", "greedy", "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec("UPDATE turns SET seq = seq + 5 WHERE seq = (SELECT MAX(seq) FROM turns)")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := runCLI(t, "", "verify", "--db", dbPath, "--format", "json")
	require.Error(t, err)

	var result VerifyResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Sessions, 1)
	check := result.Sessions[0]
	assert.Equal(t, 2, check.Turns)
	assert.Len(t, check.Gaps, 1)
	assert.Equal(t, check.Gaps, check.BadIDs)
}

func TestVerify_MissingDatabase(t *testing.T) {
	_, _, err := runCLI(t, "", "verify", "--db", filepath.Join(t.TempDir(), "none.db"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}
