package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/store"
	"github.com/roach88/arbor/internal/testutil"
)

// turnMap is my planet 0 with 50 ships, a neutral 1 and an enemy 2.
const turnMap = `
P 0 0 1 50 5
P 3 4 0 10 1
P 6 8 2 30 5
`

// game plays turnMap for n turns.
func game(n int) string {
	return testutil.Repeat(turnMap, n)
}

// sendTree sends 10 ships from planet 0 to planet 1 while planet 0 holds
// more than 10.
func sendTree() bt.Node[state] {
	return bt.NewSequence[state]("play",
		bt.NewCheck("has ships", func(s state) bool {
			p := s.Planet(0)
			return p != nil && p.NumShips > 10
		}),
		bt.NewAction("send", func(s state) bool {
			return s.IssueOrder(0, 1, 10)
		}),
	)
}

func idleTree() bt.Node[state] {
	return bt.NewCheck("never", func(state) bool { return false })
}

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

