package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/arbor/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestSession(id string) ir.Session {
	return ir.Session{
		ID:            id,
		Strategy:      "balanced",
		TreeHash:      "tree-hash",
		EngineVersion: ir.EngineVersion,
	}
}

// createTestTurn builds a turn whose ID is derived from its orders.
func createTestTurn(sessionID string, seq int64, orders ...ir.OrderRecord) (ir.Turn, []ir.OrderRecord) {
	id := ir.MustTurnID(sessionID, seq, orders)
	for i := range orders {
		orders[i].TurnID = id
		orders[i].Index = int64(i)
	}
	return ir.Turn{
		ID:        id,
		SessionID: sessionID,
		Number:    seq,
		Seq:       seq,
		Result:    "Success",
		Trace:     []string{"Selector: root", "Action: attack"},
		Snapshot:  `{"turn":1}`,
	}, orders
}
