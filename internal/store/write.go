package store

import (
	"context"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteSession(ctx context.Context, sess ir.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, strategy, tree_hash, engine_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.Strategy,
		sess.TreeHash,
		sess.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteTurn inserts a turn and its orders in a single transaction.
//
// Every order's TurnID must equal turn.ID. A turn that already exists is
// left untouched together with its orders, so replaying a game is a no-op.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteTurn(ctx context.Context, turn ir.Turn, orders []ir.OrderRecord) error {
	traceJSON, err := marshalTrace(turn.Trace)
	if err != nil {
		return fmt.Errorf("write turn: %w", err)
	}
	for _, o := range orders {
		if o.TurnID != turn.ID {
			return fmt.Errorf("write turn: order %d belongs to turn %q, not %q", o.Index, o.TurnID, turn.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write turn: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO turns (id, session_id, number, seq, result, trace, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		turn.ID,
		turn.SessionID,
		turn.Number,
		turn.Seq,
		turn.Result,
		traceJSON,
		turn.Snapshot,
	)
	if err != nil {
		return fmt.Errorf("write turn: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write turn: %w", err)
	}
	if inserted == 0 {
		return tx.Commit()
	}

	for _, o := range orders {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (turn_id, idx, source, destination, num_ships)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			o.TurnID,
			o.Index,
			o.Source,
			o.Destination,
			o.NumShips,
		)
		if err != nil {
			return fmt.Errorf("write order %d: %w", o.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write turn: commit: %w", err)
	}
	return nil
}
