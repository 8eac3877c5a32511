package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ReadSession returns the session with the given ID.
// Returns ErrNotFound (wrapped) when no such session exists.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, strategy, tree_hash, engine_version
		FROM sessions
		WHERE id = ?
	`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return sess, err
}

// ReadSessions returns all sessions. UUIDv7 IDs sort by creation time, so
// the result is oldest first.
//
// Returns an empty slice (not nil) if the store holds no sessions.
func (s *Store) ReadSessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, tree_hash, engine_version
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestSession returns the most recently created session.
// Returns ErrNotFound (wrapped) when the store is empty.
func (s *Store) LatestSession(ctx context.Context) (ir.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, strategy, tree_hash, engine_version
		FROM sessions
		ORDER BY id COLLATE BINARY DESC
		LIMIT 1
	`)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Session{}, fmt.Errorf("latest session: %w", ErrNotFound)
	}
	return sess, err
}

// ReadTurns returns all turns of a session.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the session has no turns.
func (s *Store) ReadTurns(ctx context.Context, sessionID string) ([]ir.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, number, seq, result, trace, snapshot
		FROM turns
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	turns := []ir.Turn{}
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// ReadOrders returns the orders issued during a turn, in issue order.
//
// Returns an empty slice (not nil) if the turn issued no orders.
func (s *Store) ReadOrders(ctx context.Context, turnID string) ([]ir.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT turn_id, idx, source, destination, num_ships
		FROM orders
		WHERE turn_id = ?
		ORDER BY idx ASC
	`, turnID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []ir.OrderRecord{}
	for rows.Next() {
		var o ir.OrderRecord
		if err := rows.Scan(&o.TurnID, &o.Index, &o.Source, &o.Destination, &o.NumShips); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// CountOrders returns the total number of orders recorded for a session.
func (s *Store) CountOrders(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders o
		JOIN turns t ON o.turn_id = t.id
		WHERE t.session_id = ?
	`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (ir.Session, error) {
	var sess ir.Session
	if err := row.Scan(&sess.ID, &sess.Strategy, &sess.TreeHash, &sess.EngineVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Session{}, err
		}
		return ir.Session{}, fmt.Errorf("scan session: %w", err)
	}
	return sess, nil
}

func scanTurn(row scanner) (ir.Turn, error) {
	var (
		turn      ir.Turn
		traceJSON string
	)
	if err := row.Scan(&turn.ID, &turn.SessionID, &turn.Number, &turn.Seq, &turn.Result, &traceJSON, &turn.Snapshot); err != nil {
		return ir.Turn{}, fmt.Errorf("scan turn: %w", err)
	}
	trace, err := unmarshalTrace(traceJSON)
	if err != nil {
		return ir.Turn{}, err
	}
	turn.Trace = trace
	return turn, nil
}
