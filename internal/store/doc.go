// Package store provides SQLite-backed durable storage for arbor game logs.
//
// The store implements an append-only log with:
//   - Sessions: one row per bot run, naming the strategy and its tree hash
//   - Turns: one row per decision cycle with the root result, the executed
//     node trace and a state snapshot
//   - Orders: the orders each turn issued, in issue order
//
// # Ordering
//
// All ordering uses the seq INTEGER logical clock, never timestamps, and
// every query ends in a deterministic tie-break:
// ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING. Turn IDs are content-addressed
// (ir.TurnID), so replaying the same game writes nothing new.
//
// # Configuration
//
// Logs run in WAL mode so trace and verify can read while play appends.
// Schema upgrades are keyed on PRAGMA user_version.
package store
