// Package queryir is the query representation behind "arbor trace --where".
//
// A query names a record source and a filter over that source's fields.
// It says nothing about SQL; the querysql package compiles it for the
// SQLite game log.
//
//	[--where flags] → ParseWhere → [Query IR] → querysql.Compile → SQL + params
//
// # Sources and fields
//
// The only source is SourceTurns: one row per recorded turn, joined with
// its session. Its fields are listed in TurnFields:
//
//	session     string  session ID
//	strategy    string  strategy or tree name
//	tree_hash   string  hash of the tree the session played
//	result      string  root outcome, "Success" or "Failure"
//	node        string  label of a node the tick executed (= only)
//	seq         int     logical clock
//	number      int     turn number reported by the game
//	orders      int     orders issued during the turn
//
// # Sealed interfaces
//
// Query and Predicate are sealed with marker methods, so a backend can
// switch over every implementation exhaustively.
//
// # Determinism
//
// Backends must return rows in a stable order: by session, then by
// sequence number.
package queryir
