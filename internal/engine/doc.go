// Package engine drives a behavior tree against the Planet Wars protocol.
//
// One Engine plays one game. Each decision cycle:
//
//  1. Read the next turn from the host and parse it into a State
//  2. Tick the tree once; Action leaves issue orders into the State
//  3. Write the orders followed by "go"
//  4. Record the turn (result, executed node trace, orders, snapshot)
//  5. Update metrics
//
// The loop is single-threaded: the tree, the State and the store are
// touched by one goroutine only, so a game log replays in the same order.
//
// Turns are stamped with a logical seq from Clock, never wall time.
// Turn IDs are content-addressed (ir.TurnID) so re-recording a game is
// idempotent.
package engine
