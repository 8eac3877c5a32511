// Package bt implements the arbor behavior-tree engine.
//
// A tree is a statically assembled topology of polymorphic nodes that is
// evaluated once per decision cycle against an externally supplied state.
// The engine never inspects the state; it forwards it unchanged to every
// node and leaves apply their effects to it.
//
// NODE SET:
//
// The variant set is closed and small:
//   - Leaves: Check (pure predicate) and Action (effectful operation)
//   - Composites: Selector (first success wins) and Sequence (first failure wins)
//   - Decorators: Inverter, AlwaysSucceed and LoopUntilFail
//
// Every node reports a boolean outcome. Failure is ordinary control flow,
// never an error: an Action that cannot legally act simply returns false and
// its parent decides what to try next.
//
// EXECUTION:
//
// Execution is synchronous and single-threaded. One Tick on a Tree fully
// completes, including all nested calls and all domain side effects, before
// returning. Composites short-circuit, so a child after the deciding one is
// never invoked and its side effects never occur.
//
// Execution does not defend against cycles. A topology handed to Execute,
// Clone or Instrument must be acyclic; a cyclic one recurses without bound.
// Validate and the renderer are cycle-safe and may be used to inspect a
// suspect topology.
//
// INTROSPECTION:
//
// Render produces an indented depth-first dump of any subtree. It tracks the
// identities on the current ancestor path and emits a sentinel line instead
// of descending into a node that is its own ancestor. Identity, not equality,
// is the key: two distinct nodes with the same label are different nodes.
//
// LIFECYCLE:
//
// Trees are assembled once, validated by NewTree, optionally cloned, and then
// ticked repeatedly. Topology may be replaced between ticks but never during
// one. Nodes keep no memory between ticks.
package bt
