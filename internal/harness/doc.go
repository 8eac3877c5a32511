// Package harness runs conformance scenarios against behavior trees.
//
// A scenario names a tree (a built-in strategy or a CUE file), gives one
// turn of map text, and asserts on what a single tick did: the nodes it
// executed and the orders it issued.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: greedy_expand
//	description: "greedy takes the weakest neutral first"
//	strategy: greedy            # or tree: ../trees/turtle.cue
//	tree_name: turtle           # only with tree:, when the file has several
//	map: |
//	  P 0 0 1 100 5
//	  P 3 4 0 10 1
//	expect_result: true
//	assertions:
//	  - type: order_contains
//	    source: 0
//	    destination: 1
//	  - type: node_absent
//	    node: "Check: has_idle_planet"
//
// # Assertion Types
//
//   - order_contains: an issued order matches every given field
//   - order_count: exactly count orders were issued
//   - node_count: the node labelled node executed exactly count times
//   - node_order: the nodes were first executed in the given order
//   - node_absent: the node never executed
//
// # Deterministic Testing
//
// Each scenario runs the real engine against a private in-memory store
// with a fixed session ID, so traces are reproducible and suitable for
// golden comparison (see RunWithGolden).
package harness
