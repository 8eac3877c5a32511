package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/arbor/internal/planetwars"
)

// AssertionError is returned when an assertion fails.
// It includes the executed nodes and the orders to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Executed []string // Entered node labels, in order
	Orders   []planetwars.Order
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nExecuted nodes:\n")
	for i, label := range e.Executed {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, label)
	}
	if len(e.Orders) > 0 {
		fmt.Fprintf(&buf, "\nOrders:\n")
		for _, o := range e.Orders {
			fmt.Fprintf(&buf, "  %d -> %d (%d ships)\n", o.Source, o.Destination, o.NumShips)
		}
	}

	return buf.String()
}

func newAssertionError(result *Result, typ, expected, actual string) *AssertionError {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Executed: result.Executed(),
		Orders:   result.Orders,
	}
}

// assertOrderContains checks that some order matches every set field.
func assertOrderContains(result *Result, a Assertion) error {
	for _, o := range result.Orders {
		if matchField(a.Source, o.Source) && matchField(a.Destination, o.Destination) && matchField(a.Ships, o.NumShips) {
			return nil
		}
	}
	return newAssertionError(result, AssertOrderContains,
		fmt.Sprintf("an order matching %s", describeOrder(a)),
		fmt.Sprintf("%d orders, none matching", len(result.Orders)))
}

func matchField(want *int, got int) bool {
	return want == nil || *want == got
}

func describeOrder(a Assertion) string {
	var parts []string
	if a.Source != nil {
		parts = append(parts, fmt.Sprintf("source=%d", *a.Source))
	}
	if a.Destination != nil {
		parts = append(parts, fmt.Sprintf("destination=%d", *a.Destination))
	}
	if a.Ships != nil {
		parts = append(parts, fmt.Sprintf("ships=%d", *a.Ships))
	}
	return strings.Join(parts, " ")
}

// assertOrderCount checks the number of issued orders.
func assertOrderCount(result *Result, a Assertion) error {
	if len(result.Orders) == a.Count {
		return nil
	}
	return newAssertionError(result, AssertOrderCount,
		fmt.Sprintf("%d orders", a.Count),
		fmt.Sprintf("%d orders", len(result.Orders)))
}

// assertNodeCount checks that a node executed exactly Count times.
func assertNodeCount(result *Result, a Assertion) error {
	n := 0
	for _, label := range result.Executed() {
		if label == a.Node {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return newAssertionError(result, AssertNodeCount,
		fmt.Sprintf("%s executed %d times", a.Node, a.Count),
		fmt.Sprintf("executed %d times", n))
}

// assertNodeOrder checks that the nodes were first executed in order.
func assertNodeOrder(result *Result, a Assertion) error {
	first := make(map[string]int)
	for i, label := range result.Executed() {
		if _, seen := first[label]; !seen {
			first[label] = i
		}
	}

	prev := -1
	for _, label := range a.Nodes {
		idx, ok := first[label]
		if !ok {
			return newAssertionError(result, AssertNodeOrder,
				fmt.Sprintf("%s to execute", label),
				"never executed")
		}
		if idx <= prev {
			return newAssertionError(result, AssertNodeOrder,
				fmt.Sprintf("order %s", strings.Join(a.Nodes, " -> ")),
				fmt.Sprintf("%s executed too early", label))
		}
		prev = idx
	}
	return nil
}

// assertNodeAbsent checks that a node never executed.
func assertNodeAbsent(result *Result, a Assertion) error {
	for _, label := range result.Executed() {
		if label == a.Node {
			return newAssertionError(result, AssertNodeAbsent,
				fmt.Sprintf("%s never executed", a.Node),
				"executed")
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertOrderContains:
			err = assertOrderContains(result, a)
		case AssertOrderCount:
			err = assertOrderCount(result, a)
		case AssertNodeCount:
			err = assertNodeCount(result, a)
		case AssertNodeOrder:
			err = assertNodeOrder(result, a)
		case AssertNodeAbsent:
			err = assertNodeAbsent(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
