package compiler

import (
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// ReachabilityWarning reports a node that can never execute.
//
// Unreachable nodes are warnings, not errors, because the engine semantics
// are well defined for them: a Selector stops at the first child that
// always succeeds (AlwaysSucceed and LoopUntilFail always do), and a
// Sequence stops at the first child that always fails. A tree author
// usually wants to know.
type ReachabilityWarning struct {
	Field      string `json:"field"`       // Path of the unreachable node
	ShadowedBy string `json:"shadowed_by"` // Path of the node that stops execution first
	Message    string `json:"message"`
	Level      string `json:"level"` // "warning"
}

// AnalyzeReachability walks a definition and reports every node that no
// tick can reach. Descendants of an unreachable node are not reported
// separately. A valid, fully reachable tree returns an empty list.
func AnalyzeReachability(def ir.TreeDef) []ReachabilityWarning {
	warnings := []ReachabilityWarning{}
	analyzeNode(def.Root, "root", &warnings)
	return warnings
}

func analyzeNode(n ir.NodeDef, field string, warnings *[]ReachabilityWarning) {
	switch n.Type {
	case ir.NodeSelector, ir.NodeSequence:
		stop := -1
		for i, c := range n.Children {
			childField := fmt.Sprintf("%s.children[%d]", field, i)
			if stop >= 0 {
				shadow := fmt.Sprintf("%s.children[%d]", field, stop)
				*warnings = append(*warnings, ReachabilityWarning{
					Field:      childField,
					ShadowedBy: shadow,
					Message:    unreachableMessage(n, c, n.Children[stop]),
					Level:      "warning",
				})
				continue
			}
			analyzeNode(c, childField, warnings)
			if (n.Type == ir.NodeSelector && alwaysSucceeds(c)) || (n.Type == ir.NodeSequence && alwaysFails(c)) {
				stop = i
			}
		}

	case ir.NodeLoopUntilFail:
		if n.Child == nil {
			return
		}
		if n.MaxIterations != nil && *n.MaxIterations == 0 {
			*warnings = append(*warnings, ReachabilityWarning{
				Field:      field + ".child",
				ShadowedBy: field,
				Message:    fmt.Sprintf("%s never runs: loop bound is 0", describeNode(*n.Child)),
				Level:      "warning",
			})
			return
		}
		analyzeNode(*n.Child, field+".child", warnings)

	case ir.NodeInverter, ir.NodeAlwaysSucceed:
		if n.Child != nil {
			analyzeNode(*n.Child, field+".child", warnings)
		}
	}
}

func unreachableMessage(parent, node, shadow ir.NodeDef) string {
	outcome := "always succeeds"
	if parent.Type == ir.NodeSequence {
		outcome = "always fails"
	}
	return fmt.Sprintf("%s is unreachable: earlier sibling %s %s", describeNode(node), describeNode(shadow), outcome)
}

// alwaysSucceeds reports whether n returns Success on every tick,
// whatever its leaves return.
func alwaysSucceeds(n ir.NodeDef) bool {
	switch n.Type {
	case ir.NodeAlwaysSucceed, ir.NodeLoopUntilFail:
		return true
	case ir.NodeInverter:
		return n.Child != nil && alwaysFails(*n.Child)
	case ir.NodeSelector:
		for _, c := range n.Children {
			if alwaysSucceeds(c) {
				return true
			}
		}
		return false
	case ir.NodeSequence:
		for _, c := range n.Children {
			if !alwaysSucceeds(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// alwaysFails reports whether n returns Failure on every tick.
func alwaysFails(n ir.NodeDef) bool {
	switch n.Type {
	case ir.NodeInverter:
		return n.Child != nil && alwaysSucceeds(*n.Child)
	case ir.NodeSelector:
		for _, c := range n.Children {
			if !alwaysFails(c) {
				return false
			}
		}
		return true
	case ir.NodeSequence:
		for _, c := range n.Children {
			if alwaysFails(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func describeNode(n ir.NodeDef) string {
	switch {
	case n.Fn != "":
		return fmt.Sprintf("%s %s", n.Type, n.Fn)
	case n.Name != "":
		return fmt.Sprintf("%s %q", n.Type, n.Name)
	default:
		return n.Type
	}
}
