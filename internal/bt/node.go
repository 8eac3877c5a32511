package bt

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindCheck Kind = iota + 1
	KindAction
	KindSelector
	KindSequence
	KindInverter
	KindAlwaysSucceed
	KindLoopUntilFail
)

// String returns the variant name as it appears in rendered trees.
func (k Kind) String() string {
	switch k {
	case KindCheck:
		return "Check"
	case KindAction:
		return "Action"
	case KindSelector:
		return "Selector"
	case KindSequence:
		return "Sequence"
	case KindInverter:
		return "Inverter"
	case KindAlwaysSucceed:
		return "AlwaysSucceed"
	case KindLoopUntilFail:
		return "LoopUntilFail"
	default:
		return "Unknown"
	}
}

// IsLeaf reports whether nodes of this kind wrap a callable.
func (k Kind) IsLeaf() bool {
	return k == KindCheck || k == KindAction
}

// IsComposite reports whether nodes of this kind own an ordered child list.
func (k Kind) IsComposite() bool {
	return k == KindSelector || k == KindSequence
}

// IsDecorator reports whether nodes of this kind own exactly one child.
func (k Kind) IsDecorator() bool {
	return k == KindInverter || k == KindAlwaysSucceed || k == KindLoopUntilFail
}

// Node is the common capability of every element of a behavior tree.
//
// S is the external state type. The engine forwards it untouched.
type Node[S any] interface {
	// Execute evaluates the node once. True is Success, false is Failure.
	Execute(state S) bool

	// Kind returns the node's variant.
	Kind() Kind

	// Name returns the node's own name: the composite name, the leaf
	// label, or the empty string for decorators.
	Name() string

	// Label returns the annotated display label used by the renderer,
	// e.g. "Selector: Spread Strategy" or "Check: have_largest_fleet".
	Label() string

	// Children returns a copy of the node's children. Leaves return nil.
	Children() []Node[S]

	// Clone returns a deep copy sharing no child storage with the receiver.
	Clone() Node[S]

	String() string
}

// parent is implemented by nodes that own children.
// Instrument uses it to rebuild a copied topology in place.
type parent[S any] interface {
	Node[S]
	replaceChildren(children []Node[S])
}

// Outcome converts an execution result to its display form.
func Outcome(ok bool) string {
	if ok {
		return "Success"
	}
	return "Failure"
}

// normalizeLabel trims and NFC-normalizes a display label so that labels
// loaded from files compare equal to labels written in Go source.
func normalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// annotate joins a variant name and an optional node name.
func annotate(kind Kind, name string) string {
	if name == "" {
		return kind.String()
	}
	return kind.String() + ": " + name
}
