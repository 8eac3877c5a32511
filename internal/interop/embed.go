package interop

import (
	behaviortree "github.com/joeycumines/go-behaviortree"

	"github.com/roach88/arbor/internal/bt"
)

// Embed wraps a go-behaviortree node as an arbor Action leaf. The leaf
// succeeds only when the node ticks to Success without error; Running and
// errors count as failure. onError, if non-nil, receives tick errors.
func Embed[S any](label string, node behaviortree.Node, onError func(error)) *bt.Action[S] {
	return bt.NewAction(label, func(S) bool {
		st, err := node.Tick()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return false
		}
		return st == behaviortree.Success
	})
}
