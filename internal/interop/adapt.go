package interop

import (
	"errors"
	"fmt"

	behaviortree "github.com/joeycumines/go-behaviortree"

	"github.com/roach88/arbor/internal/bt"
)

// Adapt mirrors root as a go-behaviortree node. Every tick reads the state
// from state, so the host controls which value the leaves act on.
//
// Children are resolved lazily on each tick, so later topology changes to
// root are visible and no recursion happens at adaptation time.
func Adapt[S any](root bt.Node[S], state func() S) behaviortree.Node {
	return AdaptObserved(root, state, nil)
}

// AdaptObserved is Adapt with a callback invoked as each node starts its
// tick, in the same order a native Tree reports OnEnter.
func AdaptObserved[S any](root bt.Node[S], state func() S, onTick func(bt.Node[S])) behaviortree.Node {
	return func() (behaviortree.Tick, []behaviortree.Node) {
		tick := tickFor(root, state)
		if onTick != nil && root != nil {
			inner := tick
			tick = func(children []behaviortree.Node) (behaviortree.Status, error) {
				onTick(root)
				return inner(children)
			}
		}
		return tick, childrenOf(root, state, onTick)
	}
}

var errNilNode = errors.New("nil node")

func childrenOf[S any](n bt.Node[S], state func() S, onTick func(bt.Node[S])) []behaviortree.Node {
	if n == nil {
		return nil
	}
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	out := make([]behaviortree.Node, len(children))
	for i, c := range children {
		if c == nil {
			// Keep the slot so the parent sees the hole as an error tick.
			out[i] = behaviortree.New(tickFor[S](nil, state))
			continue
		}
		out[i] = AdaptObserved(c, state, onTick)
	}
	return out
}

func tickFor[S any](n bt.Node[S], state func() S) behaviortree.Tick {
	if n == nil {
		return func([]behaviortree.Node) (behaviortree.Status, error) {
			return behaviortree.Failure, errNilNode
		}
	}

	switch n.Kind() {
	case bt.KindCheck, bt.KindAction:
		return func([]behaviortree.Node) (behaviortree.Status, error) {
			return status(n.Execute(state())), nil
		}
	case bt.KindSelector:
		return behaviortree.Selector
	case bt.KindSequence:
		return behaviortree.Sequence
	case bt.KindInverter:
		return decorator(n, func(child behaviortree.Node) (behaviortree.Status, error) {
			return behaviortree.Not(onlyChild)([]behaviortree.Node{child})
		})
	case bt.KindAlwaysSucceed:
		return decorator(n, func(child behaviortree.Node) (behaviortree.Status, error) {
			if _, err := child.Tick(); err != nil {
				return behaviortree.Failure, err
			}
			return behaviortree.Success, nil
		})
	case bt.KindLoopUntilFail:
		limit := bt.DefaultMaxIterations
		if l, ok := n.(interface{ MaxIterations() int }); ok {
			limit = l.MaxIterations()
		}
		return decorator(n, func(child behaviortree.Node) (behaviortree.Status, error) {
			for i := 0; i < limit; i++ {
				st, err := child.Tick()
				if err != nil {
					return behaviortree.Failure, err
				}
				if st != behaviortree.Success {
					break
				}
			}
			return behaviortree.Success, nil
		})
	default:
		return func([]behaviortree.Node) (behaviortree.Status, error) {
			return behaviortree.Failure, fmt.Errorf("unsupported node kind %s", n.Kind())
		}
	}
}

// decorator checks that exactly one child was adapted before running body.
func decorator[S any](n bt.Node[S], body func(behaviortree.Node) (behaviortree.Status, error)) behaviortree.Tick {
	return func(children []behaviortree.Node) (behaviortree.Status, error) {
		if len(children) != 1 {
			return behaviortree.Failure, fmt.Errorf("%s has no child", n.Label())
		}
		return body(children[0])
	}
}

func onlyChild(children []behaviortree.Node) (behaviortree.Status, error) {
	return children[0].Tick()
}

func status(ok bool) behaviortree.Status {
	if ok {
		return behaviortree.Success
	}
	return behaviortree.Failure
}
