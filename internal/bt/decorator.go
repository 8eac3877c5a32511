package bt

import "fmt"

// DefaultMaxIterations is the loop bound used when a definition omits one.
const DefaultMaxIterations = 10

// decorator holds the single child shared by all decorator variants.
type decorator[S any] struct {
	child Node[S]
}

// Child returns the decorated node, or nil if none has been set.
func (d *decorator[S]) Child() Node[S] { return d.child }

// SetChild replaces the decorated node.
// Must not be called while the tree is executing.
func (d *decorator[S]) SetChild(child Node[S]) { d.child = child }

func (d *decorator[S]) Name() string { return "" }

func (d *decorator[S]) Children() []Node[S] {
	if d.child == nil {
		return nil
	}
	return []Node[S]{d.child}
}

func (d *decorator[S]) replaceChildren(children []Node[S]) {
	d.child = nil
	if len(children) > 0 {
		d.child = children[0]
	}
}

func (d *decorator[S]) cloneChild() decorator[S] {
	if d.child == nil {
		return decorator[S]{}
	}
	return decorator[S]{child: d.child.Clone()}
}

// Inverter negates its child's result. The child's side effects still occur.
type Inverter[S any] struct {
	decorator[S]
}

// NewInverter creates an Inverter around child.
func NewInverter[S any](child Node[S]) *Inverter[S] {
	return &Inverter[S]{decorator: decorator[S]{child: child}}
}

func (i *Inverter[S]) Execute(state S) bool { return !i.child.Execute(state) }
func (i *Inverter[S]) Kind() Kind           { return KindInverter }
func (i *Inverter[S]) Label() string        { return KindInverter.String() }
func (i *Inverter[S]) String() string       { return i.Label() }
func (i *Inverter[S]) Clone() Node[S]       { return &Inverter[S]{decorator: i.cloneChild()} }

// AlwaysSucceed runs its child for effect and reports success regardless of
// the child's result.
//
// Because it always succeeds, an AlwaysSucceed placed inside a Selector stops
// that Selector from trying any later sibling, whether or not the child
// actually acted. Trees that use it for an "optional side action" are
// therefore sensitive to sibling order: anything placed after it in a
// Selector is unreachable.
type AlwaysSucceed[S any] struct {
	decorator[S]
}

// NewAlwaysSucceed creates an AlwaysSucceed around child.
func NewAlwaysSucceed[S any](child Node[S]) *AlwaysSucceed[S] {
	return &AlwaysSucceed[S]{decorator: decorator[S]{child: child}}
}

func (a *AlwaysSucceed[S]) Execute(state S) bool {
	a.child.Execute(state)
	return true
}

func (a *AlwaysSucceed[S]) Kind() Kind     { return KindAlwaysSucceed }
func (a *AlwaysSucceed[S]) Label() string  { return KindAlwaysSucceed.String() }
func (a *AlwaysSucceed[S]) String() string { return a.Label() }
func (a *AlwaysSucceed[S]) Clone() Node[S] { return &AlwaysSucceed[S]{decorator: a.cloneChild()} }

// LoopUntilFail re-runs its child until the child fails or the bound is
// reached, and always succeeds.
//
// The bound caps repeated successful side effects within one tick; reaching
// it is not an error. With a bound of zero the child is never run. Each run
// sees the state as left by the previous one.
type LoopUntilFail[S any] struct {
	decorator[S]
	maxIterations int
}

// NewLoopUntilFail creates a LoopUntilFail around child with the given bound.
func NewLoopUntilFail[S any](child Node[S], maxIterations int) *LoopUntilFail[S] {
	return &LoopUntilFail[S]{decorator: decorator[S]{child: child}, maxIterations: maxIterations}
}

// MaxIterations returns the loop bound.
func (l *LoopUntilFail[S]) MaxIterations() int { return l.maxIterations }

func (l *LoopUntilFail[S]) Execute(state S) bool {
	for i := 0; i < l.maxIterations; i++ {
		if !l.child.Execute(state) {
			return true
		}
	}
	return true
}

func (l *LoopUntilFail[S]) Kind() Kind { return KindLoopUntilFail }

func (l *LoopUntilFail[S]) Label() string {
	return fmt.Sprintf("%s (max %d)", KindLoopUntilFail, l.maxIterations)
}

func (l *LoopUntilFail[S]) String() string { return l.Label() }

func (l *LoopUntilFail[S]) Clone() Node[S] {
	return &LoopUntilFail[S]{decorator: l.cloneChild(), maxIterations: l.maxIterations}
}
