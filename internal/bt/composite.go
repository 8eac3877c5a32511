package bt

// composite holds the ordered child list shared by Selector and Sequence.
// The list is never nil and is owned exclusively by its node.
type composite[S any] struct {
	name     string
	children []Node[S]
}

func newComposite[S any](name string, children []Node[S]) composite[S] {
	return composite[S]{
		name:     normalizeLabel(name),
		children: append(make([]Node[S], 0, len(children)), children...),
	}
}

func (c *composite[S]) Name() string { return c.name }

// Len returns the number of children.
func (c *composite[S]) Len() int { return len(c.children) }

// Children returns a copy of the child list.
func (c *composite[S]) Children() []Node[S] {
	return append(make([]Node[S], 0, len(c.children)), c.children...)
}

// SetChildren replaces the child list. The argument is copied.
// Must not be called while the tree is executing.
func (c *composite[S]) SetChildren(children ...Node[S]) {
	c.children = append(make([]Node[S], 0, len(children)), children...)
}

// Append adds children after the existing ones.
// Must not be called while the tree is executing.
func (c *composite[S]) Append(children ...Node[S]) {
	c.children = append(c.children, children...)
}

func (c *composite[S]) replaceChildren(children []Node[S]) {
	c.SetChildren(children...)
}

func (c *composite[S]) cloneChildren() []Node[S] {
	out := make([]Node[S], len(c.children))
	for i, child := range c.children {
		if child != nil {
			out[i] = child.Clone()
		}
	}
	return out
}

// Selector tries its children in order and succeeds on the first success.
//
// Children after the first success are never invoked. With no children, or
// when every child fails, the Selector fails.
type Selector[S any] struct {
	composite[S]
}

// NewSelector creates a Selector. An empty name renders as plain "Selector".
func NewSelector[S any](name string, children ...Node[S]) *Selector[S] {
	return &Selector[S]{composite: newComposite(name, children)}
}

func (s *Selector[S]) Execute(state S) bool {
	for _, child := range s.children {
		if child.Execute(state) {
			return true
		}
	}
	return false
}

func (s *Selector[S]) Kind() Kind     { return KindSelector }
func (s *Selector[S]) Label() string  { return annotate(KindSelector, s.name) }
func (s *Selector[S]) String() string { return s.Label() }

func (s *Selector[S]) Clone() Node[S] {
	return &Selector[S]{composite: composite[S]{name: s.name, children: s.cloneChildren()}}
}

// Sequence runs its children in order and fails on the first failure.
//
// Children after the first failure are never invoked. With no children, or
// when every child succeeds, the Sequence succeeds.
type Sequence[S any] struct {
	composite[S]
}

// NewSequence creates a Sequence. An empty name renders as plain "Sequence".
func NewSequence[S any](name string, children ...Node[S]) *Sequence[S] {
	return &Sequence[S]{composite: newComposite(name, children)}
}

func (q *Sequence[S]) Execute(state S) bool {
	for _, child := range q.children {
		if !child.Execute(state) {
			return false
		}
	}
	return true
}

func (q *Sequence[S]) Kind() Kind     { return KindSequence }
func (q *Sequence[S]) Label() string  { return annotate(KindSequence, q.name) }
func (q *Sequence[S]) String() string { return q.Label() }

func (q *Sequence[S]) Clone() Node[S] {
	return &Sequence[S]{composite: composite[S]{name: q.name, children: q.cloneChildren()}}
}
