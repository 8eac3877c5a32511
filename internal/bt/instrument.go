package bt

import "log/slog"

// Hooks observe node execution. Either callback may be nil.
//
// Hooks receive the original node (not the instrumentation wrapper), so
// labels and kinds are exactly what Render shows.
type Hooks[S any] struct {
	OnEnter func(n Node[S], state S)
	OnLeave func(n Node[S], state S, ok bool)
}

// Chain combines hooks. Enter callbacks run in order, leave callbacks in
// reverse order.
func Chain[S any](hooks ...Hooks[S]) Hooks[S] {
	return Hooks[S]{
		OnEnter: func(n Node[S], state S) {
			for _, h := range hooks {
				if h.OnEnter != nil {
					h.OnEnter(n, state)
				}
			}
		},
		OnLeave: func(n Node[S], state S, ok bool) {
			for i := len(hooks) - 1; i >= 0; i-- {
				if hooks[i].OnLeave != nil {
					hooks[i].OnLeave(n, state, ok)
				}
			}
		},
	}
}

// LogHooks returns hooks that log every node execution at debug level.
func LogHooks[S any](logger *slog.Logger) Hooks[S] {
	return Hooks[S]{
		OnEnter: func(n Node[S], _ S) {
			logger.Debug("executing", "node", n.Label())
		},
		OnLeave: func(n Node[S], _ S, ok bool) {
			logger.Debug("node result", "node", n.Label(), "result", Outcome(ok))
		},
	}
}

// Instrument returns a deep copy of root in which every node reports its
// execution to hooks. The copy renders identically to root.
//
// root must be acyclic.
func Instrument[S any](root Node[S], hooks Hooks[S]) Node[S] {
	if root == nil {
		return nil
	}
	return wrap(root.Clone(), hooks)
}

// wrap instruments n in place. n must be a private copy.
func wrap[S any](n Node[S], hooks Hooks[S]) Node[S] {
	if p, ok := n.(parent[S]); ok {
		children := n.Children()
		for i, child := range children {
			if child != nil {
				children[i] = wrap(child, hooks)
			}
		}
		p.replaceChildren(children)
	}
	return &observed[S]{inner: n, hooks: hooks}
}

// observed is the instrumentation wrapper. It is transparent to rendering:
// it reports the wrapped node's kind, label and children.
type observed[S any] struct {
	inner Node[S]
	hooks Hooks[S]
}

func (o *observed[S]) Execute(state S) bool {
	if o.hooks.OnEnter != nil {
		o.hooks.OnEnter(o.inner, state)
	}
	ok := o.inner.Execute(state)
	if o.hooks.OnLeave != nil {
		o.hooks.OnLeave(o.inner, state, ok)
	}
	return ok
}

func (o *observed[S]) Kind() Kind          { return o.inner.Kind() }
func (o *observed[S]) Name() string        { return o.inner.Name() }
func (o *observed[S]) Label() string       { return o.inner.Label() }
func (o *observed[S]) String() string      { return o.inner.String() }
func (o *observed[S]) Children() []Node[S] { return o.inner.Children() }

func (o *observed[S]) Clone() Node[S] {
	return &observed[S]{inner: o.inner.Clone(), hooks: o.hooks}
}
