package bt

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// TreeOption configures a Tree.
type TreeOption func(*treeOptions)

type treeOptions struct {
	logger   *slog.Logger
	hooks    any // Hooks[S]; checked against the tree's state type in NewTree
	logNodes bool
}

// WithLogger sets the logger used for tick-level logging.
func WithLogger(logger *slog.Logger) TreeOption {
	return func(o *treeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHooks instruments every tick with hooks.
func WithHooks[S any](hooks Hooks[S]) TreeOption {
	return func(o *treeOptions) { o.hooks = hooks }
}

// WithNodeLogging logs every node execution at debug level.
func WithNodeLogging() TreeOption {
	return func(o *treeOptions) { o.logNodes = true }
}

// Tree is a validated root node ready for repeated ticks.
//
// Tree is not safe for concurrent use: a tick mutates the external state
// through Action leaves, and topology may only change between ticks.
type Tree[S any] struct {
	name   string
	root   Node[S]
	logger *slog.Logger
	hooks  *Hooks[S]
}

// NewTree validates root and wraps it for ticking.
// Construction errors are returned wrapped; the tree is never handed out
// in an invalid state.
func NewTree[S any](name string, root Node[S], opts ...TreeOption) (*Tree[S], error) {
	o := treeOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("tree %q: %w", name, err)
	}

	t := &Tree[S]{
		name:   normalizeLabel(name),
		root:   root,
		logger: o.logger,
	}

	var hooks []Hooks[S]
	if o.hooks != nil {
		h, ok := o.hooks.(Hooks[S])
		if !ok {
			return nil, fmt.Errorf("tree %q: %w", name, &ConstructionError{
				Code:    ErrCodeHookType,
				Message: fmt.Sprintf("hooks of type %T do not match the tree's state type", o.hooks),
			})
		}
		hooks = append(hooks, h)
	}
	if o.logNodes {
		hooks = append(hooks, LogHooks[S](o.logger))
	}
	if len(hooks) > 0 {
		chained := Chain(hooks...)
		t.hooks = &chained
	}

	return t, nil
}

// Name returns the tree's name.
func (t *Tree[S]) Name() string { return t.name }

// Root returns the tree's root node.
func (t *Tree[S]) Root() Node[S] { return t.root }

// Render returns the text dump of the tree.
func (t *Tree[S]) Render() string { return Render(t.root) }

// Replace validates root and installs it for subsequent ticks.
func (t *Tree[S]) Replace(root Node[S]) error {
	if err := Validate(root); err != nil {
		return fmt.Errorf("tree %q: %w", t.name, err)
	}
	t.root = root
	return nil
}

// Clone returns an independent tree over a deep copy of the topology.
func (t *Tree[S]) Clone() *Tree[S] {
	return &Tree[S]{
		name:   t.name,
		root:   t.root.Clone(),
		logger: t.logger,
		hooks:  t.hooks,
	}
}

// Tick executes the root once against state and returns its result.
//
// Callers normally discard the result; what matters are the effects the
// Action leaves applied to state.
func (t *Tree[S]) Tick(state S) bool {
	root := t.root
	if t.hooks != nil {
		// Instrumented per tick so topology changes between ticks are seen.
		root = Instrument(root, *t.hooks)
	}

	start := time.Now()
	ok := root.Execute(state)
	t.logger.Debug("tick complete",
		"tree", t.name,
		"result", Outcome(ok),
		"elapsed", time.Since(start),
	)
	return ok
}
