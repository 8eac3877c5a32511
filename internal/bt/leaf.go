package bt

// Check wraps a predicate over the state.
//
// The predicate must not mutate the state or issue commands. Its result is
// returned unchanged; there is no separate error channel, so a predicate
// that cannot decide reports false.
type Check[S any] struct {
	label string
	fn    func(S) bool
}

// NewCheck creates a Check leaf. The label is retained for display.
func NewCheck[S any](label string, fn func(S) bool) *Check[S] {
	return &Check[S]{label: normalizeLabel(label), fn: fn}
}

func (c *Check[S]) Execute(state S) bool { return c.fn(state) }
func (c *Check[S]) Kind() Kind           { return KindCheck }
func (c *Check[S]) Name() string         { return c.label }
func (c *Check[S]) Label() string        { return annotate(KindCheck, c.label) }
func (c *Check[S]) String() string       { return c.Label() }
func (c *Check[S]) Children() []Node[S]  { return nil }

func (c *Check[S]) Clone() Node[S] {
	return &Check[S]{label: c.label, fn: c.fn}
}

// Action wraps an effectful operation over the state.
//
// The operation attempts to issue a domain command and reports whether it
// legally did so. When it reports false it must not have issued anything.
type Action[S any] struct {
	label string
	fn    func(S) bool
}

// NewAction creates an Action leaf. The label is retained for display.
func NewAction[S any](label string, fn func(S) bool) *Action[S] {
	return &Action[S]{label: normalizeLabel(label), fn: fn}
}

func (a *Action[S]) Execute(state S) bool { return a.fn(state) }
func (a *Action[S]) Kind() Kind           { return KindAction }
func (a *Action[S]) Name() string         { return a.label }
func (a *Action[S]) Label() string        { return annotate(KindAction, a.label) }
func (a *Action[S]) String() string       { return a.Label() }
func (a *Action[S]) Children() []Node[S]  { return nil }

func (a *Action[S]) Clone() Node[S] {
	return &Action[S]{label: a.label, fn: a.fn}
}
