package compiler

import (
	"slices"
)

// Registry maps the function names used in tree definitions to the
// callables bound into Check and Action leaves.
type Registry[S any] map[string]func(S) bool

// Lookup returns the function registered under name.
func (r Registry[S]) Lookup(name string) (func(S) bool, bool) {
	fn, ok := r[name]
	return fn, ok && fn != nil
}

// Names returns the registered names in sorted order.
func (r Registry[S]) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
