package bt

// ancestry is an immutable path of node identities from the root down to the
// node currently being visited. Each recursive call extends it with a new
// head; no call ever mutates a path it was handed.
type ancestry struct {
	node   any
	label  string
	depth  int
	parent *ancestry
}

func (a *ancestry) with(node any, label string) *ancestry {
	return &ancestry{node: node, label: label, depth: a.len() + 1, parent: a}
}

// len is the number of ancestors, which is also the depth of the node being
// visited under this path.
func (a *ancestry) len() int {
	if a == nil {
		return 0
	}
	return a.depth
}

// contains reports whether node is on the path. Nodes are pointers, so the
// comparison is by identity.
func (a *ancestry) contains(node any) bool {
	for p := a; p != nil; p = p.parent {
		if p.node == node {
			return true
		}
	}
	return false
}

// labels returns the path's labels ordered from the root.
func (a *ancestry) labels() []string {
	if a == nil {
		return nil
	}
	out := make([]string, a.len())
	for p := a; p != nil; p = p.parent {
		out[p.depth-1] = p.label
	}
	return out
}

// visitFunc is called for every position in a walk. n is nil for a missing
// composite child. cycle is true when n is already on path; its children are
// not visited. Returning false skips n's children.
type visitFunc[S any] func(n Node[S], path *ancestry, cycle bool) bool

func walk[S any](n Node[S], path *ancestry, visit visitFunc[S]) {
	if n == nil {
		visit(nil, path, false)
		return
	}
	if path.contains(n) {
		visit(n, path, true)
		return
	}
	if !visit(n, path, false) {
		return
	}
	next := path.with(n, n.Label())
	for _, child := range n.Children() {
		walk(child, next, visit)
	}
}

// Walk visits root and its descendants depth-first in child order.
//
// fn receives each node with its depth (root is 0). A node that is its own
// ancestor is reported once with cycle set and is not descended into, so Walk
// terminates on any topology. Returning false from fn skips that node's
// children. Missing composite children are reported as nil nodes.
func Walk[S any](root Node[S], fn func(n Node[S], depth int, cycle bool) bool) {
	if root == nil {
		return
	}
	walk(root, nil, func(n Node[S], path *ancestry, cycle bool) bool {
		return fn(n, path.len(), cycle)
	})
}
