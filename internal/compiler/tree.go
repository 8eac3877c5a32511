package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/ir"
)

// TreeSpec is a compiled tree bound to a registry.
type TreeSpec[S any] struct {
	Name        string
	Description string
	Hash        string
	Def         *ir.TreeDef
	Root        bt.Node[S]
}

// CompileTree parses a CUE tree definition, validates it, and binds its
// leaves to functions from reg. Uses CUE SDK's Go API directly.
//
// The CUE value should be the tree struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`tree: rush: { root: {...} }`)
//	spec, err := CompileTree(v.LookupPath(cue.ParsePath("tree.rush")), reg)
//
// The first problem found is returned as a *CompileError carrying the
// source position of the offending node.
func CompileTree[S any](v cue.Value, reg Registry[S]) (*TreeSpec[S], error) {
	def, positions, err := parseTree(v)
	if err != nil {
		return nil, err
	}

	errs := Validate(def)
	errs = append(errs, ValidateFunctions(def, reg.Names())...)
	if len(errs) > 0 {
		first := errs[0]
		return nil, &CompileError{
			Field:   first.Field,
			Message: fmt.Sprintf("[%s] %s", first.Code, first.Message),
			Pos:     positions.find(first.Field),
		}
	}

	root, err := Build(def, reg)
	if err != nil {
		return nil, err
	}

	hash, err := ir.TreeHash(*def)
	if err != nil {
		return nil, err
	}

	return &TreeSpec[S]{
		Name:        def.Name,
		Description: def.Description,
		Hash:        hash,
		Def:         def,
		Root:        root,
	}, nil
}

// ParseTree decodes a CUE tree definition without validating it.
func ParseTree(v cue.Value) (*ir.TreeDef, error) {
	def, _, err := parseTree(v)
	return def, err
}

// positions maps definition field paths to source positions.
type positions map[string]token.Pos

// find returns the position of field, or of its nearest enclosing node.
func (p positions) find(field string) token.Pos {
	for field != "" {
		if pos, ok := p[field]; ok {
			return pos
		}
		i := strings.LastIndexAny(field, ".[")
		if i < 0 {
			break
		}
		field = field[:i]
	}
	return token.NoPos
}

func parseTree(v cue.Value) (*ir.TreeDef, positions, error) {
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}

	def := &ir.TreeDef{}
	pos := positions{}

	// Parse tree name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	desc, err := optionalString(v, "description")
	if err != nil {
		return nil, nil, err
	}
	def.Description = desc

	rootVal := v.LookupPath(cue.ParsePath("root"))
	if !rootVal.Exists() {
		return nil, nil, &CompileError{
			Field:   "root",
			Message: "root is required",
			Pos:     v.Pos(),
		}
	}

	root, err := parseNode(rootVal, "root", pos)
	if err != nil {
		return nil, nil, err
	}
	def.Root = *root

	return def, pos, nil
}

// parseNode decodes one node and its descendants. Field applicability is
// left to Validate so that every problem in a file can be reported.
func parseNode(v cue.Value, field string, pos positions) (*ir.NodeDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("node must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	pos[field] = v.Pos()

	node := &ir.NodeDef{Line: v.Pos().Line()}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	typ, err := typeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	node.Type = typ

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"name", &node.Name},
		{"fn", &node.Fn},
		{"label", &node.Label},
	} {
		s, err := optionalString(v, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}

	if maxVal := v.LookupPath(cue.ParsePath("max_iterations")); maxVal.Exists() {
		if k := maxVal.IncompleteKind(); k != cue.IntKind {
			return nil, &CompileError{
				Field:   field + ".max_iterations",
				Message: fmt.Sprintf("max_iterations must be an integer, got %v", k),
				Pos:     maxVal.Pos(),
			}
		}
		n, err := maxVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		node.MaxIterations = &n
	}

	if childrenVal := v.LookupPath(cue.ParsePath("children")); childrenVal.Exists() {
		iter, err := childrenVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		node.Children = []ir.NodeDef{}
		for i := 0; iter.Next(); i++ {
			child, err := parseNode(iter.Value(), fmt.Sprintf("%s.children[%d]", field, i), pos)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, *child)
		}
	}

	if childVal := v.LookupPath(cue.ParsePath("child")); childVal.Exists() {
		child, err := parseNode(childVal, field+".child", pos)
		if err != nil {
			return nil, err
		}
		node.Child = child
	}

	return node, nil
}

func optionalString(v cue.Value, name string) (string, error) {
	sv := v.LookupPath(cue.ParsePath(name))
	if !sv.Exists() {
		return "", nil
	}
	s, err := sv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// Build constructs the engine nodes for a validated definition.
func Build[S any](def *ir.TreeDef, reg Registry[S]) (bt.Node[S], error) {
	return buildNode(def.Root, "root", reg)
}

func buildNode[S any](n ir.NodeDef, field string, reg Registry[S]) (bt.Node[S], error) {
	switch n.Type {
	case ir.NodeCheck, ir.NodeAction:
		fn, ok := reg.Lookup(n.Fn)
		if !ok {
			return nil, &CompileError{Field: field + ".fn", Message: fmt.Sprintf("unknown function %q", n.Fn)}
		}
		label := n.Label
		if label == "" {
			label = n.Fn
		}
		if n.Type == ir.NodeCheck {
			return bt.NewCheck(label, fn), nil
		}
		return bt.NewAction(label, fn), nil

	case ir.NodeSelector, ir.NodeSequence:
		children := make([]bt.Node[S], len(n.Children))
		for i, c := range n.Children {
			child, err := buildNode(c, fmt.Sprintf("%s.children[%d]", field, i), reg)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		if n.Type == ir.NodeSelector {
			return bt.NewSelector(n.Name, children...), nil
		}
		return bt.NewSequence(n.Name, children...), nil

	case ir.NodeInverter, ir.NodeAlwaysSucceed, ir.NodeLoopUntilFail:
		if n.Child == nil {
			return nil, &CompileError{Field: field + ".child", Message: n.Type + " requires a child"}
		}
		child, err := buildNode(*n.Child, field+".child", reg)
		if err != nil {
			return nil, err
		}
		switch n.Type {
		case ir.NodeInverter:
			return bt.NewInverter(child), nil
		case ir.NodeAlwaysSucceed:
			return bt.NewAlwaysSucceed(child), nil
		default:
			bound := bt.DefaultMaxIterations
			if n.MaxIterations != nil {
				bound = int(*n.MaxIterations)
			}
			return bt.NewLoopUntilFail(child, bound), nil
		}

	default:
		return nil, &CompileError{Field: field + ".type", Message: fmt.Sprintf("unknown node type %q", n.Type)}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
