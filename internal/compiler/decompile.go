package compiler

import (
	"fmt"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/ir"
)

// Decompile describes an assembled tree as a definition, so trees built in
// Go can be hashed, analyzed and exported like compiled ones. Leaf names
// become fn.
//
// A cyclic or incomplete topology cannot be described and is an error.
func Decompile[S any](name string, root bt.Node[S]) (ir.TreeDef, error) {
	if root == nil {
		return ir.TreeDef{}, &CompileError{Field: "root", Message: "tree has no root node"}
	}

	type draft struct {
		def  ir.NodeDef
		kids []*draft
	}

	var (
		top   *draft
		open  []*draft // open[d] is the most recent node at depth d
		fault error
	)
	bt.Walk(root, func(n bt.Node[S], depth int, cycle bool) bool {
		if fault != nil {
			return false
		}
		if n == nil {
			fault = &CompileError{Field: "root", Message: fmt.Sprintf("missing child under %s", open[depth-1].def.Type)}
			return false
		}
		if cycle {
			fault = &CompileError{Field: "root", Message: fmt.Sprintf("cycle detected at %s", n.Label())}
			return false
		}

		d := &draft{def: nodeDef(n)}
		open = append(open[:depth], d)
		if depth == 0 {
			top = d
		} else {
			parent := open[depth-1]
			parent.kids = append(parent.kids, d)
		}
		return true
	})
	if fault != nil {
		return ir.TreeDef{}, fault
	}

	var finish func(d *draft) ir.NodeDef
	finish = func(d *draft) ir.NodeDef {
		def := d.def
		switch def.Type {
		case ir.NodeSelector, ir.NodeSequence:
			def.Children = make([]ir.NodeDef, len(d.kids))
			for i, k := range d.kids {
				def.Children[i] = finish(k)
			}
		default:
			if len(d.kids) > 0 {
				child := finish(d.kids[0])
				def.Child = &child
			}
		}
		return def
	}

	return ir.TreeDef{Name: name, Root: finish(top)}, nil
}

func nodeDef[S any](n bt.Node[S]) ir.NodeDef {
	switch n.Kind() {
	case bt.KindCheck:
		return ir.NodeDef{Type: ir.NodeCheck, Fn: n.Name()}
	case bt.KindAction:
		return ir.NodeDef{Type: ir.NodeAction, Fn: n.Name()}
	case bt.KindSelector:
		return ir.NodeDef{Type: ir.NodeSelector, Name: n.Name()}
	case bt.KindSequence:
		return ir.NodeDef{Type: ir.NodeSequence, Name: n.Name()}
	case bt.KindInverter:
		return ir.NodeDef{Type: ir.NodeInverter}
	case bt.KindAlwaysSucceed:
		return ir.NodeDef{Type: ir.NodeAlwaysSucceed}
	default:
		def := ir.NodeDef{Type: ir.NodeLoopUntilFail}
		if l, ok := n.(interface{ MaxIterations() int }); ok {
			bound := int64(l.MaxIterations())
			def.MaxIterations = &bound
		}
		return def
	}
}
