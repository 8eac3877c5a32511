package bt

import (
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is the per-level prefix used by Render.
const DefaultIndent = "| "

// Renderer produces indented, depth-first text dumps of a tree.
//
// The zero value renders with DefaultIndent and no styling.
type Renderer[S any] struct {
	// Indent is repeated once per depth level before each line.
	Indent string

	// Style, when set, decorates each line's text (not its indent).
	// kind is zero for a missing child.
	Style func(kind Kind, text string) string
}

// Render returns the dump of root using the default renderer.
func Render[S any](root Node[S]) string {
	return Renderer[S]{}.Render(root)
}

// Render returns the dump of root.
func (r Renderer[S]) Render(root Node[S]) string {
	var sb strings.Builder
	_ = r.RenderTo(&sb, root) // strings.Builder never fails
	return sb.String()
}

// RenderTo writes the dump of root to w.
//
// A node already present on the current ancestor path is written as
// "[CYCLE DETECTED: <label>]" and not descended into. Rendering never
// executes any node.
func (r Renderer[S]) RenderTo(w io.Writer, root Node[S]) error {
	if root == nil {
		return nil
	}
	indent := r.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	var werr error
	walk(root, nil, func(n Node[S], path *ancestry, cycle bool) bool {
		if werr != nil {
			return false
		}

		var kind Kind
		var text string
		switch {
		case n == nil:
			text = "[MISSING CHILD]"
		case cycle:
			kind = n.Kind()
			text = fmt.Sprintf("[CYCLE DETECTED: %s]", n.Label())
		default:
			kind = n.Kind()
			text = n.Label()
		}
		if r.Style != nil {
			text = r.Style(kind, text)
		}

		_, werr = io.WriteString(w, strings.Repeat(indent, path.len())+text+"\n")
		return werr == nil
	})
	return werr
}
