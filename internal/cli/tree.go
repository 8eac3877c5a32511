package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/strategy"
)

// TreeOptions holds flags for the tree command.
type TreeOptions struct {
	*RootOptions
	Tree  TreeSource
	Color string // "auto" | "always" | "never"
}

// TreeView is the JSON form of a rendered tree.
type TreeView struct {
	Name       string     `json:"name"`
	Hash       string     `json:"hash"`
	Definition ir.TreeDef `json:"definition"`
	Rendered   string     `json:"rendered"`
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TreeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render a tree",
		Long: `Render a built-in strategy or a CUE tree, one node per line,
indented by depth. Rendering never executes a node.

Examples:
  arbor tree --strategy balanced
  arbor tree --tree ./trees/turtle.cue --tree-name hold --color always
  arbor tree --strategy default --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(opts, cmd)
		},
	}

	bindTreeFlags(cmd, &opts.Tree)
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "colorize output (auto|always|never)")

	return cmd
}

func runTree(opts *TreeOptions, cmd *cobra.Command) error {
	if err := opts.Tree.check(); err != nil {
		return err
	}
	profile, err := colorProfile(opts.Color, cmd.OutOrStdout())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --color", err)
	}

	tree, err := opts.Tree.Resolve()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load tree", err)
	}

	f := newFormatter(opts.RootOptions, cmd)
	if !f.JSON() {
		r := bt.Renderer[strategy.State]{Style: kindStyle(profile)}
		return r.RenderTo(f.Writer, tree.Root)
	}

	def, hash, err := describeTree(tree)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to describe tree", err)
	}
	return f.Success(TreeView{
		Name:       tree.Name,
		Hash:       hash,
		Definition: def,
		Rendered:   bt.Render(tree.Root),
	})
}

// describeTree returns the definition and hash of a resolved tree. Built-in
// strategies are described from their topology.
func describeTree(tree *ResolvedTree) (ir.TreeDef, string, error) {
	if tree.Def != nil {
		return *tree.Def, tree.Hash, nil
	}
	def, err := compiler.Decompile(tree.Name, tree.Root)
	if err != nil {
		return ir.TreeDef{}, "", err
	}
	hash, err := ir.TreeHash(def)
	if err != nil {
		return ir.TreeDef{}, "", err
	}
	return def, hash, nil
}

func colorProfile(mode string, w io.Writer) (termenv.Profile, error) {
	switch mode {
	case "never":
		return termenv.Ascii, nil
	case "always":
		return termenv.ANSI, nil
	case "auto":
		return termenv.NewOutput(w).EnvColorProfile(), nil
	default:
		return termenv.Ascii, fmt.Errorf("%q is not one of auto, always, never", mode)
	}
}

// kindStyle colours composites, decorators and the two leaf kinds apart.
// Missing children are red.
func kindStyle(p termenv.Profile) func(bt.Kind, string) string {
	if p == termenv.Ascii {
		return nil
	}
	return func(kind bt.Kind, text string) string {
		s := p.String(text)
		switch {
		case kind.IsComposite():
			s = s.Foreground(p.Color("4")).Bold()
		case kind.IsDecorator():
			s = s.Foreground(p.Color("5"))
		case kind == bt.KindCheck:
			s = s.Foreground(p.Color("3"))
		case kind == bt.KindAction:
			s = s.Foreground(p.Color("2"))
		default:
			s = s.Foreground(p.Color("1"))
		}
		return s.String()
	}
}
