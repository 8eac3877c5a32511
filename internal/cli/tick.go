package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	behaviortree "github.com/joeycumines/go-behaviortree"
	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/harness"
	"github.com/roach88/arbor/internal/interop"
	"github.com/roach88/arbor/internal/planetwars"
	"github.com/roach88/arbor/internal/strategy"
)

// TickOptions holds flags for the tick command.
type TickOptions struct {
	*RootOptions
	Tree    TreeSource
	Map     string
	Runtime string
}

// Tick runtimes.
const (
	RuntimeArbor        = "arbor"
	RuntimeBehaviorTree = "behaviortree"
)

// TickResult is the outcome of ticking a tree once.
type TickResult struct {
	Tree     string               `json:"tree"`
	Result   string               `json:"result"`
	Executed []string             `json:"executed"`
	Orders   []planetwars.Order   `json:"orders"`
	Trace    []harness.TraceEvent `json:"trace,omitempty"`
}

// NewTickCommand creates the tick command.
func NewTickCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TickOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Tick a tree once against a map",
		Long: `Tick a tree once against a single turn's state and show what it did.

The map uses the game's line protocol (P and F records). Use "-" to read
it from stdin. With --verbose the full enter/leave trace is included.

--runtime behaviortree ticks the same tree through go-behaviortree instead
of arbor's own executor. Results and orders match; the verbose trace is
only available with the arbor runtime.

Examples:
  arbor tick --map ./maps/opening.txt
  arbor tick --strategy greedy --map - < turn.txt
  arbor tick --tree ./trees/turtle.cue --tree-name turtle --map turn.txt --format json
  arbor tick --strategy balanced --map turn.txt --runtime behaviortree`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTick(opts, cmd)
		},
	}

	bindTreeFlags(cmd, &opts.Tree)
	cmd.Flags().StringVar(&opts.Map, "map", "", "turn state file, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.Runtime, "runtime", RuntimeArbor, "executor to tick with (arbor|behaviortree)")
	_ = cmd.MarkFlagRequired("map")

	return cmd
}

func runTick(opts *TickOptions, cmd *cobra.Command) error {
	if err := opts.Tree.check(); err != nil {
		return err
	}

	if opts.Runtime != RuntimeArbor && opts.Runtime != RuntimeBehaviorTree {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown runtime %q (want %s or %s)", opts.Runtime, RuntimeArbor, RuntimeBehaviorTree))
	}

	data, err := readMap(opts.Map, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read map", err)
	}

	tree := opts.Tree
	if tree.File == "" && tree.Strategy == "" {
		tree = TreeSource{Strategy: strategy.DefaultStrategy}
	}

	var out TickResult
	if opts.Runtime == RuntimeBehaviorTree {
		out, err = tickForeign(tree, stripGo(string(data)))
	} else {
		out, err = tickNative(tree, stripGo(string(data)), opts.Verbose)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "tick failed", err)
	}

	f := newFormatter(opts.RootOptions, cmd)
	if f.JSON() {
		return f.Success(out)
	}
	return outputTickText(f.Writer, out)
}

// tickNative runs the tree once through the scenario harness, which drives
// the real engine.
func tickNative(tree TreeSource, text string, verbose bool) (TickResult, error) {
	scenario := &harness.Scenario{
		Name:     "tick",
		Strategy: tree.Strategy,
		Tree:     tree.File,
		TreeName: tree.Name,
		Map:      text,
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return TickResult{}, err
	}

	out := TickResult{
		Tree:     treeLabel(tree),
		Result:   result.Result,
		Executed: result.Executed(),
		Orders:   result.Orders,
	}
	if out.Executed == nil {
		out.Executed = []string{}
	}
	if verbose {
		out.Trace = result.Trace
	}
	return out, nil
}

// tickForeign adapts the tree to go-behaviortree and ticks it once.
func tickForeign(source TreeSource, text string) (TickResult, error) {
	tree, err := source.Resolve()
	if err != nil {
		return TickResult{}, err
	}
	if err := bt.Validate(tree.Root); err != nil {
		return TickResult{}, err
	}
	st, err := planetwars.ParseState(text)
	if err != nil {
		return TickResult{}, err
	}
	st.Turn = 1

	executed := []string{}
	node := interop.AdaptObserved(tree.Root, func() strategy.State { return st }, func(n bt.Node[strategy.State]) {
		executed = append(executed, n.Label())
	})
	status, err := node.Tick()
	if err != nil {
		return TickResult{}, err
	}

	return TickResult{
		Tree:     treeLabel(source),
		Result:   bt.Outcome(status == behaviortree.Success),
		Executed: executed,
		Orders:   st.Orders(),
	}, nil
}

func readMap(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// stripGo drops a trailing "go" line; the harness terminates the turn itself.
func stripGo(text string) string {
	text = strings.TrimSpace(text)
	if text == "go" {
		return ""
	}
	return strings.TrimSuffix(text, "\ngo")
}

func treeLabel(s TreeSource) string {
	if s.File == "" {
		return s.Strategy
	}
	if s.Name == "" {
		return s.File
	}
	return s.File + ":" + s.Name
}

func outputTickText(w io.Writer, r TickResult) error {
	fmt.Fprintf(w, "%s: %s\n\n", r.Tree, r.Result)

	fmt.Fprintln(w, "Executed nodes:")
	for i, label := range r.Executed {
		fmt.Fprintf(w, "  [%d] %s\n", i, label)
	}

	if len(r.Trace) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Trace:")
		for _, ev := range r.Trace {
			if ev.Phase == harness.PhaseLeave {
				fmt.Fprintf(w, "  %3d %-5s %s -> %s\n", ev.Seq, ev.Phase, ev.Node, ev.Result)
			} else {
				fmt.Fprintf(w, "  %3d %-5s %s\n", ev.Seq, ev.Phase, ev.Node)
			}
		}
	}

	fmt.Fprintln(w)
	if len(r.Orders) == 0 {
		fmt.Fprintln(w, "No orders.")
		return nil
	}
	fmt.Fprintln(w, "Orders:")
	for _, o := range r.Orders {
		fmt.Fprintf(w, "  %d -> %d (%d ships)\n", o.Source, o.Destination, o.NumShips)
	}
	return nil
}
