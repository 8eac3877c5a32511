package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/strategy"
)

// StrategyInfo describes one built-in strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Hash        string `json:"hash"`
	Default     bool   `json:"default,omitempty"`
}

// NewStrategiesCommand creates the strategies command.
func NewStrategiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "strategies",
		Short:         "List built-in strategies",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrategies(rootOpts, cmd)
		},
	}
}

func runStrategies(opts *RootOptions, cmd *cobra.Command) error {
	infos, err := listStrategies()
	if err != nil {
		return err
	}

	f := newFormatter(opts, cmd)
	if f.JSON() {
		return f.Success(infos)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		name := info.Name
		if info.Default {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, shortHash(info.Hash), info.Description)
	}
	return tw.Flush()
}

func listStrategies() ([]StrategyInfo, error) {
	names := strategy.Names()
	infos := make([]StrategyInfo, 0, len(names))
	for _, name := range names {
		root, err := strategy.Root(name)
		if err != nil {
			return nil, err
		}
		_, hash, err := describeTree(&ResolvedTree{Name: name, Root: root})
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", name, err)
		}
		infos = append(infos, StrategyInfo{
			Name:        name,
			Description: strategy.Describe(name),
			Hash:        hash,
			Default:     name == strategy.DefaultStrategy,
		})
	}
	return infos, nil
}
