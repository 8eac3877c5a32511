package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/engine"
	"github.com/roach88/arbor/internal/logging"
	"github.com/roach88/arbor/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Tree        TreeSource
	Database    string
	MetricsFile string
	LogFile     string
	LogLevel    string
	LogNodes    bool

	// Sessions overrides the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Sessions engine.SessionGenerator
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game over stdin/stdout",
		Long: `Play Planet Wars against a host speaking the line protocol.

Each turn's state is read from stdin up to "go"; the tree is ticked once
and the orders are written to stdout followed by "go". Logs never go to
stdout. With --db every turn is recorded for later inspection.

Examples:
  arbor play --strategy aggressive
  arbor play --tree ./trees/turtle.cue --tree-name turtle --db games.db
  arbor play --db games.db --metrics-file arbor.prom --log-file arbor.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	bindTreeFlags(cmd, &opts.Tree)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record turns to this SQLite database")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file when the game ends")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file instead of stderr")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&opts.LogNodes, "log-nodes", false, "log every node execution at debug level")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	if err := opts.Tree.check(); err != nil {
		return err
	}

	logger, closeLog, err := playLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	defer closeLog()

	tree, err := opts.Tree.Resolve()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load tree", err)
	}

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if tree.Hash != "" {
		engOpts = append(engOpts, engine.WithTreeHash(tree.Hash))
	}
	if opts.Sessions != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.Sessions))
	}
	if opts.LogNodes {
		engOpts = append(engOpts, engine.WithNodeLogging())
	}

	var metrics *engine.Metrics
	if opts.MetricsFile != "" {
		metrics = engine.NewMetrics()
		engOpts = append(engOpts, engine.WithMetrics(metrics))
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		engOpts = append(engOpts, engine.WithStore(st))
	}

	eng, err := engine.New(tree.Name, tree.Root, cmd.InOrStdin(), cmd.OutOrStdout(), engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid tree", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("tree loaded",
		"tree", tree.Name,
		"hash", eng.TreeHash(),
		"layout", bt.Render(tree.Root),
	)

	runErr := eng.Run(ctx)

	if metrics != nil {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", opts.MetricsFile, "error", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return WrapExitError(ExitFailure, "game aborted", runErr)
	}
	return nil
}

// playLogger builds the logger for a game. --verbose forces debug.
func playLogger(opts *PlayOptions, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	if opts.LogFile == "" {
		return logging.New(stderr, level), func() {}, nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", opts.LogFile, err)
	}
	return logging.New(f, level), func() { _ = f.Close() }, nil
}
