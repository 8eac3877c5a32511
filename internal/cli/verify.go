package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/store"
	"github.com/roach88/arbor/internal/strategy"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// SessionCheck is the verification outcome for one session.
type SessionCheck struct {
	Session string `json:"session"`
	Turns   int    `json:"turns"`

	// BadIDs lists turns whose stored ID differs from the ID recomputed
	// from the session, sequence number and recorded orders.
	BadIDs []int64 `json:"bad_ids,omitempty"`

	// Gaps lists sequence numbers that do not follow their predecessor.
	Gaps []int64 `json:"gaps,omitempty"`

	// TreeChanged is set when a built-in strategy no longer hashes to the
	// recorded tree hash. Nil for trees that cannot be rebuilt.
	TreeChanged *bool `json:"tree_changed,omitempty"`

	Consistent bool `json:"consistent"`
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	Sessions      []SessionCheck `json:"sessions"`
	AllConsistent bool           `json:"all_consistent"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the integrity of recorded games",
		Long: `Re-derive every recorded turn ID and check the game log is intact.

A turn's ID is a hash of its session, sequence number and orders, so a
log that was edited or truncated no longer matches. Sessions played on a
built-in strategy are also checked against the strategy's current tree;
a changed tree is reported but does not fail verification.

Exit codes:
  0 - All sessions consistent
  1 - One or more sessions inconsistent
  2 - Command error (database not found, etc.)

Examples:
  arbor verify --db games.db
  arbor verify --db games.db --session 0190a1b2-...
  arbor verify --db games.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "verify this session only")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var sessions []ir.Session
	if opts.Session != "" {
		sess, err := st.ReadSession(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		sessions = []ir.Session{sess}
	} else if sessions, err = st.ReadSessions(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	result := VerifyResult{
		Sessions:      make([]SessionCheck, 0, len(sessions)),
		AllConsistent: true,
	}
	for _, sess := range sessions {
		check, err := VerifySession(ctx, st, sess)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify session %s", sess.ID), err)
		}
		result.Sessions = append(result.Sessions, check)
		if !check.Consistent {
			result.AllConsistent = false
		}
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	if formatter.JSON() {
		if result.AllConsistent {
			return formatter.Success(result)
		}
		if err := formatter.Failure("E_INTEGRITY", "game log verification failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "game log verification failed")
	}
	return outputVerifyText(formatter.Writer, result, opts.Verbose)
}

// VerifySession recomputes the turn IDs of one session and checks that its
// sequence numbers increase by one.
func VerifySession(ctx context.Context, st *store.Store, sess ir.Session) (SessionCheck, error) {
	turns, err := st.ReadTurns(ctx, sess.ID)
	if err != nil {
		return SessionCheck{}, err
	}

	check := SessionCheck{Session: sess.ID, Turns: len(turns)}
	for i, t := range turns {
		if i > 0 && t.Seq != turns[i-1].Seq+1 {
			check.Gaps = append(check.Gaps, t.Seq)
		}

		orders, err := st.ReadOrders(ctx, t.ID)
		if err != nil {
			return SessionCheck{}, err
		}
		id, err := ir.TurnID(sess.ID, t.Seq, orders)
		if err != nil {
			return SessionCheck{}, err
		}
		if id != t.ID {
			check.BadIDs = append(check.BadIDs, t.Seq)
		}
	}

	if slices.Contains(strategy.Names(), sess.Strategy) {
		root, err := strategy.Root(sess.Strategy)
		if err != nil {
			return SessionCheck{}, err
		}
		_, hash, err := describeTree(&ResolvedTree{Name: sess.Strategy, Root: root})
		if err != nil {
			return SessionCheck{}, err
		}
		changed := hash != sess.TreeHash
		check.TreeChanged = &changed
	}

	check.Consistent = len(check.BadIDs) == 0 && len(check.Gaps) == 0
	return check, nil
}

func outputVerifyText(w io.Writer, result VerifyResult, verbose bool) error {
	fmt.Fprintf(w, "Verify Summary: %d session(s)\n\n", len(result.Sessions))

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Consistent {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s (%d turn(s))\n", status, s.Session, s.Turns)
		for _, seq := range s.BadIDs {
			fmt.Fprintf(w, "  turn seq %d: ID does not match its orders\n", seq)
		}
		for _, seq := range s.Gaps {
			fmt.Fprintf(w, "  turn seq %d: sequence gap\n", seq)
		}
		if s.TreeChanged != nil && *s.TreeChanged {
			fmt.Fprintln(w, "  note: strategy tree changed since this game was recorded")
		} else if verbose && s.TreeChanged != nil {
			fmt.Fprintln(w, "  strategy tree unchanged")
		}
	}
	fmt.Fprintln(w)

	if result.AllConsistent {
		fmt.Fprintln(w, "✓ All sessions consistent")
		return nil
	}
	fmt.Fprintln(w, "✗ Game log verification failed")
	return NewExitError(ExitFailure, "game log verification failed")
}
