package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/queryir"
	"github.com/roach88/arbor/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // "" lists sessions, "latest" picks the newest
	Where    []string
	Limit    int
}

// TurnMatch is one turn found by --where.
type TurnMatch struct {
	Session string `json:"session"`
	TurnTrace
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ir.Session
	Turns  int   `json:"turns"`
	Orders int64 `json:"orders"`
}

// TurnTrace is one recorded turn with its orders.
type TurnTrace struct {
	Seq    int64            `json:"seq"`
	Number int64            `json:"number"`
	ID     string           `json:"id"`
	Result string           `json:"result"`
	Trace  []string         `json:"trace"`
	Orders []ir.OrderRecord `json:"orders"`
}

// TraceResult holds a session's recorded game.
type TraceResult struct {
	Session ir.Session  `json:"session"`
	Turns   []TurnTrace `json:"turns"`
	Stats   TraceStats  `json:"stats"`
}

// TraceStats holds summary statistics for a session.
type TraceStats struct {
	Turns     int `json:"turns"`
	Orders    int `json:"orders"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded games",
		Long: `Inspect games recorded with "arbor play --db".

Without --session, lists every session with its turn and order counts.
With --session, shows each turn of that game: the root result, the nodes
the tick executed in order, and the orders it issued.

Examples:
  arbor trace --db games.db
  arbor trace --db games.db --session latest
  arbor trace --db games.db --session 0190a1b2-... --format json

Filtering:
  --where selects turns across sessions (or within --session) by field.
  Repeat it to require every condition. Fields: session, strategy,
  tree_hash, result, node, seq, number, orders.

  arbor trace --db games.db --where result=Failure
  arbor trace --db games.db --where "node=Action: attack_weakest_enemy_planet" --limit 10
  arbor trace --db games.db --session latest --where orders=0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", `session to show, or "latest"`)
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "filter turns by field<op>value (repeatable)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of turns matched by --where (0 for all)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	formatter := newFormatter(opts.RootOptions, cmd)
	if len(opts.Where) > 0 {
		return runTraceQuery(ctx, opts, st, formatter)
	}
	if opts.Limit != 0 {
		return NewExitError(ExitCommandError, "--limit requires --where")
	}
	if opts.Session == "" {
		summaries, err := summarizeSessions(ctx, st)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if formatter.JSON() {
			return formatter.Success(summaries)
		}
		return outputSessionsText(formatter.Writer, summaries)
	}

	sess, err := readSession(ctx, st, opts.Session)
	if err != nil {
		return err
	}

	result, err := buildTrace(ctx, st, sess)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read turns", err)
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	return outputTraceText(formatter.Writer, result)
}

func readSession(ctx context.Context, st *store.Store, id string) (ir.Session, error) {
	var (
		sess ir.Session
		err  error
	)
	if id == "latest" {
		sess, err = st.LatestSession(ctx)
	} else {
		sess, err = st.ReadSession(ctx, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return ir.Session{}, WrapExitError(ExitCommandError, "no such session", err)
	}
	if err != nil {
		return ir.Session{}, WrapExitError(ExitCommandError, "failed to read session", err)
	}
	return sess, nil
}

// runTraceQuery lists the turns matching every --where condition.
func runTraceQuery(ctx context.Context, opts *TraceOptions, st *store.Store, formatter *OutputFormatter) error {
	exprs := opts.Where
	if opts.Session != "" {
		sess, err := readSession(ctx, st, opts.Session)
		if err != nil {
			return err
		}
		exprs = append([]string{"session=" + sess.ID}, exprs...)
	}
	filter, err := queryir.ParseWhere(exprs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be >= 0")
	}

	formatter.VerboseLog("Matching turns: %s", strings.Join(exprs, " AND "))
	turns, err := st.FindTurns(ctx, queryir.Select{From: queryir.SourceTurns, Filter: filter, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query turns", err)
	}

	matches := make([]TurnMatch, 0, len(turns))
	for _, t := range turns {
		orders, err := st.ReadOrders(ctx, t.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read orders", err)
		}
		matches = append(matches, TurnMatch{
			Session: t.SessionID,
			TurnTrace: TurnTrace{
				Seq:    t.Seq,
				Number: t.Number,
				ID:     t.ID,
				Result: t.Result,
				Trace:  t.Trace,
				Orders: orders,
			},
		})
	}

	if formatter.JSON() {
		return formatter.Success(matches)
	}
	return outputMatchesText(formatter.Writer, matches)
}

// openExisting opens a database that must already exist; store.Open would
// create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func summarizeSessions(ctx context.Context, st *store.Store) ([]SessionSummary, error) {
	sessions, err := st.ReadSessions(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		turns, err := st.ReadTurns(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		orders, err := st.CountOrders(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{Session: sess, Turns: len(turns), Orders: orders})
	}
	return summaries, nil
}

func buildTrace(ctx context.Context, st *store.Store, sess ir.Session) (TraceResult, error) {
	turns, err := st.ReadTurns(ctx, sess.ID)
	if err != nil {
		return TraceResult{}, err
	}

	result := TraceResult{
		Session: sess,
		Turns:   make([]TurnTrace, 0, len(turns)),
	}
	for _, t := range turns {
		orders, err := st.ReadOrders(ctx, t.ID)
		if err != nil {
			return TraceResult{}, err
		}
		result.Turns = append(result.Turns, TurnTrace{
			Seq:    t.Seq,
			Number: t.Number,
			ID:     t.ID,
			Result: t.Result,
			Trace:  t.Trace,
			Orders: orders,
		})
		result.Stats.Orders += len(orders)
		if t.Result == "Success" {
			result.Stats.Successes++
		} else {
			result.Stats.Failures++
		}
	}
	result.Stats.Turns = len(turns)
	return result, nil
}

func outputSessionsText(w io.Writer, summaries []SessionSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s  %-12s  %s  %d turn(s), %d order(s)\n",
			s.ID, s.Strategy, shortHash(s.TreeHash), s.Turns, s.Orders)
	}
	return nil
}

func outputTraceText(w io.Writer, r TraceResult) error {
	fmt.Fprintf(w, "Session %s\n", r.Session.ID)
	fmt.Fprintf(w, "  tree %s (%s), engine %s\n\n", r.Session.Strategy, shortHash(r.Session.TreeHash), r.Session.EngineVersion)

	for _, t := range r.Turns {
		fmt.Fprintf(w, "Turn %d (seq %d): %s\n", t.Number, t.Seq, t.Result)
		fmt.Fprintf(w, "  %s\n", strings.Join(t.Trace, " > "))
		for _, o := range t.Orders {
			fmt.Fprintf(w, "  order %d -> %d (%d ships)\n", o.Source, o.Destination, o.NumShips)
		}
	}

	fmt.Fprintf(w, "\n%d turn(s): %d success, %d failure, %d order(s)\n",
		r.Stats.Turns, r.Stats.Successes, r.Stats.Failures, r.Stats.Orders)
	return nil
}

func outputMatchesText(w io.Writer, matches []TurnMatch) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matching turns.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s turn %d (seq %d): %s, %d order(s)\n", m.Session, m.Number, m.Seq, m.Result, len(m.Orders))
		fmt.Fprintf(w, "  %s\n", strings.Join(m.Trace, " > "))
	}
	fmt.Fprintf(w, "\n%d matching turn(s)\n", len(matches))
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
