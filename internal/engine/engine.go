package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/logging"
	"github.com/roach88/arbor/internal/planetwars"
	"github.com/roach88/arbor/internal/store"
)

type state = *planetwars.State

// Engine plays one game: it reads turns from the host, ticks the tree once
// per turn and writes the orders back.
//
// Run must be called from exactly one goroutine.
type Engine struct {
	tree     *bt.Tree[state]
	strategy string
	treeHash string

	in  *planetwars.TurnReader
	out *bufio.Writer

	store    *store.Store
	logger   *slog.Logger
	clock    *Clock
	sessions SessionGenerator
	metrics  *Metrics
	hooks    *bt.Hooks[state]
	logNodes bool

	session ir.Session
	trace   []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore records every turn in s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the engine's logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the logical clock, e.g. to continue a numbering.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSessionGenerator replaces the UUIDv7 session IDs.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) { e.sessions = g }
}

// WithMetrics updates m after every turn.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTreeHash overrides the recorded tree hash. Trees compiled from CUE
// carry their own hash; built-in trees are hashed from their topology.
func WithTreeHash(hash string) Option {
	return func(e *Engine) { e.treeHash = hash }
}

// WithHooks observes every node execution after the engine's own trace
// recording.
func WithHooks(hooks bt.Hooks[state]) Option {
	return func(e *Engine) { e.hooks = &hooks }
}

// WithNodeLogging logs every node execution at debug level.
func WithNodeLogging() Option {
	return func(e *Engine) { e.logNodes = true }
}

// New creates an engine that plays root under the given strategy name,
// reading turns from in and writing orders to out.
func New(strategy string, root bt.Node[state], in io.Reader, out io.Writer, opts ...Option) (*Engine, error) {
	e := &Engine{
		strategy: strategy,
		in:       planetwars.NewTurnReader(in),
		logger:   logging.NewNop(),
		clock:    NewClock(),
		sessions: UUIDv7Generator{},
	}
	if bw, ok := out.(*bufio.Writer); ok {
		e.out = bw
	} else {
		e.out = bufio.NewWriter(out)
	}
	for _, opt := range opts {
		opt(e)
	}

	hooks := bt.Hooks[state]{
		OnEnter: func(n bt.Node[state], _ state) {
			e.trace = append(e.trace, n.Label())
		},
	}
	if e.hooks != nil {
		hooks = bt.Chain(hooks, *e.hooks)
	}
	treeOpts := []bt.TreeOption{
		bt.WithLogger(e.logger),
		bt.WithHooks(hooks),
	}
	if e.logNodes {
		treeOpts = append(treeOpts, bt.WithNodeLogging())
	}
	tree, err := bt.NewTree(strategy, root, treeOpts...)
	if err != nil {
		return nil, err
	}
	e.tree = tree

	if e.treeHash == "" {
		def, err := compiler.Decompile(strategy, root)
		if err != nil {
			return nil, fmt.Errorf("hash tree: %w", err)
		}
		if e.treeHash, err = ir.TreeHash(def); err != nil {
			return nil, fmt.Errorf("hash tree: %w", err)
		}
	}

	return e, nil
}

// Session returns the session being played. It is zero until Run starts.
func (e *Engine) Session() ir.Session {
	return e.session
}

// TreeHash returns the hash recorded with the session.
func (e *Engine) TreeHash() string {
	return e.treeHash
}

// Run plays turns until the input ends or ctx is cancelled.
//
// A clean end of input returns nil. A malformed turn or a failed write
// stops the game with an *EngineError. A failed store write is logged and
// play continues, since the host expects an answer every turn.
func (e *Engine) Run(ctx context.Context) error {
	e.session = ir.Session{
		ID:            e.sessions.Generate(),
		Strategy:      e.strategy,
		TreeHash:      e.treeHash,
		EngineVersion: ir.EngineVersion,
	}
	logger := e.logger.With("session", e.session.ID)

	if e.store != nil {
		if err := e.store.WriteSession(ctx, e.session); err != nil {
			return &EngineError{Code: ErrCodeStore, Err: err}
		}
	}
	logger.Info("game starting", "strategy", e.strategy, "tree_hash", e.treeHash)

	turns := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		st, err := e.in.Next(ctx)
		if errors.Is(err, io.EOF) {
			logger.Info("game over", "turns", turns)
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			code := ErrCodeRead
			if planetwars.IsParseError(err) {
				code = ErrCodeParse
			}
			return &EngineError{Code: code, Err: err}
		}

		if err := e.playTurn(ctx, logger, st); err != nil {
			return err
		}
		turns++
	}
}

// playTurn runs one decision cycle against st.
func (e *Engine) playTurn(ctx context.Context, logger *slog.Logger, st state) error {
	e.trace = e.trace[:0]

	start := time.Now()
	ok := e.tree.Tick(st)
	elapsed := time.Since(start)

	result := bt.Outcome(ok)
	orders := st.Orders()
	trace := append([]string(nil), e.trace...)

	if err := planetwars.WriteOrders(e.out, orders); err != nil {
		return &EngineError{Code: ErrCodeWrite, Turn: st.Turn, Err: err}
	}

	logger.Debug("turn played",
		"turn", st.Turn,
		"result", result,
		"orders", len(orders),
		"nodes", len(trace),
	)

	if e.store != nil {
		if err := e.record(ctx, st, result, trace, orders); err != nil {
			logger.Error("failed to record turn", "turn", st.Turn, "error", err)
		}
	}
	if e.metrics != nil {
		e.metrics.ObserveTurn(result, trace, len(orders), elapsed)
	}
	return nil
}

// record writes the turn and its orders to the store.
func (e *Engine) record(ctx context.Context, st state, result string, trace []string, orders []planetwars.Order) error {
	seq := e.clock.Peek()

	records := make([]ir.OrderRecord, len(orders))
	for i, o := range orders {
		records[i] = ir.OrderRecord{
			Index:       int64(i),
			Source:      int64(o.Source),
			Destination: int64(o.Destination),
			NumShips:    int64(o.NumShips),
		}
	}
	id, err := ir.TurnID(e.session.ID, seq, records)
	if err != nil {
		return &EngineError{Code: ErrCodeStore, Turn: st.Turn, Err: err}
	}
	for i := range records {
		records[i].TurnID = id
	}

	snapshot, err := json.Marshal(st.Snapshot())
	if err != nil {
		return &EngineError{Code: ErrCodeStore, Turn: st.Turn, Err: fmt.Errorf("snapshot: %w", err)}
	}

	turn := ir.Turn{
		ID:        id,
		SessionID: e.session.ID,
		Number:    int64(st.Turn),
		Seq:       seq,
		Result:    result,
		Trace:     trace,
		Snapshot:  string(snapshot),
	}
	if err := e.store.WriteTurn(ctx, turn, records); err != nil {
		return &EngineError{Code: ErrCodeStore, Turn: st.Turn, Err: err}
	}
	e.clock.Commit()
	return nil
}
