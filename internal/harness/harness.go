package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/engine"
	"github.com/roach88/arbor/internal/logging"
	"github.com/roach88/arbor/internal/planetwars"
	"github.com/roach88/arbor/internal/store"
	"github.com/roach88/arbor/internal/strategy"
	"github.com/roach88/arbor/internal/testutil"
)

// Harness runs one scenario with a private store and a fixed session.
type Harness struct {
	store    *store.Store
	sessions *testutil.FixedSessionGenerator
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs the real engine for exactly one turn, in a fresh
// in-memory database. The root result and the orders are read back from
// the game log, so a scenario also exercises recording.
//
// An error is returned only when the scenario cannot run at all (bad tree,
// malformed map); failed expectations land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		sessions: testutil.NewFixedSessionGenerator("scenario-" + scenario.Name),
		logger:   logging.NewNop(),
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	name, root, hash, err := resolveTree(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	hooks := bt.Hooks[strategy.State]{
		OnEnter: func(n bt.Node[strategy.State], _ strategy.State) {
			result.addEvent(PhaseEnter, n.Label(), "")
		},
		OnLeave: func(n bt.Node[strategy.State], _ strategy.State, ok bool) {
			result.addEvent(PhaseLeave, n.Label(), bt.Outcome(ok))
		},
	}

	opts := []engine.Option{
		engine.WithStore(h.store),
		engine.WithSessionGenerator(h.sessions),
		engine.WithLogger(h.logger),
		engine.WithHooks(hooks),
	}
	if hash != "" {
		opts = append(opts, engine.WithTreeHash(hash))
	}

	var out bytes.Buffer
	eng, err := engine.New(name, root, strings.NewReader(testutil.Turn(scenario.Map)), &out, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	if err := eng.Run(ctx); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	turns, err := h.store.ReadTurns(ctx, eng.Session().ID)
	if err != nil {
		return nil, err
	}
	if len(turns) != 1 {
		return nil, fmt.Errorf("scenario %q: expected 1 recorded turn, got %d", scenario.Name, len(turns))
	}
	result.Result = turns[0].Result

	orders, err := h.store.ReadOrders(ctx, turns[0].ID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		result.Orders = append(result.Orders, planetwars.Order{
			Source:      int(o.Source),
			Destination: int(o.Destination),
			NumShips:    int(o.NumShips),
		})
	}

	if scenario.ExpectResult != nil {
		want := bt.Outcome(*scenario.ExpectResult)
		if result.Result != want {
			result.AddError(fmt.Sprintf("expected root result %s, got %s", want, result.Result))
		}
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// resolveTree builds the scenario's root. Built-in strategies are hashed by
// the engine; CUE trees carry the hash of their definition.
func resolveTree(scenario *Scenario) (string, bt.Node[strategy.State], string, error) {
	if scenario.Strategy != "" {
		root, err := strategy.Root(scenario.Strategy)
		if err != nil {
			return "", nil, "", err
		}
		return scenario.Strategy, root, "", nil
	}

	specs, err := compiler.LoadFile(scenario.Tree, strategy.Functions())
	if err != nil {
		return "", nil, "", err
	}
	spec, err := compiler.Select(specs, scenario.TreeName)
	if err != nil {
		return "", nil, "", fmt.Errorf("%s: %w", scenario.Tree, err)
	}
	return spec.Name, spec.Root, spec.Hash, nil
}
