// Package strategy assembles the built-in Planet Wars behavior trees.
//
// A strategy is only a wiring of planetwars checks and behaviors into bt
// composites and decorators; none of the engine's semantics live here.
package strategy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/arbor/internal/bt"
	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/planetwars"
)

// DefaultStrategy is used when no strategy is named.
const DefaultStrategy = "balanced"

// ErrUnknownStrategy is returned by Build for names not in Names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// State is the state every built-in tree runs against.
type State = *planetwars.State

type entry struct {
	description string
	build       func() bt.Node[State]
}

var strategies = map[string]entry{
	"default": {
		description: "attack when ahead, otherwise spread, otherwise attack anyway",
		build:       defaultTree,
	},
	"balanced": {
		description: "hybrid: rush when ahead, expand up to five times, safe attack, reinforce",
		build:       balancedTree,
	},
	"greedy": {
		description: "prioritize weakest neutral planets, then attack weakest planets",
		build:       greedyTree,
	},
	"conservative": {
		description: "attack only a weaker enemy, else expand, else reinforce a weak ally",
		build:       conservativeTree,
	},
	"aggressive": {
		description: "attack closest enemies; if too far, colonize; else attack the weakest planet",
		build:       aggressiveTree,
	},
}

// Names returns the built-in strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of the named strategy, or the
// empty string if there is none.
func Describe(name string) string {
	return strategies[name].description
}

// Root assembles a fresh root node for the named strategy.
func Root(name string) (bt.Node[State], error) {
	e, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownStrategy, name, Names())
	}
	return e.build(), nil
}

// Build assembles the named strategy into a validated tree.
func Build(name string, opts ...bt.TreeOption) (*bt.Tree[State], error) {
	root, err := Root(name)
	if err != nil {
		return nil, err
	}
	return bt.NewTree(name, root, opts...)
}

// Functions returns every check and behavior under the snake_case name
// used in leaf labels, for binding declarative trees.
func Functions() compiler.Registry[State] {
	return compiler.Registry[State]{
		"if_neutral_planet_available":       planetwars.IfNeutralPlanetAvailable,
		"have_largest_fleet":                planetwars.HaveLargestFleet,
		"have_more_planets_than_enemy":      planetwars.HaveMorePlanetsThanEnemy,
		"is_enemy_stronger":                 planetwars.IsEnemyStronger,
		"has_idle_planet":                   planetwars.HasIdlePlanet,
		"is_enemy_too_far":                  planetwars.IsEnemyTooFar,
		"attack_weakest_enemy_planet":       planetwars.AttackWeakestEnemyPlanet,
		"spread_to_weakest_neutral_planet":  planetwars.SpreadToWeakestNeutralPlanet,
		"reinforce_weakest_friendly_planet": planetwars.ReinforceWeakestFriendlyPlanet,
		"attack_closest_enemy_planet":       planetwars.AttackClosestEnemyPlanet,
	}
}
