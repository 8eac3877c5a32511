package strategy

import "github.com/roach88/arbor/internal/bt"

func check(name string) bt.Node[State] {
	return bt.NewCheck(name, Functions()[name])
}

func action(name string) bt.Node[State] {
	return bt.NewAction(name, Functions()[name])
}

func selector(name string, children ...bt.Node[State]) bt.Node[State] {
	return bt.NewSelector(name, children...)
}

func sequence(name string, children ...bt.Node[State]) bt.Node[State] {
	return bt.NewSequence(name, children...)
}

// defaultTree is assembled top-down; the final fallback reuses the
// offensive attack leaf through a clone.
func defaultTree() bt.Node[State] {
	root := bt.NewSelector[State]("High Level Ordering of Strategies")

	attack := action("attack_weakest_enemy_planet")
	offensive := sequence("Offensive Strategy", check("have_largest_fleet"), attack)
	spread := sequence("Spread Strategy", check("if_neutral_planet_available"), action("spread_to_weakest_neutral_planet"))

	root.SetChildren(offensive, spread, attack.Clone())
	return root
}

// balancedTree rushes when ahead and otherwise expands.
//
// The expansion loop always succeeds, so the Selector never reaches the
// safe attack, the reinforcement or the desperate attack behind it.
func balancedTree() bt.Node[State] {
	return selector("Attack and Defend strategy",
		sequence("Attack when ahead",
			check("have_largest_fleet"),
			action("attack_closest_enemy_planet"),
		),
		bt.NewLoopUntilFail(action("spread_to_weakest_neutral_planet"), 5),
		sequence("attack if enemy is not stronger",
			bt.NewInverter(check("is_enemy_stronger")),
			action("attack_weakest_enemy_planet"),
		),
		bt.NewAlwaysSucceed(action("reinforce_weakest_friendly_planet")),
		action("attack_closest_enemy_planet"),
	)
}

func greedyTree() bt.Node[State] {
	return selector("Greedy expansion",
		sequence("Take the weakest neutral",
			check("if_neutral_planet_available"),
			action("spread_to_weakest_neutral_planet"),
		),
		sequence("Spend idle garrisons",
			check("has_idle_planet"),
			action("attack_weakest_enemy_planet"),
		),
	)
}

func conservativeTree() bt.Node[State] {
	return selector("Conservative play",
		sequence("Attack a weaker enemy",
			bt.NewInverter(check("is_enemy_stronger")),
			action("attack_weakest_enemy_planet"),
		),
		sequence("Expand",
			check("if_neutral_planet_available"),
			action("spread_to_weakest_neutral_planet"),
		),
		action("reinforce_weakest_friendly_planet"),
	)
}

func aggressiveTree() bt.Node[State] {
	return selector("Aggressive play",
		sequence("Attack the closest enemy",
			bt.NewInverter(check("is_enemy_too_far")),
			action("attack_closest_enemy_planet"),
		),
		sequence("Colonize",
			check("if_neutral_planet_available"),
			action("spread_to_weakest_neutral_planet"),
		),
		action("attack_weakest_enemy_planet"),
	)
}
