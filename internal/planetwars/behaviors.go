package planetwars

// Behaviors issue at most one order and report whether they did. All of them
// send half of the source planet's garrison.

// Minimum garrisons for a planet to act as a source.
const (
	MinSpreadShips    = 50
	MinReinforceShips = 10
	MinAttackShips    = 10
)

// AttackWeakestEnemyPlanet sends half of my strongest planet's ships to the
// weakest enemy planet. It does nothing while any of my fleets is in flight.
func AttackWeakestEnemyPlanet(s *State) bool {
	if len(s.MyFleets()) > 0 {
		return false
	}
	source := strongest(s.MyPlanets())
	target := weakest(s.EnemyPlanets())
	if source == nil || target == nil {
		return false
	}
	return s.IssueOrder(source.ID, target.ID, source.NumShips/2)
}

// SpreadToWeakestNeutralPlanet sends half of my strongest planet's ships to
// the weakest neutral planet, provided that planet holds at least
// MinSpreadShips.
func SpreadToWeakestNeutralPlanet(s *State) bool {
	source := strongest(s.MyPlanets())
	target := weakest(s.NeutralPlanets())
	if source == nil || target == nil {
		return false
	}
	if source.NumShips < MinSpreadShips {
		return false
	}
	return s.IssueOrder(source.ID, target.ID, source.NumShips/2)
}

// ReinforceWeakestFriendlyPlanet moves half of my strongest planet's ships to
// my weakest planet.
func ReinforceWeakestFriendlyPlanet(s *State) bool {
	mine := s.MyPlanets()
	if len(mine) < 2 {
		return false
	}
	source, target := strongest(mine), weakest(mine)
	if source.ID == target.ID || source.NumShips < MinReinforceShips {
		return false
	}
	return s.IssueOrder(source.ID, target.ID, source.NumShips/2)
}

// AttackClosestEnemyPlanet sends half of my strongest planet's ships to the
// enemy planet closest to it.
func AttackClosestEnemyPlanet(s *State) bool {
	source := strongest(s.MyPlanets())
	enemies := s.EnemyPlanets()
	if source == nil || len(enemies) == 0 {
		return false
	}

	target := enemies[0]
	best := s.Distance(source.ID, target.ID)
	for _, e := range enemies[1:] {
		if d := s.Distance(source.ID, e.ID); d < best {
			target, best = e, d
		}
	}

	if source.NumShips < MinAttackShips {
		return false
	}
	return s.IssueOrder(source.ID, target.ID, source.NumShips/2)
}

// strongest returns the planet with the most ships; ties go to the lowest ID.
func strongest(planets []*Planet) *Planet {
	var best *Planet
	for _, p := range planets {
		if best == nil || p.NumShips > best.NumShips {
			best = p
		}
	}
	return best
}

// weakest returns the planet with the fewest ships; ties go to the lowest ID.
func weakest(planets []*Planet) *Planet {
	var best *Planet
	for _, p := range planets {
		if best == nil || p.NumShips < best.NumShips {
			best = p
		}
	}
	return best
}
