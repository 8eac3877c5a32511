package planetwars

// Checks are read-only predicates over a State. Each is registered under its
// snake_case name by the strategy package.

// IfNeutralPlanetAvailable reports whether any planet is unowned.
func IfNeutralPlanetAvailable(s *State) bool {
	return len(s.NeutralPlanets()) > 0
}

// HaveLargestFleet reports whether my ships, on planets and in flight,
// outnumber the enemy's.
func HaveLargestFleet(s *State) bool {
	return myPower(s) > enemyPower(s)
}

// HaveMorePlanetsThanEnemy compares planet counts.
func HaveMorePlanetsThanEnemy(s *State) bool {
	return len(s.MyPlanets()) > len(s.EnemyPlanets())
}

// IsEnemyStronger reports whether the enemy's total ships exceed mine.
func IsEnemyStronger(s *State) bool {
	return enemyPower(s) > myPower(s)
}

// IdleThreshold is the garrison above which a planet counts as idle.
const IdleThreshold = 30

// HasIdlePlanet reports whether any of my planets holds more than
// IdleThreshold ships.
func HasIdlePlanet(s *State) bool {
	for _, p := range s.MyPlanets() {
		if p.NumShips > IdleThreshold {
			return true
		}
	}
	return false
}

// FarDistance is the distance beyond which the enemy is considered too far.
const FarDistance = 10

// IsEnemyTooFar reports whether the closest pair of my and enemy planets is
// more than FarDistance apart. It is true when either side has no planets.
func IsEnemyTooFar(s *State) bool {
	mine, theirs := s.MyPlanets(), s.EnemyPlanets()
	if len(mine) == 0 || len(theirs) == 0 {
		return true
	}
	closest := -1
	for _, m := range mine {
		for _, e := range theirs {
			if d := s.Distance(m.ID, e.ID); closest < 0 || d < closest {
				closest = d
			}
		}
	}
	return closest > FarDistance
}

func myPower(s *State) int {
	return sumPlanets(s.MyPlanets()) + sumFleets(s.MyFleets())
}

func enemyPower(s *State) int {
	return sumPlanets(s.EnemyPlanets()) + sumFleets(s.EnemyFleets())
}

func sumPlanets(planets []*Planet) int {
	n := 0
	for _, p := range planets {
		n += p.NumShips
	}
	return n
}

func sumFleets(fleets []*Fleet) int {
	n := 0
	for _, f := range fleets {
		n += f.NumShips
	}
	return n
}
