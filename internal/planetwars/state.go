package planetwars

import (
	"math"
)

// Owner identifiers used by the protocol.
const (
	Neutral = 0
	Me      = 1
)

// Planet is a single planet as seen at the start of a turn.
type Planet struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Owner      int     `json:"owner"`
	NumShips   int     `json:"num_ships"`
	GrowthRate int     `json:"growth_rate"`
}

// Fleet is a group of ships in flight between two planets.
type Fleet struct {
	Owner           int `json:"owner"`
	NumShips        int `json:"num_ships"`
	Source          int `json:"source"`
	Destination     int `json:"destination"`
	TotalTripLength int `json:"total_trip_length"`
	TurnsRemaining  int `json:"turns_remaining"`
}

// Order is a command to send ships from one of my planets.
type Order struct {
	Source      int `json:"source"`
	Destination int `json:"destination"`
	NumShips    int `json:"num_ships"`
}

// State is the world for one turn. Actions mutate it in place through
// IssueOrder, so later leaves in the same tick see earlier orders.
//
// State is not safe for concurrent use.
type State struct {
	// Turn is the 1-based turn number assigned by the reader.
	Turn int

	planets []*Planet
	fleets  []*Fleet
	orders  []Order
}

// NewState creates a state over planets and fleets. Planet IDs are
// reassigned to their index so lookups stay positional.
func NewState(planets []Planet, fleets []Fleet) *State {
	s := &State{
		planets: make([]*Planet, len(planets)),
		fleets:  make([]*Fleet, len(fleets)),
	}
	for i := range planets {
		p := planets[i]
		p.ID = i
		s.planets[i] = &p
	}
	for i := range fleets {
		f := fleets[i]
		s.fleets[i] = &f
	}
	return s
}

// Planets returns every planet in ID order.
func (s *State) Planets() []*Planet {
	return append([]*Planet(nil), s.planets...)
}

// MyPlanets returns the planets I own.
func (s *State) MyPlanets() []*Planet {
	return s.planetsWhere(func(p *Planet) bool { return p.Owner == Me })
}

// EnemyPlanets returns the planets owned by any opponent.
func (s *State) EnemyPlanets() []*Planet {
	return s.planetsWhere(func(p *Planet) bool { return p.Owner != Me && p.Owner != Neutral })
}

// NeutralPlanets returns the unowned planets.
func (s *State) NeutralPlanets() []*Planet {
	return s.planetsWhere(func(p *Planet) bool { return p.Owner == Neutral })
}

// NotMyPlanets returns neutral and enemy planets.
func (s *State) NotMyPlanets() []*Planet {
	return s.planetsWhere(func(p *Planet) bool { return p.Owner != Me })
}

// Fleets returns every fleet in flight, including those ordered this turn.
func (s *State) Fleets() []*Fleet {
	return append([]*Fleet(nil), s.fleets...)
}

// MyFleets returns my fleets in flight.
func (s *State) MyFleets() []*Fleet {
	return s.fleetsWhere(func(f *Fleet) bool { return f.Owner == Me })
}

// EnemyFleets returns opponent fleets in flight.
func (s *State) EnemyFleets() []*Fleet {
	return s.fleetsWhere(func(f *Fleet) bool { return f.Owner != Me && f.Owner != Neutral })
}

// Planet returns the planet with the given ID, or nil.
func (s *State) Planet(id int) *Planet {
	if id < 0 || id >= len(s.planets) {
		return nil
	}
	return s.planets[id]
}

// Distance returns the travel time in turns between two planets: the
// Euclidean distance rounded up. Unknown planets are at distance zero.
func (s *State) Distance(source, destination int) int {
	a, b := s.Planet(source), s.Planet(destination)
	if a == nil || b == nil {
		return 0
	}
	dx, dy := a.X-b.X, a.Y-b.Y
	return int(math.Ceil(math.Sqrt(dx*dx + dy*dy)))
}

// IssueOrder sends numShips from source to destination.
//
// It reports whether the order was legal. An illegal order (unknown planet,
// a source I do not own, source equal to destination, or a ship count that
// is not positive or exceeds the source's garrison) changes nothing. A legal
// order removes the ships from the source, puts a fleet in flight, and is
// buffered for Orders.
func (s *State) IssueOrder(source, destination, numShips int) bool {
	src, dst := s.Planet(source), s.Planet(destination)
	if src == nil || dst == nil || source == destination {
		return false
	}
	if src.Owner != Me || numShips <= 0 || numShips > src.NumShips {
		return false
	}

	trip := s.Distance(source, destination)
	src.NumShips -= numShips
	s.fleets = append(s.fleets, &Fleet{
		Owner:           Me,
		NumShips:        numShips,
		Source:          source,
		Destination:     destination,
		TotalTripLength: trip,
		TurnsRemaining:  trip,
	})
	s.orders = append(s.orders, Order{Source: source, Destination: destination, NumShips: numShips})
	return true
}

// Orders returns the orders issued so far this turn, oldest first.
func (s *State) Orders() []Order {
	return append([]Order(nil), s.orders...)
}

// Snapshot is a JSON-friendly copy of a State.
type Snapshot struct {
	Turn    int      `json:"turn"`
	Planets []Planet `json:"planets"`
	Fleets  []Fleet  `json:"fleets"`
}

// Snapshot copies the planets and fleets as they currently stand.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Turn:    s.Turn,
		Planets: make([]Planet, len(s.planets)),
		Fleets:  make([]Fleet, len(s.fleets)),
	}
	for i, p := range s.planets {
		snap.Planets[i] = *p
	}
	for i, f := range s.fleets {
		snap.Fleets[i] = *f
	}
	return snap
}

func (s *State) planetsWhere(keep func(*Planet) bool) []*Planet {
	var out []*Planet
	for _, p := range s.planets {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) fleetsWhere(keep func(*Fleet) bool) []*Fleet {
	var out []*Fleet
	for _, f := range s.fleets {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
