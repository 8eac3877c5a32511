// Package planetwars is the game state that arbor's behavior trees act on.
//
// A State is parsed from one turn of the Planet Wars text protocol, handed to
// a tree's root for a single tick, and then drained of the orders its Action
// leaves issued. The engine package never inspects a State; only the checks
// and behaviors in this package do.
//
// PROTOCOL:
//
// Each turn the host sends one line per planet and per fleet, followed by a
// line starting with "go":
//
//	P <x> <y> <owner> <ships> <growth>
//	F <owner> <ships> <source> <destination> <total_turns> <turns_remaining>
//	go
//
// Planets are numbered from zero in the order they appear. The bot answers
// with zero or more "<source> <destination> <ships>" lines and a final "go".
//
// OWNERSHIP:
//
// Owner 0 is neutral, owner 1 is this bot, any other owner is an enemy.
package planetwars
