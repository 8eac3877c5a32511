package engine

// Clock numbers the turns of one session in the game log.
//
// Peek names the seq the next recorded turn will carry, and Commit claims
// it once the turn is stored. A turn that fails to store leaves the
// numbering untouched, so the log's seqs stay gapless for verify.
//
// Clock belongs to the Run loop and is not safe for concurrent use.
type Clock struct {
	last int64
}

// NewClock creates a clock whose first turn is seq 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose first turn is last+1.
func NewClockAt(last int64) *Clock {
	return &Clock{last: last}
}

// Peek returns the seq of the next turn without claiming it.
func (c *Clock) Peek() int64 {
	return c.last + 1
}

// Commit claims the peeked seq.
func (c *Clock) Commit() {
	c.last++
}

// Last returns the seq of the most recently stored turn, 0 if none.
func (c *Clock) Last() int64 {
	return c.last
}
