package testutil

// DefaultSessionID is used by FixedSessionGenerator when given no ID.
const DefaultSessionID = "test-session-default"

// FixedSessionGenerator returns the same session ID on every call, so two
// runs of the same game write byte-identical logs.
//
// Unlike engine.FixedGenerator, which hands out IDs in sequence, it never
// runs out. It is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id, or for
// DefaultSessionID when id is empty.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
// Implements engine.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
