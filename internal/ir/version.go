package ir

// Version constants recorded with every session.
const (
	// SchemaVersion is the tree definition schema version.
	SchemaVersion = "1"

	// EngineVersion is the arbor engine version.
	EngineVersion = "0.1.0"
)
