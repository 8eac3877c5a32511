package ir

// Node types accepted in tree definitions.
const (
	NodeSelector      = "selector"
	NodeSequence      = "sequence"
	NodeCheck         = "check"
	NodeAction        = "action"
	NodeInverter      = "inverter"
	NodeAlwaysSucceed = "always_succeed"
	NodeLoopUntilFail = "loop_until_fail"
)

// ValidNodeTypes defines allowed node types.
var ValidNodeTypes = map[string]bool{
	NodeSelector:      true,
	NodeSequence:      true,
	NodeCheck:         true,
	NodeAction:        true,
	NodeInverter:      true,
	NodeAlwaysSucceed: true,
	NodeLoopUntilFail: true,
}

// TreeDef is a compiled, not yet bound, tree definition.
type TreeDef struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Root        NodeDef `json:"root"`
}

// NodeDef is one node of a tree definition. Which fields apply depends on
// Type: Fn and Label for leaves, Name and Children for composites, Child for
// decorators, MaxIterations for loop_until_fail only.
type NodeDef struct {
	Type          string    `json:"type"`
	Name          string    `json:"name,omitempty"`
	Fn            string    `json:"fn,omitempty"`
	Label         string    `json:"label,omitempty"`
	Children      []NodeDef `json:"children,omitempty"`
	Child         *NodeDef  `json:"child,omitempty"`
	MaxIterations *int64    `json:"max_iterations,omitempty"`

	// Line is the source line of the definition, when known.
	Line int `json:"-"`
}

// ToIR converts the definition to a canonical value for hashing.
// Source positions are excluded.
func (d TreeDef) ToIR() IRObject {
	obj := IRObject{
		"name": IRString(d.Name),
		"root": d.Root.ToIR(),
	}
	if d.Description != "" {
		obj["description"] = IRString(d.Description)
	}
	return obj
}

// ToIR converts the node and its descendants to a canonical value.
func (n NodeDef) ToIR() IRObject {
	obj := IRObject{"type": IRString(n.Type)}
	if n.Name != "" {
		obj["name"] = IRString(n.Name)
	}
	if n.Fn != "" {
		obj["fn"] = IRString(n.Fn)
	}
	if n.Label != "" {
		obj["label"] = IRString(n.Label)
	}
	if n.Children != nil {
		children := make(IRArray, len(n.Children))
		for i, c := range n.Children {
			children[i] = c.ToIR()
		}
		obj["children"] = children
	}
	if n.Child != nil {
		obj["child"] = n.Child.ToIR()
	}
	if n.MaxIterations != nil {
		obj["max_iterations"] = IRInt(*n.MaxIterations)
	}
	return obj
}

// Session is one run of a bot against a host.
type Session struct {
	ID            string `json:"id"` // UUIDv7, time-ordered
	Strategy      string `json:"strategy"`
	TreeHash      string `json:"tree_hash"`
	EngineVersion string `json:"engine_version"`
}

// Turn records one decision cycle.
type Turn struct {
	ID        string   `json:"id"` // Content-addressed hash
	SessionID string   `json:"session_id"`
	Number    int64    `json:"number"` // Turn number reported by the reader
	Seq       int64    `json:"seq"`    // Logical clock
	Result    string   `json:"result"` // Root outcome, "Success" or "Failure"
	Trace     []string `json:"trace"`  // Labels of executed nodes, in execution order
	Snapshot  string   `json:"snapshot"`
}

// OrderRecord is one order issued during a turn.
type OrderRecord struct {
	TurnID      string `json:"turn_id"`
	Index       int64  `json:"index"` // Position within the turn
	Source      int64  `json:"source"`
	Destination int64  `json:"destination"`
	NumShips    int64  `json:"num_ships"`
}

// ToIR converts the order to a canonical value.
func (o OrderRecord) ToIR() IRObject {
	return IRObject{
		"source":      IRInt(o.Source),
		"destination": IRInt(o.Destination),
		"num_ships":   IRInt(o.NumShips),
	}
}
