package harness

import "github.com/roach88/arbor/internal/planetwars"

// Trace phases.
const (
	PhaseEnter = "enter"
	PhaseLeave = "leave"
)

// TraceEvent is one node entry or exit during the tick.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Phase  string `json:"phase"`
	Node   string `json:"node"`
	Result string `json:"result,omitempty"` // leave events only
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the root result and all assertions matched.
	Pass bool `json:"pass"`

	// Result is the root outcome, "Success" or "Failure".
	Result string `json:"result"`

	// Trace lists node entries and exits in execution order.
	Trace []TraceEvent `json:"trace"`

	// Orders are the orders the tick issued, as recorded by the store.
	Orders []planetwars.Order `json:"orders"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Orders: []planetwars.Order{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(phase, node, result string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Phase:  phase,
		Node:   node,
		Result: result,
	})
}

// Executed returns the labels of entered nodes in execution order.
func (r *Result) Executed() []string {
	var labels []string
	for _, ev := range r.Trace {
		if ev.Phase == PhaseEnter {
			labels = append(labels, ev.Node)
		}
	}
	return labels
}
