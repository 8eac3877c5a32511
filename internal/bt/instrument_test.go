package bt

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type event struct {
	phase string
	label string
	ok    bool
}

func recordingHooks(events *[]event) Hooks[*blackboard] {
	return Hooks[*blackboard]{
		OnEnter: func(n Node[*blackboard], _ *blackboard) {
			*events = append(*events, event{"enter", n.Label(), false})
		},
		OnLeave: func(n Node[*blackboard], _ *blackboard, ok bool) {
			*events = append(*events, event{"leave", n.Label(), ok})
		},
	}
}

func TestInstrument_ReportsEnterAndLeave(t *testing.T) {
	var events []event
	root := NewSequence[*blackboard]("q", predicate("p", true), fixed("a", false))

	ok := Instrument[*blackboard](root, recordingHooks(&events)).Execute(&blackboard{})

	assert.False(t, ok)
	assert.Equal(t, []event{
		{"enter", "Sequence: q", false},
		{"enter", "Check: p", false},
		{"leave", "Check: p", true},
		{"enter", "Action: a", false},
		{"leave", "Action: a", false},
		{"leave", "Sequence: q", false},
	}, events)
}

func TestInstrument_TransparentToRender(t *testing.T) {
	root := NewSelector[*blackboard]("root",
		NewLoopUntilFail[*blackboard](fixed("a", true), 2),
		NewInverter[*blackboard](predicate("p", true)),
	)

	instrumented := Instrument[*blackboard](root, Hooks[*blackboard]{})

	assert.Equal(t, Render[*blackboard](root), Render(instrumented))
	assert.Equal(t, KindSelector, instrumented.Kind())
	assert.Equal(t, "root", instrumented.Name())
	assert.NoError(t, Validate(instrumented))
}

func TestInstrument_DoesNotTouchOriginal(t *testing.T) {
	var events []event
	root := NewSequence[*blackboard]("q", fixed("a", true))

	Instrument[*blackboard](root, recordingHooks(&events))
	root.Execute(&blackboard{})

	assert.Empty(t, events)
}

func TestChain_OrderOfCallbacks(t *testing.T) {
	var order []string
	mk := func(name string) Hooks[*blackboard] {
		return Hooks[*blackboard]{
			OnEnter: func(Node[*blackboard], *blackboard) { order = append(order, "enter "+name) },
			OnLeave: func(Node[*blackboard], *blackboard, bool) { order = append(order, "leave "+name) },
		}
	}

	hooks := Chain(mk("outer"), mk("inner"), Hooks[*blackboard]{})
	Instrument[*blackboard](fixed("a", true), hooks).Execute(&blackboard{})

	assert.Equal(t, []string{"enter outer", "enter inner", "leave inner", "leave outer"}, order)
}

func TestLogHooks_WritesDebugLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Instrument[*blackboard](fixed("attack", false), LogHooks[*blackboard](logger)).Execute(&blackboard{})

	out := buf.String()
	assert.Contains(t, out, `msg=executing node="Action: attack"`)
	assert.Contains(t, out, `msg="node result" node="Action: attack" result=Failure`)
}
