package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/arbor/internal/ir"
)

// Snapshot renders a result as canonical JSON for golden comparison,
// followed by a newline. Errors and Pass are not part of the snapshot.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make(ir.IRArray, len(result.Trace))
	for i, ev := range result.Trace {
		obj := ir.IRObject{
			"seq":   ir.IRInt(ev.Seq),
			"phase": ir.IRString(ev.Phase),
			"node":  ir.IRString(ev.Node),
		}
		if ev.Result != "" {
			obj["result"] = ir.IRString(ev.Result)
		}
		trace[i] = obj
	}

	orders := make(ir.IRArray, len(result.Orders))
	for i, o := range result.Orders {
		orders[i] = ir.IRObject{
			"source":      ir.IRInt(o.Source),
			"destination": ir.IRInt(o.Destination),
			"num_ships":   ir.IRInt(o.NumShips),
		}
	}

	data, err := ir.MarshalCanonical(ir.IRObject{
		"scenario_name": ir.IRString(scenarioName),
		"result":        ir.IRString(result.Result),
		"trace":         trace,
		"orders":        orders,
	})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
