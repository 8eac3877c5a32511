package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arbor/internal/strategy"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strategy names a built-in tree. Exactly one of Strategy and Tree is set.
	Strategy string `yaml:"strategy,omitempty"`

	// Tree is a CUE file defining the tree, relative to the scenario file.
	Tree string `yaml:"tree,omitempty"`

	// TreeName selects a tree when the CUE file defines several.
	TreeName string `yaml:"tree_name,omitempty"`

	// Map is one turn of protocol text, without the closing "go".
	Map string `yaml:"map"`

	// ExpectResult, when set, is the expected root result.
	ExpectResult *bool `yaml:"expect_result,omitempty"`

	// Assertions validate the trace and the issued orders.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates the trace or the orders.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Node is a node label such as "Check: has_idle_planet"
	// (node_count, node_absent).
	Node string `yaml:"node,omitempty"`

	// Nodes is the expected first-execution order (node_order).
	Nodes []string `yaml:"nodes,omitempty"`

	// Count is the expected number of occurrences (node_count, order_count).
	Count int `yaml:"count,omitempty"`

	// Order fields; unset fields match anything (order_contains).
	Source      *int `yaml:"source,omitempty"`
	Destination *int `yaml:"destination,omitempty"`
	Ships       *int `yaml:"ships,omitempty"`
}

// Assertion type constants.
const (
	AssertOrderContains = "order_contains"
	AssertOrderCount    = "order_count"
	AssertNodeCount     = "node_count"
	AssertNodeOrder     = "node_order"
	AssertNodeAbsent    = "node_absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Tree path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Tree != "" && !filepath.IsAbs(scenario.Tree) {
		scenario.Tree = filepath.Join(filepath.Dir(path), scenario.Tree)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field checking. It does
// not resolve or validate the result.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Strategy != "" && s.Tree != "":
		return fmt.Errorf("strategy and tree are mutually exclusive")
	case s.Strategy != "":
		if !slices.Contains(strategy.Names(), s.Strategy) {
			return fmt.Errorf("unknown strategy %q (available: %v)", s.Strategy, strategy.Names())
		}
		if s.TreeName != "" {
			return fmt.Errorf("tree_name requires tree")
		}
	case s.Tree != "":
		if _, err := os.Stat(s.Tree); err != nil {
			return fmt.Errorf("tree file not found: %s", s.Tree)
		}
	default:
		return fmt.Errorf("one of strategy or tree is required")
	}

	if strings.TrimSpace(s.Map) == "" {
		return fmt.Errorf("map is required")
	}
	if s.ExpectResult == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect_result or assertions is required")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOrderContains:
		if a.Source == nil && a.Destination == nil && a.Ships == nil {
			return fmt.Errorf("assertions[%d]: order_contains needs source, destination or ships", index)
		}
	case AssertOrderCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for order_count", index)
		}
	case AssertNodeCount:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for node_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for node_count", index)
		}
	case AssertNodeOrder:
		if len(a.Nodes) == 0 {
			return fmt.Errorf("assertions[%d]: nodes list is required for node_order", index)
		}
	case AssertNodeAbsent:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for node_absent", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	slices.Sort(files)
	return files, err
}
