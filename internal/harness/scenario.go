package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one declarative test run.
// Scenarios mount a component, execute a step list against it, and
// assert on the resulting report transcript and trace store.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ExpectFailure inverts the pass criterion: the run is expected to
	// stop with a step failure.
	ExpectFailure bool `yaml:"expect_failure,omitempty"`

	// Screenshots enables per-step capture for the whole run.
	Screenshots bool `yaml:"screenshots,omitempty"`

	// RunID is an optional fixed run identifier for deterministic tests.
	// If empty, a fresh UUIDv7 is generated per run.
	RunID string `yaml:"run_id,omitempty"`

	// Component is the component tree mounted by render steps.
	Component *ComponentSpec `yaml:"component,omitempty"`

	// Steps is the main step list.
	Steps []StepSpec `yaml:"steps"`

	// Assertions validate the transcript and trace after the run.
	// Supported types: report_contains, report_order, report_count, trace_state
	Assertions []Assertion `yaml:"assertions"`
}

// ComponentSpec describes a mountable component tree.
type ComponentSpec struct {
	// Name is the component's display name.
	Name string `yaml:"name"`

	// Root is the root node of the component tree.
	Root *NodeSpec `yaml:"root"`
}

// NodeSpec describes one element in a component tree.
type NodeSpec struct {
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id,omitempty"`
	Class    string            `yaml:"class,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Value    string            `yaml:"value,omitempty"`
	Disabled bool              `yaml:"disabled,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	OnClick  *ClickSpec        `yaml:"on_click,omitempty"`
	Children []NodeSpec        `yaml:"children,omitempty"`
}

// ClickSpec describes the effect of clicking a node. Effects apply to
// the clicked element itself and take hold at the next UI flush.
type ClickSpec struct {
	// SetText replaces the element's text.
	SetText string `yaml:"set_text,omitempty"`

	// AppendText appends to the element's text.
	AppendText string `yaml:"append_text,omitempty"`

	// SetValue replaces the element's value.
	SetValue string `yaml:"set_value,omitempty"`

	// Disable disables the element.
	Disable bool `yaml:"disable,omitempty"`
}

// StepSpec describes one step in a scenario.
// Which fields apply depends on the step type; unused fields for a type
// are rejected at conversion time by step list validation.
type StepSpec struct {
	// Type is the step type tag (render, expect, click, type, ...).
	Type string `yaml:"type"`

	// Label is an optional human-readable label for reports.
	Label string `yaml:"label,omitempty"`

	// Flush overrides the per-type flush-after default.
	Flush *bool `yaml:"flush,omitempty"`

	// Screenshot overrides the run-level capture setting.
	Screenshot *bool `yaml:"screenshot,omitempty"`

	// Selector targets an element (expect, expect-no, expect-count,
	// click, type).
	Selector string `yaml:"selector,omitempty"`

	// In overrides the search root with a context key holding an element.
	In string `yaml:"in,omitempty"`

	// Text is the expected text (expect) or the text to enter (type).
	// For type steps the value is used verbatim; for expect steps it
	// supports the ctx. and expr: prefixes.
	Text string `yaml:"text,omitempty"`

	// Value is the expected element value (expect).
	Value string `yaml:"value,omitempty"`

	// Pattern is a regular expression the full text must match (expect).
	Pattern string `yaml:"pattern,omitempty"`

	// Attributes are expected attribute values (expect).
	Attributes map[string]string `yaml:"attributes,omitempty"`

	// Count is the expected number of matches (expect-count).
	Count *int `yaml:"count,omitempty"`

	// Ms is the wait duration in milliseconds (wait) or the resolution
	// delay (wait-promise).
	Ms *int `yaml:"ms,omitempty"`

	// Timeout overrides the expect polling deadline, in milliseconds.
	Timeout *int `yaml:"timeout,omitempty"`

	// As binds the step's product to a context key (expect,
	// expect-count, wait-promise).
	As string `yaml:"as,omitempty"`

	// Overwrite replaces the target's value instead of appending (type).
	Overwrite bool `yaml:"overwrite,omitempty"`

	// Resolve rejects the promise with this message when empty and
	// resolves with it otherwise (wait-promise).
	Resolve string `yaml:"resolve,omitempty"`

	// Reject rejects the promise with this message (wait-promise).
	Reject string `yaml:"reject,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Per-type step field checks happen later, when the step list is built
// and validated against the registry.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Component != nil {
		if s.Component.Name == "" {
			return fmt.Errorf("component: name is required")
		}
		if s.Component.Root == nil {
			return fmt.Errorf("component: root is required")
		}
		if err := validateNode("component.root", s.Component.Root); err != nil {
			return err
		}
	}

	for i, spec := range s.Steps {
		if spec.Type == "" {
			return fmt.Errorf("steps[%d]: type is required", i)
		}
		if spec.Type == "render" && s.Component == nil {
			return fmt.Errorf("steps[%d]: render requires a component", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateNode checks a component node and its children.
func validateNode(path string, n *NodeSpec) error {
	if n.Tag == "" {
		return fmt.Errorf("%s: tag is required", path)
	}
	for i := range n.Children {
		if err := validateNode(fmt.Sprintf("%s.children[%d]", path, i), &n.Children[i]); err != nil {
			return err
		}
	}
	return nil
}
