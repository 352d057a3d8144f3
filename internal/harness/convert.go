package harness

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/expr-lang/expr"

	"github.com/roach88/stepwright/internal/memdom"
	"github.com/roach88/stepwright/internal/step"
	"github.com/roach88/stepwright/internal/ui"
)

// Dynamic value prefixes recognized in scenario step fields.
const (
	refPrefix  = "ctx."
	exprPrefix = "expr:"
)

// BuildComponent converts a component spec into a mountable component.
func BuildComponent(spec *ComponentSpec) *memdom.Component {
	if spec == nil || spec.Root == nil {
		return nil
	}
	return &memdom.Component{
		Name: spec.Name,
		Root: buildNode(spec.Root),
	}
}

func buildNode(spec *NodeSpec) *memdom.Node {
	n := &memdom.Node{
		Tag:      spec.Tag,
		ID:       spec.ID,
		Class:    spec.Class,
		Text:     spec.Text,
		Value:    spec.Value,
		Disabled: spec.Disabled,
		Attrs:    spec.Attrs,
		OnClick:  buildClick(spec.OnClick),
	}
	for i := range spec.Children {
		n.Children = append(n.Children, buildNode(&spec.Children[i]))
	}
	return n
}

// buildClick translates a click spec into a handler mutating the clicked
// element. Effects surface at the next flush, same as any click handler.
func buildClick(spec *ClickSpec) func(*memdom.Elem) {
	if spec == nil {
		return nil
	}
	c := *spec
	return func(self *memdom.Elem) {
		if c.SetText != "" {
			self.SetText(c.SetText)
		}
		if c.AppendText != "" {
			self.SetText(self.Text() + c.AppendText)
		}
		if c.SetValue != "" {
			self.SetValue(c.SetValue)
		}
		if c.Disable {
			self.SetDisabled(true)
		}
	}
}

// BuildSteps converts a scenario's step specs into an executable list.
// Render steps mount the scenario's component.
func BuildSteps(scenario *Scenario) ([]step.Step, error) {
	component := BuildComponent(scenario.Component)

	steps := make([]step.Step, 0, len(scenario.Steps))
	for i, spec := range scenario.Steps {
		s, err := buildStep(i, spec, component)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func buildStep(index int, spec StepSpec, component *memdom.Component) (step.Step, error) {
	fields := step.Fields{}
	addString := func(key, raw string) error {
		if raw == "" {
			return nil
		}
		v, err := dynamicValue(raw)
		if err != nil {
			return fmt.Errorf("steps[%d].%s: %w", index, key, err)
		}
		fields[key] = v
		return nil
	}

	if err := addString("selector", spec.Selector); err != nil {
		return nil, err
	}
	if spec.In != "" {
		fields["in"] = step.Ref(strings.TrimPrefix(spec.In, refPrefix))
	}
	if spec.As != "" {
		fields["as"] = spec.As
	}
	if spec.Timeout != nil {
		fields["timeout"] = *spec.Timeout
	}

	switch spec.Type {
	case step.TypeRender:
		fields["component"] = component

	case step.TypeExpect, step.TypeExpectNo:
		if spec.Pattern != "" {
			re, err := regexp.Compile(spec.Pattern)
			if err != nil {
				return nil, fmt.Errorf("steps[%d].pattern: %w", index, err)
			}
			fields["text"] = re
		} else if err := addString("text", spec.Text); err != nil {
			return nil, err
		}
		if err := addString("value", spec.Value); err != nil {
			return nil, err
		}
		if len(spec.Attributes) > 0 {
			fields["attributes"] = spec.Attributes
		}

	case step.TypeExpectCount:
		if spec.Count != nil {
			fields["count"] = *spec.Count
		}

	case step.TypeClick:
		// Selector handled above.

	case step.TypeInput:
		// Typed text is always literal, never resolved.
		fields["text"] = spec.Text
		if spec.Overwrite {
			fields["overwrite"] = true
		}

	case step.TypeWait:
		if spec.Ms != nil {
			fields["ms"] = *spec.Ms
		}

	case step.TypeAwait:
		fields["promise"] = buildPromise(spec)

	default:
		return nil, fmt.Errorf("steps[%d]: unknown step type %q", index, spec.Type)
	}

	return step.Decl{
		Type:   spec.Type,
		Label:  spec.Label,
		Fields: fields,
		Flags: step.Flags{
			FlushAfter: spec.Flush,
			Screenshot: spec.Screenshot,
		},
	}, nil
}

// buildPromise constructs the awaitable for a wait-promise step: an
// optional delay, then resolution with the configured value or rejection
// with the configured message.
func buildPromise(spec StepSpec) ui.Awaitable {
	delay := time.Duration(0)
	if spec.Ms != nil {
		delay = time.Duration(*spec.Ms) * time.Millisecond
	}
	resolve := spec.Resolve
	reject := spec.Reject

	return ui.AwaitFunc(func(ctx context.Context) (any, error) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if reject != "" {
			return nil, errors.New(reject)
		}
		if resolve != "" {
			return resolve, nil
		}
		return true, nil
	})
}

// dynamicValue interprets the ctx. and expr: prefixes, returning a lazy
// value for the executor to resolve. Plain strings pass through.
func dynamicValue(raw string) (any, error) {
	if key, found := strings.CutPrefix(raw, refPrefix); found {
		return step.Ref(key), nil
	}
	if src, found := strings.CutPrefix(raw, exprPrefix); found {
		program, err := expr.Compile(src, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", src, err)
		}
		resolver := step.Resolver(func(ctx step.Context) (any, error) {
			return expr.Run(program, map[string]any(ctx))
		})
		return resolver, nil
	}
	return raw, nil
}
