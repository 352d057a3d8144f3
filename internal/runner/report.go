package runner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/stepwright/internal/step"
)

// Sink receives one report line per executed step, pass or fail.
// This is the integration point with the outer assertion framework.
type Sink interface {
	Report(passed bool, message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(passed bool, message string)

// Report implements Sink.
func (f SinkFunc) Report(passed bool, message string) {
	f(passed, message)
}

type noopSink struct{}

func (noopSink) Report(bool, string) {}

// okMessage formats the report line for a passing step.
func okMessage(s step.Step) string {
	return "[OK] Step " + step.LabelOf(s)
}

// failMessage formats the report line for a failing step. Detail keys are
// sorted so identical failures produce identical lines.
func failMessage(msg string, details map[string]any) string {
	if len(details) == 0 {
		return "[FAIL] " + msg
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return "[FAIL] " + msg + " \n " + strings.Join(parts, " ")
}
