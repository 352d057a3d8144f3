package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/stepwright/internal/memdom"
	"github.com/roach88/stepwright/internal/runner"
	"github.com/roach88/stepwright/internal/step"
	"github.com/roach88/stepwright/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: the run ended the way the
	// scenario expected and every assertion held.
	Pass bool `json:"pass"`

	// RunID identifies the run in the trace store.
	RunID string `json:"run_id"`

	// Transcript contains every report message in emission order.
	Transcript []string `json:"transcript"`

	// Errors contains assertion and outcome error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Frames are the captured screenshots, in capture order.
	Frames []memdom.Frame `json:"frames,omitempty"`
}

// recordingSink keeps the transcript in memory while forwarding each
// report to the trace store.
type recordingSink struct {
	mu       sync.Mutex
	messages []string
	next     runner.Sink
}

func (s *recordingSink) Report(passed bool, message string) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	s.next.Report(passed, message)
}

func (s *recordingSink) transcript() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory document and a fresh
// in-memory trace store for isolation.
//
// Execution flow:
// 1. Build the component tree and step list from the scenario
// 2. Open an in-memory trace store and register the run
// 3. Execute the step list through the runner
// 4. Evaluate assertions against the transcript and trace store
// 5. Return result with pass/fail, transcript, and errors
func Run(scenario *Scenario) (*Result, error) {
	st, err := trace.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory trace store: %w", err)
	}
	defer st.Close()

	return RunWith(scenario, st)
}

// RunWith executes a scenario against a caller-provided trace store.
// Used by the CLI to persist reports across runs.
func RunWith(scenario *Scenario, st *trace.Store) (*Result, error) {
	steps, err := BuildSteps(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build steps: %w", err)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	runID := scenario.RunID
	if runID == "" {
		runID = trace.NewRunID()
	}
	if err := st.BeginRun(ctx, runID, scenario.Name); err != nil {
		return nil, err
	}

	sink := &recordingSink{next: trace.NewSink(st, runID, logger)}
	doc := memdom.NewDocument()
	recorder := memdom.NewRecorder()
	doneCalled := false

	runErr := runner.RunSteps(ctx, runner.Options{
		Screenshots:    scenario.Screenshots,
		InitialContext: step.Context{},
		Done:           func() { doneCalled = true },
		Report:         sink,
		Toolkit:        memdom.NewToolkit(doc),
		DOM:            doc,
		Capture:        recorder,
		HUD:            recorder,
		Logger:         logger,
	}, steps...)

	result := &Result{
		Pass:       true,
		RunID:      runID,
		Transcript: sink.transcript(),
		Frames:     recorder.Captured(),
	}

	addError := func(msg string) {
		result.Errors = append(result.Errors, msg)
		result.Pass = false
	}

	if !doneCalled {
		addError("done callback was not invoked")
	}

	switch {
	case scenario.ExpectFailure && runErr == nil:
		addError("expected a step failure, but the run passed")
	case scenario.ExpectFailure && !runner.IsStepFailure(runErr):
		addError(fmt.Sprintf("expected a step failure, got: %v", runErr))
	case !scenario.ExpectFailure && runErr != nil:
		addError(fmt.Sprintf("run failed: %v", runErr))
	}

	reports, err := st.Reports(ctx, runID)
	if err != nil {
		return nil, err
	}
	actx := &AssertionContext{Ctx: ctx, Store: st, Reports: reports}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		addError(msg)
	}

	return result, nil
}
