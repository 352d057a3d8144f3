package runner

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stepwright/internal/memdom"
	"github.com/roach88/stepwright/internal/step"
)

// recordingSink collects report lines for assertions.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Report(passed bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, message)
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

type fixture struct {
	doc      *memdom.Document
	tk       *memdom.Toolkit
	recorder *memdom.Recorder
	sink     *recordingSink
	done     int
}

func newFixture() *fixture {
	doc := memdom.NewDocument()
	return &fixture{
		doc:      doc,
		tk:       memdom.NewToolkit(doc),
		recorder: memdom.NewRecorder(),
		sink:     &recordingSink{},
	}
}

func (f *fixture) options() Options {
	return Options{
		InitialContext: step.Context{},
		Done:           func() { f.done++ },
		Report:         f.sink,
		Toolkit:        f.tk,
		DOM:            f.doc,
		Capture:        f.recorder,
		HUD:            f.recorder,
	}
}

func component() *memdom.Component {
	return &memdom.Component{
		Name: "Panel",
		Root: &memdom.Node{
			Tag: "div",
			Children: []*memdom.Node{
				{Tag: "span", ID: "msg", Text: "ready"},
				{Tag: "button", ID: "go", Text: "Go", OnClick: func(self *memdom.Elem) {
					self.SetText("Going")
				}},
			},
		},
	}
}

func TestRunSteps_HappyPath(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()).WithLabel("mount panel"),
		step.Expect("#msg").WithField("text", "ready"),
		step.Click("#go"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"[OK] Step mount panel",
		"[OK] Step expect",
		"[OK] Step click",
		"[OK] Step cleanup",
	}, f.sink.all())
	assert.Equal(t, 1, f.done)
	assert.Equal(t, 0, f.doc.ContainerCount(), "cleanup must remove the engine container")
}

func TestRunSteps_FailureShortCircuits(t *testing.T) {
	f := newFixture()

	ran := false
	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Expect("#absent").WithField("timeout", 60),
		step.Update("never", func(ctx step.Context) step.Context {
			ran = true
			return ctx
		}),
	)

	require.Error(t, err)
	var sf *StepFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, 2, sf.Index)
	assert.Equal(t, "expect", sf.Label)
	assert.False(t, ran, "steps after the failure must not run")
	assert.Equal(t, 1, f.done)
}

func TestRunSteps_CleanupRunsAfterMidListFailure(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Expect("#absent").WithField("timeout", 60),
	)
	require.Error(t, err)

	assert.Equal(t, 0, f.doc.ContainerCount(), "engine container must be destroyed on the failure path")

	lines := f.sink.all()
	require.NotEmpty(t, lines)
	assert.Equal(t, "[OK] Step cleanup", lines[len(lines)-1])
}

func TestRunSteps_FailureKeepsSuppliedContainer(t *testing.T) {
	f := newFixture()

	supplied, err := f.doc.CreateContainer("caller-root")
	require.NoError(t, err)

	err = RunSteps(context.Background(), f.options(),
		step.RenderInto(component(), supplied),
		step.Expect("#absent").WithField("timeout", 60),
	)
	require.Error(t, err)
	assert.True(t, f.doc.HasContainer("caller-root"))
}

func TestRunSteps_FailMessageFormat(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Click("#absent"),
	)
	require.Error(t, err)

	var failLine string
	for _, line := range f.sink.all() {
		if strings.HasPrefix(line, "[FAIL]") {
			failLine = line
			break
		}
	}
	require.NotEmpty(t, failLine)
	assert.Contains(t, failLine, "[FAIL] click: no element matches selector")
	assert.Contains(t, failLine, " \n selector=#absent")
}

func TestRunSteps_GroupSplicedInline(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Group{
			step.Expect("#msg"),
			step.Click("#go"),
		},
	)
	require.NoError(t, err)
	assert.Len(t, f.sink.all(), 4)
}

func TestRunSteps_NestedGroupRejectedBeforeExecution(t *testing.T) {
	f := newFixture()

	executed := false
	err := RunSteps(context.Background(), f.options(),
		step.Update("mark", func(ctx step.Context) step.Context {
			executed = true
			return ctx
		}),
		step.Group{step.Group{step.Expect("#msg")}},
	)

	require.Error(t, err)
	assert.True(t, step.IsUsageError(err))
	assert.False(t, executed, "an invalid list must not execute at all")

	lines := f.sink.all()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "[FAIL]"))
	assert.Equal(t, 1, f.done)
}

func TestRunSteps_MissingDoneIsUsageError(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.Done = nil

	err := RunSteps(context.Background(), opts, step.Wait(time.Millisecond))
	require.Error(t, err)
	assert.True(t, step.IsUsageError(err))
}

func TestRunSteps_MissingInitialContextIsUsageError(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.InitialContext = nil

	err := RunSteps(context.Background(), opts, step.Wait(time.Millisecond))
	require.Error(t, err)
	assert.True(t, step.IsUsageError(err))
	assert.Equal(t, 1, f.done, "done fires even on the options-error path")
}

func TestRunSteps_ScreenshotsDemandCapture(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.Screenshots = true
	opts.Capture = nil

	err := RunSteps(context.Background(), opts, step.Wait(time.Millisecond))
	require.Error(t, err)
	assert.True(t, step.IsUsageError(err))
}

func TestRunSteps_DoneExactlyOnceOnEveryPath(t *testing.T) {
	tests := []struct {
		name  string
		steps []step.Step
	}{
		{"success", []step.Step{step.Wait(time.Millisecond)}},
		{"failure", []step.Step{step.Check("fail", func(step.Context) bool { return false })}},
		{"invalid", []step.Step{step.Decl{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_ = RunSteps(context.Background(), f.options(), tt.steps...)
			assert.Equal(t, 1, f.done)
		})
	}
}

func TestRunSteps_ContextThreadsThroughSequence(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.InitialContext = step.Context{"n": 1}

	var final int
	err := RunSteps(context.Background(), opts,
		step.Update("double", func(ctx step.Context) step.Context {
			return ctx.With("n", ctx["n"].(int)*2)
		}),
		step.Update("add", func(ctx step.Context) step.Context {
			return ctx.With("n", ctx["n"].(int)+3)
		}),
		step.Check("snapshot", func(ctx step.Context) bool {
			final = ctx["n"].(int)
			return true
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 5, final)
}

func TestRunSteps_FlushAppliesClickEffects(t *testing.T) {
	f := newFixture()

	// The click defaults to FlushAfter, so the expect that follows sees
	// the handler's effect without an explicit wait.
	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Click("#go"),
		step.Expect("#go").WithField("text", "Going").WithField("timeout", 60),
	)
	assert.NoError(t, err)
}

func TestRunSteps_FlushSuppressedLeavesEffectPending(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Click("#go").WithFlags(step.Flags{FlushAfter: step.Bool(false)}),
		step.Expect("#go").WithField("text", "Going").WithField("timeout", 60),
	)
	require.Error(t, err)
	assert.True(t, IsStepFailure(err))
}

func TestRunSteps_RunLevelScreenshots(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.Screenshots = true

	err := RunSteps(context.Background(), opts,
		step.Render(component()).WithLabel("mount"),
		step.Expect("#msg"),
	)
	require.NoError(t, err)

	frames := f.recorder.Captured()
	// One frame per step, cleanup included.
	require.Len(t, frames, 3)
	assert.Equal(t, memdom.Frame{Index: 1, Total: 3, Label: "mount", Overlay: true}, frames[0])
	assert.Equal(t, "expect", frames[1].Label)
	assert.Equal(t, "cleanup", frames[2].Label)
}

func TestRunSteps_PerStepScreenshotOverride(t *testing.T) {
	f := newFixture()

	err := RunSteps(context.Background(), f.options(),
		step.Render(component()),
		step.Expect("#msg").WithFlags(step.Flags{Screenshot: step.Bool(true)}),
	)
	require.NoError(t, err)

	frames := f.recorder.Captured()
	require.Len(t, frames, 1)
	assert.Equal(t, "expect", frames[0].Label)
}

func TestRunSteps_FailureFrameMarked(t *testing.T) {
	f := newFixture()
	opts := f.options()
	opts.Screenshots = true

	err := RunSteps(context.Background(), opts,
		step.Render(component()),
		step.Expect("#absent").WithField("timeout", 60),
	)
	require.Error(t, err)

	frames := f.recorder.Captured()
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	assert.True(t, last.Failed)
	assert.Equal(t, "expect", last.Label)
}

func TestOkMessage_UsesLabelOrType(t *testing.T) {
	assert.Equal(t, "[OK] Step mount panel", okMessage(step.Decl{Type: step.TypeRender, Label: "mount panel"}))
	assert.Equal(t, "[OK] Step render", okMessage(step.Decl{Type: step.TypeRender}))
}

func TestFailMessage_SortsDetails(t *testing.T) {
	msg := failMessage("boom", map[string]any{"b": 2, "a": 1})
	assert.Equal(t, "[FAIL] boom \n a=1 b=2", msg)

	assert.Equal(t, "[FAIL] boom", failMessage("boom", nil))
}
