package runner

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/stepwright/internal/step"
)

// RunSteps executes the step sequence against the configured capability
// surfaces.
//
// Steps are flattened one level, the synthetic cleanup step is appended,
// and the whole list is validated before anything executes. The return
// value mirrors what the sink and done callback already delivered: nil on
// success, *StepFailure when a step failed, *step.UsageError when the
// options or the list were malformed.
//
// Done is invoked exactly once on every path. The one exception is a
// missing Done itself: with no callback registered the usage error is
// only returned, so the surrounding harness is not left hanging.
func RunSteps(ctx context.Context, opts Options, steps ...step.Step) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sink := opts.Report
	if sink == nil {
		sink = noopSink{}
	}

	var once sync.Once
	finish := func() {
		if opts.Done != nil {
			once.Do(opts.Done)
		}
	}
	defer finish()

	if err := opts.validate(); err != nil {
		sink.Report(false, failMessage(err.Error(), nil))
		return err
	}

	list := append(flatten(steps), step.CleanupStep())
	reg := opts.registry()
	if err := reg.ValidateList(list); err != nil {
		sink.Report(false, failMessage(err.Error(), nil))
		return err
	}

	r := &runner{
		opts:   opts,
		reg:    reg,
		sink:   sink,
		logger: logger,
		env: &step.Env{
			Ctx:     ctx,
			Toolkit: opts.Toolkit,
			DOM:     opts.DOM,
			Logger:  logger,
		},
	}
	return r.run(ctx, list)
}

// flatten splices Group members inline, one level deep. A Group nested
// inside a Group survives flattening and is rejected by validation.
func flatten(steps []step.Step) []step.Step {
	out := make([]step.Step, 0, len(steps))
	for _, s := range steps {
		if g, ok := s.(step.Group); ok {
			out = append(out, g...)
			continue
		}
		out = append(out, s)
	}
	return out
}

type runner struct {
	opts   Options
	reg    *step.Registry
	sink   Sink
	logger *slog.Logger
	env    *step.Env
}

// outcome is the settled result of one step execution.
type outcome struct {
	ctx     step.Context
	msg     string
	details map[string]any
	failed  bool
}

func (r *runner) run(ctx context.Context, list []step.Step) error {
	cur := r.opts.InitialContext
	total := len(list)

	for i := 0; i < total; i++ {
		s := list[i]
		label := step.LabelOf(s)
		flags := r.reg.EffectiveFlags(s)

		r.logger.Debug("executing step", "index", i+1, "total", total, "label", label)
		out := r.execute(s, cur)

		if out.failed {
			r.sink.Report(false, failMessage(out.msg, out.details))
			r.logger.Info("step failed", "index", i+1, "label", label, "error", out.msg)

			if r.captureWanted(flags) {
				r.capture(ctx, i+1, total, label, true)
			}

			// The terminal cleanup still runs after a mid-list failure:
			// the engine destroys the container it created, exactly once,
			// regardless of which step failed.
			if i != total-1 {
				r.runCleanup(list[total-1], cur)
			}

			return &StepFailure{
				Index:   i + 1,
				Label:   label,
				Message: out.msg,
				Details: out.details,
			}
		}

		cur = out.ctx
		r.sink.Report(true, okMessage(s))
		r.logger.Debug("step passed", "index", i+1, "label", label)

		if flags.FlushAfter != nil && *flags.FlushAfter {
			r.awaitFlush(ctx)
		}
		if r.captureWanted(flags) {
			r.capture(ctx, i+1, total, label, false)
		}
	}

	return nil
}

// execute runs one step and blocks until its outcome callback fires.
// The registry guarantees exactly one callback, so exactly one value
// arrives on the channel.
func (r *runner) execute(s step.Step, cur step.Context) outcome {
	ch := make(chan outcome, 1)
	r.reg.Execute(r.env, s, cur,
		func(next step.Context) {
			ch <- outcome{ctx: next}
		},
		func(msg string, details map[string]any) {
			ch <- outcome{failed: true, msg: msg, details: details}
		},
	)
	return <-ch
}

// runCleanup executes the terminal cleanup step on the failure path.
// Cleanup never fails, but the report line is still emitted for it.
func (r *runner) runCleanup(s step.Step, cur step.Context) {
	out := r.execute(s, cur)
	if out.failed {
		// Unreachable for the built-in cleanup handler; report anyway.
		r.sink.Report(false, failMessage(out.msg, out.details))
		return
	}
	r.sink.Report(true, okMessage(s))
}

// awaitFlush forces pending UI updates and suspends until the flush
// completes. The callback is registered before the flush is forced so a
// synchronous toolkit resumes immediately.
func (r *runner) awaitFlush(ctx context.Context) {
	tk := r.opts.Toolkit
	if tk == nil {
		return
	}

	done := make(chan struct{})
	tk.AfterFlush(func() {
		close(done)
	})
	tk.FlushUpdates()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("flush wait abandoned", "error", ctx.Err())
	}
}

// captureWanted decides whether this step gets a screenshot: the per-step
// flag wins, otherwise the run-level option applies.
func (r *runner) captureWanted(flags step.Flags) bool {
	if flags.Screenshot != nil {
		return *flags.Screenshot
	}
	return r.opts.Screenshots
}
