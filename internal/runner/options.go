package runner

import (
	"log/slog"

	"github.com/roach88/stepwright/internal/step"
	"github.com/roach88/stepwright/internal/ui"
)

// Options configures one run.
type Options struct {
	// Screenshots captures the visual state after every step.
	// Per-step flags can force or suppress individual captures.
	Screenshots bool

	// InitialContext seeds the context threaded through the sequence.
	// Required; use step.Context{} for an empty seed.
	InitialContext step.Context

	// Done signals that the run - and therefore the surrounding test
	// case - has finished, success or failure. Required; invoked exactly
	// once on every path.
	Done func()

	// Report is the external assertion sink receiving one line per
	// executed step. Nil discards reports.
	Report Sink

	// Toolkit renders components and flushes UI updates. A nil toolkit
	// skips flush waits; render steps will fail.
	Toolkit ui.Toolkit

	// DOM creates and destroys mount containers.
	DOM ui.DOM

	// Capture grabs visual state for the screenshot side channel.
	// Required when Screenshots is set.
	Capture ui.Capture

	// HUD renders the per-step overlay in captured frames. Optional.
	HUD ui.HUD

	// Registry overrides the shared step registry. Optional.
	Registry *step.Registry

	// Logger receives engine diagnostics. Optional.
	Logger *slog.Logger
}

// validate rejects malformed options before any step executes.
func (o *Options) validate() *step.UsageError {
	if o.Done == nil {
		return step.NewOptionsError("done callback is required")
	}
	if o.InitialContext == nil {
		return step.NewOptionsError("initial context is required")
	}
	if o.Screenshots && o.Capture == nil {
		return step.NewOptionsError("screenshots enabled but no capture capability given")
	}
	return nil
}

func (o *Options) registry() *step.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return step.DefaultRegistry()
}
