package ui

import "context"

// Component is a renderable component description.
//
// The render step only accepts values satisfying this interface; anything
// else fails the renderable-description check before mounting is attempted.
type Component interface {
	// ComponentName identifies the component for labels and diagnostics.
	ComponentName() string
}

// Toolkit is the surface consumed from the host UI toolkit.
type Toolkit interface {
	// RenderInto mounts the component into the container.
	// Returns an error if mounting fails; the engine converts it into a
	// step failure.
	RenderInto(c Component, target Container) error

	// FlushUpdates forces all pending UI updates to be applied.
	FlushUpdates()

	// AfterFlush schedules fn to run once the next flush completes.
	// Callbacks registered before a FlushUpdates call run during that flush.
	AfterFlush(fn func())
}

// Capture grabs the current visual state of the UI under test.
//
// Invoked by the runner's screenshot side channel. Capture errors never
// affect step outcomes; the runner logs and continues.
type Capture interface {
	CaptureVisualState(ctx context.Context) error
}

// HUD renders the per-step heads-up overlay shown in captured frames.
type HUD interface {
	// ShowStep displays "step index/total" with the step's label.
	// failed selects the alert color used for the terminal failure frame.
	ShowStep(index, total int, label string, failed bool)

	// Clear removes the overlay after capture.
	Clear()
}
