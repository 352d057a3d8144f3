package runner

import "context"

// capture runs the screenshot side channel for one step: show the HUD
// overlay, capture the visual state, clear the overlay. Failures here are
// logged and never alter context or control flow - only timing.
func (r *runner) capture(ctx context.Context, index, total int, label string, failed bool) {
	if r.opts.Capture == nil {
		return
	}

	if r.opts.HUD != nil {
		r.opts.HUD.ShowStep(index, total, label, failed)
		defer r.opts.HUD.Clear()
	}

	if err := r.opts.Capture.CaptureVisualState(ctx); err != nil {
		r.logger.Warn("screenshot capture failed",
			"step", index, "label", label, "error", err)
	}
}
