package step

// CleanupStep returns the reserved synthetic terminal step the runner
// appends after every caller-supplied list.
func CleanupStep() Decl {
	return Decl{Type: TypeCleanup, Label: "cleanup"}
}

// handleCleanup destroys the rendering container iff the engine created
// it; caller-supplied containers are never touched. This step never fails.
func handleCleanup(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	target := ctx.Container()
	if target == nil || !ctx.ownsContainer() {
		ok(ctx)
		return
	}

	if env.DOM != nil {
		if err := env.DOM.RemoveContainer(target); err != nil {
			env.logger().Warn("cleanup: failed to remove container",
				"container", target.ID(), "error", err)
		}
	}
	ok(ctx.withoutContainer())
}
