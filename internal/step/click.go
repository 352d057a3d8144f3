package step

import "fmt"

// handleClick dispatches a click on the target element. Success is
// reported immediately; the runner schedules the resulting UI flush before
// the next step runs (FlushAfter defaults to true for this type).
func handleClick(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	el, msg, details := findTarget(d, ctx)
	if msg != "" {
		fail("click: "+msg, details)
		return
	}

	if el.Disabled() {
		fail("click: element is disabled", details)
		return
	}

	if err := el.Click(); err != nil {
		fail(fmt.Sprintf("click: %v", err), details)
		return
	}
	ok(ctx)
}
