package step

// handleInput types text into the target field: overwrite replaces the
// current value, the default appends to it. A change notification is
// dispatched after the mutation. Any error during mutation fails the step.
func handleInput(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	el, msg, details := findTarget(d, ctx)
	if msg != "" {
		fail("type: "+msg, details)
		return
	}

	text, errMsg := stringField(d.Fields, "text")
	if errMsg != "" {
		fail("type: "+errMsg, nil)
		return
	}

	overwrite, errMsg := boolField(d.Fields, "overwrite")
	if errMsg != "" {
		fail("type: "+errMsg, nil)
		return
	}

	completed := guardPanics(fail, "type: mutation failed", func() {
		if overwrite {
			el.SetValue(text)
		} else {
			el.SetValue(el.Value() + text)
		}
		el.DispatchChange()
	})
	if !completed {
		return
	}
	ok(ctx)
}
