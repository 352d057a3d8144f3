package step

import (
	"fmt"
	"time"
)

// handleWait succeeds unconditionally after the delay elapses.
func handleWait(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	raw, present := d.Fields["ms"]
	delay, numeric := asMillis(raw)
	if !present || !numeric {
		fail("wait: ms is not numeric", map[string]any{
			"ms": fmt.Sprintf("%T", raw),
		})
		return
	}

	runCtx := env.context()
	go func() {
		select {
		case <-time.After(delay):
			ok(ctx)
		case <-runCtx.Done():
			fail("wait: cancelled: "+runCtx.Err().Error(), nil)
		}
	}()
}
